package controller

import (
	"errors"
	"strconv"

	"student_portal_backend/internal/service"
	"student_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	ChatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

// ChatRequest carries one user turn. An empty session_id starts a new
// conversation.
// swagger:model ChatRequest
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

// Ask godoc
// @Summary Ask the advisor
// @Description Sends one message to the AI advisor and returns the full reply
// @Tags chat
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ChatRequest true "message"
// @Success 200 {object} util.Response{data=service.ChatReply} "reply"
// @Failure 400 {object} util.Response "invalid payload"
// @Failure 404 {object} util.Response "session not found"
// @Failure 502 {object} util.Response "model unavailable"
// @Router /api/chat [post]
func (c *ChatController) Ask(ctx *gin.Context) {
	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	reply, err := c.ChatService.Ask(ctx.Request.Context(), claims.UserID, req.SessionID, req.Message)
	if err != nil {
		c.respondChatError(ctx, err)
		return
	}

	util.Success(ctx, reply)
}

// AskStream godoc
// @Summary Ask the advisor (streaming)
// @Description Sends one message and streams the reply as server-sent events
// @Tags chat
// @Accept  json
// @Produce  text/event-stream
// @Security ApiKeyAuth
// @Param   body body ChatRequest true "message"
// @Success 200 {string} string "SSE stream: session, message*, end"
// @Failure 400 {object} util.Response "invalid payload"
// @Failure 404 {object} util.Response "session not found"
// @Router /api/chat/stream [post]
func (c *ChatController) AskStream(ctx *gin.Context) {
	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	session, stream, errChan, err := c.ChatService.AskStream(ctx.Request.Context(), claims.UserID, req.SessionID, req.Message)
	if err != nil {
		c.respondChatError(ctx, err)
		return
	}

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("Transfer-Encoding", "chunked")

	ctx.SSEvent("session", session.ID)
	ctx.Writer.Flush()

	for content := range stream {
		ctx.SSEvent("message", content)
		ctx.Writer.Flush()
	}

	if err := <-errChan; err != nil {
		ctx.SSEvent("error", err.Error())
		ctx.Writer.Flush()
	}

	ctx.SSEvent("end", "done")
	ctx.Writer.Flush()
}

// GetSessions godoc
// @Summary List conversations
// @Description Returns the caller's chat sessions, most recently active first
// @Tags chat
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "page size" default(20)
// @Param   offset query int false "offset" default(0)
// @Success 200 {object} util.Response "session list"
// @Router /api/chat/sessions [get]
func (c *ChatController) GetSessions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	sessions, total, err := c.ChatService.Sessions(claims.UserID, limit, offset)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"sessions": sessions, "total": total, "limit": limit, "offset": offset})
}

// GetHistory godoc
// @Summary Conversation history
// @Description Returns a session's messages in chronological order
// @Tags chat
// @Produce  json
// @Security ApiKeyAuth
// @Param   sessionId path string true "session ID"
// @Param   limit query int false "max messages" default(50)
// @Success 200 {object} util.Response "messages"
// @Failure 403 {object} util.Response "not the session owner"
// @Failure 404 {object} util.Response "session not found"
// @Router /api/chat/history/{sessionId} [get]
func (c *ChatController) GetHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	messages, err := c.ChatService.History(claims.UserID, ctx.Param("sessionId"), limit)
	if err != nil {
		c.respondChatError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"session_id": ctx.Param("sessionId"), "messages": messages})
}

// swagger:model ResetChatRequest
type ResetChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// Reset godoc
// @Summary Reset a conversation
// @Description Clears a session's history so the next turn starts fresh
// @Tags chat
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ResetChatRequest true "session to reset"
// @Success 200 {object} util.Response "reset"
// @Failure 403 {object} util.Response "not the session owner"
// @Failure 404 {object} util.Response "session not found"
// @Router /api/chat/reset [post]
func (c *ChatController) Reset(ctx *gin.Context) {
	var req ResetChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ChatService.Reset(claims.UserID, req.SessionID); err != nil {
		c.respondChatError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"session_id": req.SessionID, "status": "reset"})
}

// DeleteSession godoc
// @Summary Delete a conversation
// @Description Removes a session and all of its messages
// @Tags chat
// @Produce  json
// @Security ApiKeyAuth
// @Param   sessionId path string true "session ID"
// @Success 200 {object} util.Response "deleted"
// @Failure 403 {object} util.Response "not the session owner"
// @Failure 404 {object} util.Response "session not found"
// @Router /api/chat/sessions/{sessionId} [delete]
func (c *ChatController) DeleteSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sessionID := ctx.Param("sessionId")
	if err := c.ChatService.DeleteSession(claims.UserID, sessionID); err != nil {
		c.respondChatError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"session_id": sessionID, "status": "deleted"})
}

func (c *ChatController) respondChatError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
