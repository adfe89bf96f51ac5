package service

import (
	"context"
	"fmt"
	"strings"

	"student_portal_backend/internal/model"
	"student_portal_backend/internal/repository"
	"student_portal_backend/internal/util"
	"student_portal_backend/pkg/logger"

	"go.uber.org/zap"
)

// maxContextTurns bounds how many prior messages are replayed to the model
// on each turn.
const maxContextTurns = 10

// ChatService runs advisor conversations. Each turn replays recent history
// plus a context block describing the student, so the model can answer
// questions about their actual record.
type ChatService struct {
	ChatRepo       *repository.ChatRepository
	StudentRepo    *repository.StudentRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Prediction     *PredictionService
	AI             *AIService
}

func NewChatService(
	chatRepo *repository.ChatRepository,
	studentRepo *repository.StudentRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	prediction *PredictionService,
	ai *AIService,
) *ChatService {
	return &ChatService{
		ChatRepo:       chatRepo,
		StudentRepo:    studentRepo,
		EnrollmentRepo: enrollmentRepo,
		Prediction:     prediction,
		AI:             ai,
	}
}

// ChatReply is one completed advisor turn.
type ChatReply struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// Ask answers one message. An empty sessionID starts a new session titled
// after the message.
func (s *ChatService) Ask(ctx context.Context, userID uint, sessionID string, message string) (*ChatReply, error) {
	session, history, contextText, err := s.prepareTurn(ctx, userID, sessionID, message)
	if err != nil {
		return nil, err
	}

	messages := make([]AIChatMessage, 0, len(history)+2)
	systemContent := defaultSystemPrompt
	if contextText != "" {
		systemContent = fmt.Sprintf("You are an academic advisor. Use the following student context when answering:\n\n%s", contextText)
	}
	messages = append(messages, AIChatMessage{Role: "system", Content: systemContent})
	messages = append(messages, history...)
	messages = append(messages, AIChatMessage{Role: "user", Content: message})

	reply, err := s.AI.Complete(ctx, messages, 0.7)
	if err != nil {
		return nil, err
	}

	s.append(session.ID, model.ChatRoleUser, message)
	s.append(session.ID, model.ChatRoleAssistant, reply)

	return &ChatReply{SessionID: session.ID, Reply: reply}, nil
}

// AskStream answers one message as a delta stream. The full reply is
// persisted once the stream finishes.
func (s *ChatService) AskStream(ctx context.Context, userID uint, sessionID string, message string) (*model.ChatSession, <-chan string, <-chan error, error) {
	session, history, contextText, err := s.prepareTurn(ctx, userID, sessionID, message)
	if err != nil {
		return nil, nil, nil, err
	}

	s.append(session.ID, model.ChatRoleUser, message)

	in, errChan := s.AI.ChatStream(ctx, message, contextText, history)
	out := make(chan string)
	go func() {
		defer close(out)
		var full strings.Builder
		for chunk := range in {
			full.WriteString(chunk)
			out <- chunk
		}
		if full.Len() > 0 {
			s.append(session.ID, model.ChatRoleAssistant, full.String())
		}
	}()

	return session, out, errChan, nil
}

// History returns a session's messages in chronological order.
func (s *ChatService) History(userID uint, sessionID string, limit int) ([]model.ChatMessage, error) {
	if _, err := s.ownedSession(userID, sessionID); err != nil {
		return nil, err
	}
	return s.ChatRepo.History(sessionID, limit)
}

// Sessions lists the user's conversations, most recently active first.
func (s *ChatService) Sessions(userID uint, limit, offset int) ([]model.ChatSession, int64, error) {
	return s.ChatRepo.GetUserSessions(userID, limit, offset)
}

// Reset wipes a session's history while keeping the session itself, so the
// next turn starts a fresh conversation.
func (s *ChatService) Reset(userID uint, sessionID string) error {
	if _, err := s.ownedSession(userID, sessionID); err != nil {
		return err
	}
	return s.ChatRepo.ClearMessages(sessionID)
}

// DeleteSession removes a session and its messages.
func (s *ChatService) DeleteSession(userID uint, sessionID string) error {
	if _, err := s.ownedSession(userID, sessionID); err != nil {
		return err
	}
	return s.ChatRepo.DeleteSession(sessionID)
}

// prepareTurn resolves or creates the session and assembles the model inputs
// for one turn.
func (s *ChatService) prepareTurn(ctx context.Context, userID uint, sessionID string, message string) (*model.ChatSession, []AIChatMessage, string, error) {
	var session *model.ChatSession
	var err error

	if sessionID == "" {
		session = &model.ChatSession{
			UserID: userID,
			Title:  sessionTitle(message),
		}
		if student, serr := s.StudentRepo.FindByUserID(userID); serr == nil {
			session.StudentID = student.ID
		}
		if err = s.ChatRepo.CreateSession(session); err != nil {
			return nil, nil, "", err
		}
	} else {
		session, err = s.ownedSession(userID, sessionID)
		if err != nil {
			return nil, nil, "", err
		}
	}

	stored, err := s.ChatRepo.History(session.ID, maxContextTurns)
	if err != nil {
		logger.Log.Warn("chat history load failed", zap.String("sessionId", session.ID), zap.Error(err))
		stored = nil
	}
	history := make([]AIChatMessage, 0, len(stored))
	for _, m := range stored {
		if m.Role == model.ChatRoleSystem {
			continue
		}
		history = append(history, AIChatMessage{Role: string(m.Role), Content: m.Content})
	}

	return session, history, s.buildStudentContext(ctx, session.StudentID), nil
}

func (s *ChatService) ownedSession(userID uint, sessionID string) (*model.ChatSession, error) {
	session, err := s.ChatRepo.GetSession(sessionID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return session, nil
}

func (s *ChatService) append(sessionID string, role model.ChatRole, content string) {
	err := s.ChatRepo.AppendMessage(&model.ChatMessage{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	})
	if err != nil {
		logger.Log.Warn("chat message persist failed", zap.String("sessionId", sessionID), zap.Error(err))
	}
}

// buildStudentContext renders the student's record for the system prompt.
// Returns "" when no student is linked to the session.
func (s *ChatService) buildStudentContext(ctx context.Context, studentID uint) string {
	if studentID == 0 {
		return ""
	}

	student, err := s.StudentRepo.FindByID(studentID)
	if err != nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Student Name: %s\n", student.Name)
	fmt.Fprintf(&b, "Student ID: %d\n", student.ID)

	completed, err := s.EnrollmentRepo.CompletedCourseNames(studentID)
	if err == nil && len(completed) > 0 {
		fmt.Fprintf(&b, "Completed Courses: %s\n", strings.Join(completed, ", "))
	} else {
		b.WriteString("Completed Courses: None (new student)\n")
	}

	if enrollments, err := s.EnrollmentRepo.FindByStudentAndStatus(studentID, model.EnrollmentActive); err == nil && len(enrollments) > 0 {
		names := make([]string, len(enrollments))
		for i, e := range enrollments {
			names[i] = e.Course.Name
		}
		fmt.Fprintf(&b, "Currently Enrolled: %s\n", strings.Join(names, ", "))
	}

	if avg, ok, err := s.EnrollmentRepo.AverageGrade(studentID); err == nil && ok {
		fmt.Fprintf(&b, "GPA: %.2f\n", avg)
	}

	if s.Prediction != nil {
		if p, err := s.Prediction.PredictPerformance(ctx, studentID, ""); err == nil {
			fmt.Fprintf(&b, "Predicted Performance: %.1f (risk level: %s)\n", p.PredictedGrade, p.RiskLevel)
		}
	}

	return b.String()
}

func sessionTitle(message string) string {
	title := strings.TrimSpace(message)
	if len(title) > 50 {
		title = title[:50]
	}
	if title == "" {
		title = "New conversation"
	}
	return title
}
