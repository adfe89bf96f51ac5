package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"student_portal_backend/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// maxCachedMessages bounds the per-session Redis history cache.
const maxCachedMessages = 50

type ChatRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewChatRepository(db *gorm.DB, rdb *redis.Client) *ChatRepository {
	return &ChatRepository{DB: db, Redis: rdb, ctx: context.Background()}
}

func (r *ChatRepository) CreateSession(session *model.ChatSession) error {
	return r.DB.Create(session).Error
}

func (r *ChatRepository) GetSession(id string) (*model.ChatSession, error) {
	var session model.ChatSession
	err := r.DB.First(&session, "id = ?", id).Error
	return &session, err
}

func (r *ChatRepository) GetUserSessions(userID uint, limit, offset int) ([]model.ChatSession, int64, error) {
	var sessions []model.ChatSession
	var total int64

	db := r.DB.Model(&model.ChatSession{}).Where("user_id = ?", userID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&sessions).Error
	return sessions, total, err
}

// AppendMessage persists a message, bumps the session's activity time and
// refreshes the Redis history cache.
func (r *ChatRepository) AppendMessage(msg *model.ChatMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.ChatSession{}).
			Where("id = ?", msg.SessionID).
			Update("updated_at", msg.CreatedAt).Error
	})
	if err != nil {
		return err
	}

	if r.Redis != nil {
		r.cacheMessage(msg)
	}
	return nil
}

// History returns up to limit messages in chronological order. Recent
// history is served from Redis; older rows are backfilled from MySQL when
// the cache holds fewer messages than requested.
func (r *ChatRepository) History(sessionID string, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 {
		limit = maxCachedMessages
	}

	var cached []model.ChatMessage
	if r.Redis != nil {
		key := sessionCacheKey(sessionID)
		raw, err := r.Redis.LRange(r.ctx, key, 0, int64(limit-1)).Result()
		if err == nil {
			for _, item := range raw {
				var m model.ChatMessage
				if err := json.Unmarshal([]byte(item), &m); err != nil {
					cached = cached[:0]
					break
				}
				cached = append(cached, m)
			}
		}
	}
	if len(cached) >= limit {
		reverseMessages(cached)
		return cached, nil
	}

	db := r.DB.Where("session_id = ?", sessionID)
	if len(cached) > 0 {
		// Cache holds the newest rows; fetch older ones ahead of them.
		oldest := cached[len(cached)-1]
		db = db.Where("created_at < ?", oldest.CreatedAt)
	}

	var older []model.ChatMessage
	err := db.Order("created_at DESC").Limit(limit - len(cached)).Find(&older).Error
	if err != nil {
		return nil, err
	}

	msgs := append(cached, older...)
	reverseMessages(msgs)
	return msgs, nil
}

// ClearMessages wipes a session's history but keeps the session row.
func (r *ChatRepository) ClearMessages(sessionID string) error {
	err := r.DB.Where("session_id = ?", sessionID).Delete(&model.ChatMessage{}).Error
	if err == nil && r.Redis != nil {
		r.Redis.Del(r.ctx, sessionCacheKey(sessionID))
	}
	return err
}

func (r *ChatRepository) DeleteSession(sessionID string) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&model.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ChatSession{}, "id = ?", sessionID).Error
	})
	if err == nil && r.Redis != nil {
		r.Redis.Del(r.ctx, sessionCacheKey(sessionID))
	}
	return err
}

func (r *ChatRepository) cacheMessage(msg *model.ChatMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	key := sessionCacheKey(msg.SessionID)
	pipe := r.Redis.Pipeline()
	pipe.LPush(r.ctx, key, data)
	pipe.LTrim(r.ctx, key, 0, maxCachedMessages-1)
	pipe.Expire(r.ctx, key, 24*time.Hour)
	pipe.Exec(r.ctx)
}

func sessionCacheKey(sessionID string) string {
	return fmt.Sprintf("chat:cache:%s", sessionID)
}

func reverseMessages(msgs []model.ChatMessage) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
