package model

// ChatSession is one advisor conversation thread. The LLM context is rebuilt
// from the stored messages on every turn.
type ChatSession struct {
	UUIDBase
	UserID    uint          `gorm:"index;type:bigint unsigned" json:"userId"`
	StudentID uint          `gorm:"index;type:bigint unsigned" json:"studentId"`
	Title     string        `gorm:"size:200" json:"title"`
	Messages  []ChatMessage `gorm:"foreignKey:SessionID" json:"messages,omitempty"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn inside a session, ordered by creation time.
type ChatMessage struct {
	BaseModel
	SessionID string   `gorm:"index:idx_session_created;type:varchar(36);not null" json:"sessionId"`
	Role      ChatRole `gorm:"type:enum('system','user','assistant');default:'user'" json:"role"`
	Content   string   `gorm:"type:text" json:"content"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
