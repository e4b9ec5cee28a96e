// ABOUTME: AIMessage model for the append-only assistant conversation log.
// ABOUTME: Role is either user or assistant.
package models

import "time"

// Role identifies who wrote a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// AIMessage is one line of the assistant log.
type AIMessage struct {
	ID        int64     `json:"id" yaml:"id"`
	Role      Role      `json:"role" yaml:"role" validate:"oneof=user assistant"`
	Content   string    `json:"content" yaml:"content" validate:"required,max=20000"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// NewAIMessage creates a message for the log.
func NewAIMessage(role Role, content string) *AIMessage {
	return &AIMessage{Role: role, Content: content}
}
