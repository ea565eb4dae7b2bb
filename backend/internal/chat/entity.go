package chat

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/kazz187/fieldguild/backend/internal/llm"
)

type Message struct {
	ID        string    `yaml:"id" json:"id"`
	Role      llm.Role  `yaml:"role" json:"role"`
	Content   string    `yaml:"content" json:"content"`
	Results   []string  `yaml:"results,omitempty" json:"results,omitempty"`
	CreatedAt time.Time `yaml:"created_at" json:"createdAt"`
}

func NewMessage(role llm.Role, content string, now time.Time) *Message {
	return &Message{
		ID:        ulid.Make().String(),
		Role:      role,
		Content:   content,
		CreatedAt: now,
	}
}
