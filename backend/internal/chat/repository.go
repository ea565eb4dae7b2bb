package chat

import "context"

// Repository keeps the conversation of one session in send order.
type Repository interface {
	Append(ctx context.Context, m *Message) error
	// List returns the last limit messages, oldest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*Message, error)
	Clear(ctx context.Context) error
}
