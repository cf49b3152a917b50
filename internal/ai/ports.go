package ai

import (
	"context"
	"errors"
)

// ErrEmptyReply is returned when the model produced no choices.
var ErrEmptyReply = errors.New("ai: empty reply")

// Responder produces the bot reply for a conversation. It knows nothing about
// channels or storage.
type Responder interface {
	Reply(ctx context.Context, history []Message) (string, error)
}

// Message — универсальный формат диалога для AI
type Message struct {
	Role string // "user" | "assistant" | "system"
	Text string
}
