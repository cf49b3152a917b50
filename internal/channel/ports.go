package channel

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("channel not found")
	ErrInvalidID = errors.New("invalid channel id")
)

// ValidationError describes a rejected channel payload.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Channel is the delivery target replies of one bot are pushed to.
type Channel struct {
	ID        string    `json:"id"`
	BotID     string    `json:"bot_id"`
	URL       string    `json:"channel_url"`
	Token     string    `json:"channel_token"`
	CreatedAt time.Time `json:"created_at"`
}

// Input is the writable part of a channel.
type Input struct {
	URL   string `json:"channel_url"`
	BotID string `json:"bot_id"`
}

// Repo — persistence
type Repo interface {
	Create(ctx context.Context, ch *Channel) error
	List(ctx context.Context) ([]Channel, error)
	Get(ctx context.Context, id string) (*Channel, error)
	FindByBotID(ctx context.Context, botID string) (*Channel, error)
	Update(ctx context.Context, ch *Channel) error
	Delete(ctx context.Context, id string) error
}

type Service interface {
	Create(ctx context.Context, in Input) (*Channel, error)
	List(ctx context.Context) ([]Channel, error)
	Get(ctx context.Context, id string) (*Channel, error)
	FindByBotID(ctx context.Context, botID string) (*Channel, error)
	Update(ctx context.Context, id string, in Input) (*Channel, error)
	Delete(ctx context.Context, id string) error
}
