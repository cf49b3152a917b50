package bot

import (
	"context"
	"errors"
	"time"
)

// ErrUnauthorized is returned for a missing or unknown bot credential.
var ErrUnauthorized = errors.New("invalid bot token")

type Bot struct {
	ID          string
	Name        string
	SecretToken string
	CreatedAt   time.Time
}

// Repo — persistence
type Repo interface {
	FindBySecret(ctx context.Context, secret string) (*Bot, error)
	Create(ctx context.Context, b *Bot) error
}
