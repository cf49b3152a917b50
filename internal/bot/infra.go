package bot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Repo {
	return &repo{db: db}
}

// FindBySecret returns ErrUnauthorized when no bot holds the secret.
func (r *repo) FindBySecret(ctx context.Context, secret string) (*Bot, error) {
	var b Bot
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, secret_token, created_at
		FROM bots
		WHERE secret_token = $1
	`, secret).Scan(&b.ID, &b.Name, &b.SecretToken, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("find bot: %w", err)
	}
	return &b, nil
}

func (r *repo) Create(ctx context.Context, b *Bot) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO bots (id, name, secret_token)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, b.ID, b.Name, b.SecretToken).Scan(&b.CreatedAt)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}
	return nil
}
