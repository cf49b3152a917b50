package channel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Repo {
	return &repo{db: db}
}

const selectChannel = `SELECT id, bot_id, channel_url, channel_token, created_at FROM channels`

func (r *repo) Create(ctx context.Context, ch *Channel) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO channels (id, bot_id, channel_url, channel_token)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, ch.ID, ch.BotID, ch.URL, ch.Token).Scan(&ch.CreatedAt)
	if err != nil {
		return fmt.Errorf("create channel: %w", err)
	}
	return nil
}

func (r *repo) List(ctx context.Context) ([]Channel, error) {
	rows, err := r.db.QueryContext(ctx, selectChannel+` ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	out := []Channel{}
	for rows.Next() {
		var ch Channel
		if err := rows.Scan(&ch.ID, &ch.BotID, &ch.URL, &ch.Token, &ch.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

func (r *repo) Get(ctx context.Context, id string) (*Channel, error) {
	return r.one(ctx, selectChannel+` WHERE id = $1`, id)
}

// FindByBotID returns the oldest channel of the bot.
func (r *repo) FindByBotID(ctx context.Context, botID string) (*Channel, error) {
	return r.one(ctx, selectChannel+` WHERE bot_id = $1 ORDER BY created_at ASC LIMIT 1`, botID)
}

func (r *repo) one(ctx context.Context, query string, arg string) (*Channel, error) {
	var ch Channel
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&ch.ID, &ch.BotID, &ch.URL, &ch.Token, &ch.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get channel: %w", err)
	}
	return &ch, nil
}

func (r *repo) Update(ctx context.Context, ch *Channel) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE channels SET bot_id = $2, channel_url = $3
		WHERE id = $1
	`, ch.ID, ch.BotID, ch.URL)
	if err != nil {
		return fmt.Errorf("update channel: %w", err)
	}
	return expectOne(res)
}

func (r *repo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM channels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
