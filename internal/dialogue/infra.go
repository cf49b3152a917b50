package dialogue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Vovarama1992/dialogue-relay/internal/storage"
)

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Repo {
	return &repo{db: db}
}

func (r *repo) Find(ctx context.Context, botID, chatID string) (*Dialogue, error) {
	var d Dialogue
	err := r.db.QueryRowContext(ctx, `
		SELECT id, bot_id, chat_id, created_at, updated_at
		FROM dialogues
		WHERE bot_id = $1 AND chat_id = $2
	`, botID, chatID).Scan(&d.ID, &d.BotID, &d.ChatID, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find dialogue: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT message_id, chat_id, text, sender, role, created_at
		FROM dialogue_messages
		WHERE dialogue_id = $1
		ORDER BY seq ASC
	`, d.ID)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	defer rows.Close()

	d.Messages = []Message{}
	for rows.Next() {
		var m Message
		var sender, role string
		if err := rows.Scan(&m.MessageID, &m.ChatID, &m.Text, &sender, &role, &m.Timestamp); err != nil {
			return nil, err
		}
		m.Sender = Sender(sender)
		m.Role = Role(role)
		d.Messages = append(d.Messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, d *Dialogue) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dialogues (id, bot_id, chat_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, d.ID, d.BotID, d.ChatID, d.CreatedAt, d.UpdatedAt)
	if storage.IsUniqueViolation(err) {
		return ErrDialogueExists
	}
	if err != nil {
		return fmt.Errorf("create dialogue: %w", err)
	}
	return nil
}

// Append is a conditional write: the unique (dialogue_id, message_id) index
// decides duplicates, so concurrent deliveries of one id store it once.
func (r *repo) Append(ctx context.Context, d *Dialogue, m Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO dialogue_messages (dialogue_id, message_id, chat_id, text, sender, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (dialogue_id, message_id) DO NOTHING
	`, d.ID, m.MessageID, m.ChatID, m.Text, string(m.Sender), string(m.Role), m.Timestamp)
	if err != nil {
		return fmt.Errorf("append: insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("append: %w", err)
	}
	if n == 0 {
		return ErrDuplicate
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE dialogues SET updated_at = $2 WHERE id = $1
	`, d.ID, m.Timestamp); err != nil {
		return fmt.Errorf("append: touch dialogue: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append: commit: %w", err)
	}

	d.Messages = append(d.Messages, m)
	d.UpdatedAt = m.Timestamp
	return nil
}
