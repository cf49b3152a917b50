package dialogue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Vovarama1992/dialogue-relay/internal/bot"
	"github.com/Vovarama1992/dialogue-relay/internal/channel"
	"github.com/Vovarama1992/dialogue-relay/internal/relay"
)

var (
	ErrDuplicate = errors.New("duplicate message")
	ErrNotFound  = errors.New("dialogue not found")

	// ErrDialogueExists is returned by Repo.Create when (bot, chat) is taken.
	ErrDialogueExists = errors.New("dialogue already exists")
)

// Sender is who wrote a transcript entry.
type Sender string

const (
	SenderCustomer Sender = "customer"
	SenderEmployee Sender = "employee"
	SenderBot      Sender = "bot"
)

// Role is the responder-facing role of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Role maps the sender onto the responder's two-party view. Employees and
// the bot both speak for the business side.
func (s Sender) Role() Role {
	if s == SenderCustomer {
		return RoleUser
	}
	return RoleAssistant
}

// ParseInbound accepts the senders a webhook may carry.
func ParseInbound(v string) (Sender, bool) {
	switch Sender(v) {
	case SenderCustomer, SenderEmployee:
		return Sender(v), true
	}
	return "", false
}

// BotSuffix is appended to the inbound id to form the reply id.
const BotSuffix = "-bot"

type Message struct {
	MessageID string    `json:"message_id"`
	ChatID    string    `json:"chat_id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// Dialogue is the transcript of one (bot, chat) pair.
type Dialogue struct {
	ID        string    `json:"id"`
	BotID     string    `json:"bot_id"`
	ChatID    string    `json:"chat_id"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Has reports whether the transcript already holds messageID.
func (d *Dialogue) Has(messageID string) bool {
	_, ok := d.find(messageID)
	return ok
}

func (d *Dialogue) find(messageID string) (Message, bool) {
	for _, m := range d.Messages {
		if m.MessageID == messageID {
			return m, true
		}
	}
	return Message{}, false
}

// ReplyID picks the id of the bot reply to inboundID and reports whether
// that reply is already recorded. Ids taken by non-bot messages are skipped
// by numbering: 1-bot, 1-bot-2, 1-bot-3...
func (d *Dialogue) ReplyID(inboundID string) (string, bool) {
	id := inboundID + BotSuffix
	for n := 2; ; n++ {
		m, ok := d.find(id)
		if !ok {
			return id, false
		}
		if m.Sender == SenderBot {
			return id, true
		}
		id = fmt.Sprintf("%s%s-%d", inboundID, BotSuffix, n)
	}
}

// Incoming is a webhook message as received. Text is a pointer so an
// absent key can be told apart from an empty message.
type Incoming struct {
	MessageID string  `json:"message_id"`
	ChatID    string  `json:"chat_id"`
	Text      *string `json:"text"`
	Sender    string  `json:"message_sender"`
}

type Outcome string

const (
	OutcomeOK            Outcome = "OK"
	OutcomeEmployeeSaved Outcome = "Employee message saved"
)

// Repo — persistence
type Repo interface {
	// Find returns ErrNotFound when the pair has no dialogue.
	Find(ctx context.Context, botID, chatID string) (*Dialogue, error)
	// Create returns ErrDialogueExists on a (bot, chat) collision.
	Create(ctx context.Context, d *Dialogue) error
	// Append stores m at the end of the transcript and bumps updated_at.
	// It returns ErrDuplicate, leaving the dialogue untouched, when the
	// message id is already present.
	Append(ctx context.Context, d *Dialogue, m Message) error
}

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*bot.Bot, error)
}

type ChannelDirectory interface {
	FindByBotID(ctx context.Context, botID string) (*channel.Channel, error)
}

type Dispatcher interface {
	Deliver(ctx context.Context, target relay.Target, payload any) relay.Result
}

type Service interface {
	Process(ctx context.Context, token string, in Incoming) (Outcome, error)
	Transcript(ctx context.Context, token, chatID string) (*Dialogue, error)
}
