package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Vovarama1992/dialogue-relay/internal/ai"
	"github.com/Vovarama1992/dialogue-relay/internal/channel"
	"github.com/Vovarama1992/dialogue-relay/internal/relay"
)

// ValidationError describes a malformed webhook message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

type service struct {
	repo       Repo
	auth       Authenticator
	channels   ChannelDirectory
	responder  ai.Responder
	dispatcher Dispatcher
	now        func() time.Time
}

func NewService(
	repo Repo,
	auth Authenticator,
	channels ChannelDirectory,
	responder ai.Responder,
	dispatcher Dispatcher,
) Service {
	return &service{
		repo:       repo,
		auth:       auth,
		channels:   channels,
		responder:  responder,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Process(ctx context.Context, token string, in Incoming) (Outcome, error) {
	sender, err := in.validate()
	if err != nil {
		return "", err
	}

	b, err := s.auth.Authenticate(ctx, token)
	if err != nil {
		return "", err
	}

	ch, err := s.channels.FindByBotID(ctx, b.ID)
	if err != nil {
		return "", err
	}

	d, err := s.getOrCreate(ctx, b.ID, in.ChatID)
	if err != nil {
		return "", err
	}

	if prev, ok := d.find(in.MessageID); ok {
		// A redelivered customer message whose reply never got recorded
		// (e.g. the responder failed) is picked up where it stopped.
		if _, answered := d.ReplyID(in.MessageID); answered || prev.Sender != SenderCustomer {
			return "", ErrDuplicate
		}
		log.Printf("[dialogue] resuming unanswered message bot=%s chat=%s id=%s", b.ID, in.ChatID, in.MessageID)
		return s.reply(ctx, d, ch, in)
	}

	err = s.repo.Append(ctx, d, Message{
		MessageID: in.MessageID,
		ChatID:    in.ChatID,
		Text:      *in.Text,
		Sender:    sender,
		Role:      sender.Role(),
		Timestamp: s.now(),
	})
	if err != nil {
		return "", err
	}

	if sender == SenderEmployee {
		log.Printf("[dialogue] employee message saved bot=%s chat=%s id=%s", b.ID, in.ChatID, in.MessageID)
		return OutcomeEmployeeSaved, nil
	}

	return s.reply(ctx, d, ch, in)
}

// reply generates, relays and records the bot answer to a stored customer
// message.
func (s *service) reply(ctx context.Context, d *Dialogue, ch *channel.Channel, in Incoming) (Outcome, error) {
	// The inbound message is durable; finish the reply even if the sender hangs up.
	ctx = context.WithoutCancel(ctx)

	replyID, _ := d.ReplyID(in.MessageID)

	text, err := s.responder.Reply(ctx, history(d.Messages))
	if err != nil {
		return "", fmt.Errorf("responder: %w", err)
	}

	res := s.dispatcher.Deliver(ctx,
		relay.Target{URL: ch.URL, Token: ch.Token},
		relay.NewMessage(in.ChatID, text),
	)
	if !res.Delivered {
		log.Printf("[dialogue] relay failed bot=%s chat=%s channel=%s reason=%s status=%d detail=%s",
			d.BotID, in.ChatID, ch.ID, res.Reason, res.StatusCode, res.Detail)
	}

	err = s.repo.Append(ctx, d, Message{
		MessageID: replyID,
		ChatID:    in.ChatID,
		Text:      text,
		Sender:    SenderBot,
		Role:      SenderBot.Role(),
		Timestamp: s.now(),
	})
	if errors.Is(err, ErrDuplicate) {
		// a concurrent delivery of the same message recorded the reply first
		return "", ErrDuplicate
	}
	if err != nil {
		return "", fmt.Errorf("append reply: %w", err)
	}

	return OutcomeOK, nil
}

func (s *service) Transcript(ctx context.Context, token, chatID string) (*Dialogue, error) {
	b, err := s.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, b.ID, chatID)
}

// getOrCreate loses a creation race gracefully by re-reading the winner's row.
func (s *service) getOrCreate(ctx context.Context, botID, chatID string) (*Dialogue, error) {
	d, err := s.repo.Find(ctx, botID, chatID)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := s.now()
	d = &Dialogue{
		BotID:     botID,
		ChatID:    chatID,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.repo.Create(ctx, d)
	if errors.Is(err, ErrDialogueExists) {
		return s.repo.Find(ctx, botID, chatID)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func history(msgs []Message) []ai.Message {
	out := make([]ai.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ai.Message{Role: string(m.Role), Text: m.Text})
	}
	return out
}

func (in Incoming) validate() (Sender, error) {
	switch {
	case strings.TrimSpace(in.MessageID) == "":
		return "", &ValidationError{Field: "message_id", Reason: "required"}
	case strings.TrimSpace(in.ChatID) == "":
		return "", &ValidationError{Field: "chat_id", Reason: "required"}
	case in.Text == nil:
		return "", &ValidationError{Field: "text", Reason: "required"}
	}
	sender, ok := ParseInbound(in.Sender)
	if !ok {
		return "", &ValidationError{Field: "message_sender", Reason: "must be customer or employee"}
	}
	return sender, nil
}
