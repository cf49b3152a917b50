package dialogue

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/Vovarama1992/dialogue-relay/internal/ai"
	"github.com/Vovarama1992/dialogue-relay/internal/bot"
	"github.com/Vovarama1992/dialogue-relay/internal/channel"
	"github.com/Vovarama1992/dialogue-relay/internal/relay"
)

// memRepo enforces the same uniqueness rules as the postgres schema.
type memRepo struct {
	mu        sync.Mutex
	dialogues map[string]*Dialogue
	creates   int
	appendErr error

	// beforeCreate runs inside Create; used to simulate a lost creation race.
	beforeCreate func(d *Dialogue)
}

func newMemRepo() *memRepo {
	return &memRepo{dialogues: map[string]*Dialogue{}}
}

func key(botID, chatID string) string { return botID + "\x00" + chatID }

func clone(d *Dialogue) *Dialogue {
	cp := *d
	cp.Messages = append([]Message{}, d.Messages...)
	return &cp
}

func (m *memRepo) Find(_ context.Context, botID, chatID string) (*Dialogue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.dialogues[key(botID, chatID)]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(d), nil
}

func (m *memRepo) Create(_ context.Context, d *Dialogue) error {
	if m.beforeCreate != nil {
		m.beforeCreate(d)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(d.BotID, d.ChatID)
	if _, ok := m.dialogues[k]; ok {
		return ErrDialogueExists
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	m.creates++
	m.dialogues[k] = clone(d)
	return nil
}

func (m *memRepo) Append(_ context.Context, d *Dialogue, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	stored, ok := m.dialogues[key(d.BotID, d.ChatID)]
	if !ok {
		return errors.New("append to unknown dialogue")
	}
	if stored.Has(msg.MessageID) {
		return ErrDuplicate
	}
	stored.Messages = append(stored.Messages, msg)
	stored.UpdatedAt = msg.Timestamp
	d.Messages = append(d.Messages, msg)
	d.UpdatedAt = msg.Timestamp
	return nil
}

func (m *memRepo) stored(botID, chatID string) *Dialogue {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.dialogues[key(botID, chatID)]
	if !ok {
		return nil
	}
	return clone(d)
}

type fakeAuth struct {
	bots map[string]*bot.Bot
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*bot.Bot, error) {
	b, ok := f.bots[token]
	if !ok || token == "" {
		return nil, bot.ErrUnauthorized
	}
	return b, nil
}

type fakeChannels struct {
	byBot map[string]*channel.Channel
	err   error
}

func (f *fakeChannels) FindByBotID(_ context.Context, botID string) (*channel.Channel, error) {
	if f.err != nil {
		return nil, f.err
	}
	ch, ok := f.byBot[botID]
	if !ok {
		return nil, channel.ErrNotFound
	}
	return ch, nil
}

type recordingResponder struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	history []ai.Message
}

func (r *recordingResponder) Reply(_ context.Context, history []ai.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.history = append([]ai.Message{}, history...)
	return r.reply, r.err
}

type delivery struct {
	target  relay.Target
	payload any
}

type fakeDispatcher struct {
	mu         sync.Mutex
	result     relay.Result
	deliveries []delivery
}

func (f *fakeDispatcher) Deliver(_ context.Context, target relay.Target, payload any) relay.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deliveries = append(f.deliveries, delivery{target: target, payload: payload})
	return f.result
}
