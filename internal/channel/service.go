package channel

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

type service struct {
	repo Repo
}

func NewService(repo Repo) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, in Input) (*Channel, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	ch := &Channel{
		ID:    uuid.NewString(),
		BotID: strings.TrimSpace(in.BotID),
		URL:   in.URL,
		Token: token,
	}
	if err := s.repo.Create(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *service) List(ctx context.Context) ([]Channel, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, id string) (*Channel, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *service) FindByBotID(ctx context.Context, botID string) (*Channel, error) {
	return s.repo.FindByBotID(ctx, botID)
}

func (s *service) Update(ctx context.Context, id string, in Input) (*Channel, error) {
	ch, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	ch.BotID = strings.TrimSpace(in.BotID)
	ch.URL = in.URL
	if err := s.repo.Update(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (in Input) validate() error {
	if strings.TrimSpace(in.BotID) == "" {
		return &ValidationError{Field: "bot_id", Reason: "required"}
	}
	if in.URL == "" {
		return &ValidationError{Field: "channel_url", Reason: "required"}
	}
	u, err := url.Parse(in.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{Field: "channel_url", Reason: "must be an absolute http(s) URL"}
	}
	return nil
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

// newToken issues the credential sent to the channel with every relay.
func newToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate channel token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
