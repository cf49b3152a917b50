package bot

import (
	"context"
	"strings"
)

type Authenticator struct {
	repo Repo
}

func NewAuthenticator(repo Repo) *Authenticator {
	return &Authenticator{repo: repo}
}

// Authenticate resolves a bearer credential to its bot.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*Bot, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	return a.repo.FindBySecret(ctx, token)
}

// ParseBearer extracts the credential from an Authorization header value.
// It returns "" when the header is absent or uses another scheme.
func ParseBearer(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
