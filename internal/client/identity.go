package client

import (
	"context"
	"errors"
	"strings"

	"goal-roadmap/internal/domain"
)

// Identity entrega el usuario en nombre del cual se envia una meta.
type Identity interface {
	UserID(ctx context.Context) (string, error)
}

// StaticIdentity devuelve siempre el mismo usuario.
type StaticIdentity string

func (s StaticIdentity) UserID(_ context.Context) (string, error) {
	id := strings.TrimSpace(string(s))
	if id == "" {
		return "", errors.New("user id not configured")
	}
	return id, nil
}

// DefaultIdentity usa el placeholder historico del frontend.
var DefaultIdentity Identity = StaticIdentity(domain.DefaultUserID)
