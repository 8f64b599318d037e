package http

import (
	"context"

	"buurbak-availability/internal/domain"
)

type sessionKey struct{}

func withSession(ctx context.Context, s domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session set by the auth middleware. Anonymous
// requests get a zero session.
func SessionFromContext(ctx context.Context) domain.Session {
	s, _ := ctx.Value(sessionKey{}).(domain.Session)
	return s
}
