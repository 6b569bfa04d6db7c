package api

import (
	"context"

	"github.com/rpupo63/shooting-roster/services"
)

type keyType string

const sessionKey keyType = "session"

// ctxWithSession adds the authenticated session to the context
func ctxWithSession(ctx context.Context, session services.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// ctxGetSession retrieves the session stored by the auth middleware
func ctxGetSession(ctx context.Context) (services.Session, bool) {
	session, ok := ctx.Value(sessionKey).(services.Session)
	return session, ok
}
