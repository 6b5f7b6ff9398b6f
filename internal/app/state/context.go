package state

import "context"

type sessionCtxKey struct{}

// WithSession stores the session in the context. The inbound auth
// middleware sets it; handlers and the outbound client read it.
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, session)
}

// SessionFromContext extracts the session, nil if absent.
func SessionFromContext(ctx context.Context) *Session {
	if ctx == nil {
		return nil
	}

	if session, ok := ctx.Value(sessionCtxKey{}).(*Session); ok {
		return session
	}

	return nil
}

// TokenFromContext returns the bearer token of the context's session,
// empty when no session is attached. The outbound HTTP client uses this
// to forward the credential to the upstream forum service.
func TokenFromContext(ctx context.Context) string {
	if session := SessionFromContext(ctx); session != nil {
		return session.Token()
	}

	return ""
}
