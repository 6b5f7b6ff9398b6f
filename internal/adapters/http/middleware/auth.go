package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/stackit/interaction/internal/adapters/http/dto"
	"github.com/stackit/interaction/internal/app/state"
)

const (
	// ContextKeySession is the gin context key for the resolved session.
	ContextKeySession = "session"

	bearerPrefix = "Bearer "
)

// SessionAuth resolves the bearer token against the session store and
// attaches the session to both the gin context and the request context
// (the outbound client reads it there to forward the credential).
//
// Requests without an Authorization header are served with the shared
// anonymous session, which supports browsing but no write intents. A
// bearer token that resolves to no live session is rejected with 401 so
// stale clients re-authenticate instead of silently browsing logged
// out.
func SessionAuth(store *state.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			attachSession(c, store.Anonymous())
			c.Next()

			return
		}

		session := store.Get(token)
		if session == nil {
			abortUnauthorized(c, "session expired or unknown, sign in again")
			return
		}

		attachSession(c, session)
		c.Next()
	}
}

// RequireSession aborts with 401 unless an authenticated session was
// resolved. Apply after SessionAuth on routes that cannot serve
// anonymously.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		if session == nil || !session.Authenticated() {
			abortUnauthorized(c, "authentication required")
			return
		}

		c.Next()
	}
}

func attachSession(c *gin.Context, session *state.Session) {
	c.Set(ContextKeySession, session)
	c.Request = c.Request.WithContext(state.WithSession(c.Request.Context(), session))
}

// GetSession retrieves the session from the gin context, nil if absent.
func GetSession(c *gin.Context) *state.Session {
	if value, exists := c.Get(ContextKeySession); exists {
		if session, ok := value.(*state.Session); ok {
			return session
		}
	}

	return nil
}

// bearerToken extracts the bearer credential from the Authorization
// header, empty when the header is absent or malformed.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}

	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
}

// abortUnauthorized aborts with a 401 Unauthorized response.
func abortUnauthorized(c *gin.Context, message string) {
	errResp := dto.NewErrorResponse(dto.ErrorCodeUnauthorized, message)

	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		errResp.TraceID = span.SpanContext().TraceID().String()
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, errResp)
}
