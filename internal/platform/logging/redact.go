package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// Value patterns that identify credentials regardless of field name.
var (
	// JWT: three base64url segments separated by dots
	jwtPattern = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)

	// Authorization header values
	bearerPattern    = regexp.MustCompile(`(?i)^bearer\s+.+$`)
	basicAuthPattern = regexp.MustCompile(`(?i)^basic\s+.+$`)
)

// DefaultRedactOptions returns the masq options applied to every log line.
// The list covers the credentials this service handles: sign-in passwords,
// the upstream forum's access and refresh tokens, and raw Authorization
// header values. Session keys equal the access token, so anything named
// like a token or session is masked too.
func DefaultRedactOptions() []masq.Option {
	return []masq.Option{
		// Sign-in and registration payloads
		masq.WithFieldName("password"),
		masq.WithFieldName("Password"),

		// Upstream credential pair
		masq.WithFieldName("token"),
		masq.WithFieldName("accessToken"),
		masq.WithFieldName("access_token"),
		masq.WithFieldName("AccessToken"),
		masq.WithFieldName("refreshToken"),
		masq.WithFieldName("refresh_token"),
		masq.WithFieldName("RefreshToken"),

		// Session store keys carry the bearer token verbatim
		masq.WithFieldName("session"),
		masq.WithFieldName("session_key"),
		masq.WithFieldName("sessionKey"),

		// Raw header material
		masq.WithFieldName("authorization"),
		masq.WithFieldName("auth"),
		masq.WithFieldName("bearer"),
		masq.WithFieldName("cookie"),

		// Anything secret-shaped by name
		masq.WithFieldName("secret"),
		masq.WithFieldName("credential"),
		masq.WithFieldName("credentials"),
		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),

		// Credential-shaped values under innocuous names
		masq.WithRegex(jwtPattern),
		masq.WithRegex(bearerPattern),
		masq.WithRegex(basicAuthPattern),
	}
}

// NewReplaceAttr builds the ReplaceAttr function for slog.HandlerOptions.
// Extra options extend the defaults:
//
//	opts := &slog.HandlerOptions{
//	    ReplaceAttr: logging.NewReplaceAttr(masq.WithType[ports.Credentials]()),
//	}
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	allOpts := append(DefaultRedactOptions(), opts...)
	return masq.New(allOpts...)
}
