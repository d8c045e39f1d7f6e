package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// SignInTTL bounds how long a started sign-in may wait for its callback.
const SignInTTL = 10 * time.Minute

// SessionCookies reads and writes the session and PKCE cookies.
type SessionCookies struct {
	Prefix string
	Secure bool
	MaxAge time.Duration
}

// NewSessionCookies creates the cookie jar helper.
func NewSessionCookies(prefix string, secure bool, maxAge time.Duration) *SessionCookies {
	return &SessionCookies{Prefix: prefix, Secure: secure, MaxAge: maxAge}
}

func (s *SessionCookies) name(suffix string) string {
	return s.Prefix + "-" + suffix
}

func (s *SessionCookies) set(c *gin.Context, name, value, path string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   maxAge,
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func cookieValue(c *gin.Context, name string) string {
	v, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return v
}

// Read returns the session carried by the request, or nil when there is none.
func (s *SessionCookies) Read(c *gin.Context) *domain.Session {
	session := &domain.Session{
		AccessToken:  cookieValue(c, s.name("access-token")),
		RefreshToken: cookieValue(c, s.name("refresh-token")),
		TokenType:    "Bearer",
	}
	if session.Empty() {
		return nil
	}
	if exp, err := strconv.ParseInt(cookieValue(c, s.name("expires-at")), 10, 64); err == nil {
		session.Expiry = time.Unix(exp, 0)
	}
	return session
}

// Write stores session on the response.
func (s *SessionCookies) Write(c *gin.Context, session *domain.Session) {
	if session.Empty() {
		return
	}
	maxAge := int(s.MaxAge.Seconds())
	s.set(c, s.name("access-token"), session.AccessToken, "/", maxAge)
	if session.RefreshToken != "" {
		s.set(c, s.name("refresh-token"), session.RefreshToken, "/", maxAge)
	}
	if !session.Expiry.IsZero() {
		s.set(c, s.name("expires-at"), strconv.FormatInt(session.Expiry.Unix(), 10), "/", maxAge)
	}
}

// Clear expires every session cookie.
func (s *SessionCookies) Clear(c *gin.Context) {
	for _, suffix := range []string{"access-token", "refresh-token", "expires-at"} {
		s.set(c, s.name(suffix), "", "/", -1)
	}
}

// WriteSignIn stores the PKCE verifier, state and next path of a started sign-in.
func (s *SessionCookies) WriteSignIn(c *gin.Context, attempt *domain.SignInAttempt) {
	ttl := int(SignInTTL.Seconds())
	s.set(c, s.name("auth-state"), attempt.State, "/auth", ttl)
	s.set(c, s.name("code-verifier"), attempt.Verifier, "/auth", ttl)
	s.set(c, s.name("auth-next"), url.QueryEscape(attempt.Next), "/auth", ttl)
}

// ReadSignIn returns the state, verifier and next path stored by WriteSignIn.
// gin unescapes cookie values, so next comes back as written.
func (s *SessionCookies) ReadSignIn(c *gin.Context) (state, verifier, next string) {
	return cookieValue(c, s.name("auth-state")),
		cookieValue(c, s.name("code-verifier")),
		cookieValue(c, s.name("auth-next"))
}

// ClearSignIn removes the PKCE cookies once the callback has used them.
func (s *SessionCookies) ClearSignIn(c *gin.Context) {
	for _, suffix := range []string{"auth-state", "code-verifier", "auth-next"} {
		s.set(c, s.name(suffix), "", "/auth", -1)
	}
}
