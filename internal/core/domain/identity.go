package domain

import "time"

// Session is the token material carried by the browser between requests.
type Session struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Expiry       time.Time
}

// Empty reports whether the session carries no tokens at all.
func (s *Session) Empty() bool {
	return s == nil || (s.AccessToken == "" && s.RefreshToken == "")
}

// AuthUser is an identity the provider has just confirmed. OrgID and Role come
// from custom claims and may be empty.
type AuthUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	OrgID         string `json:"orgId,omitempty"`
	Role          string `json:"role,omitempty"`
}

// OrgContext is the verified tenant scope of a request.
type OrgContext struct {
	OrgID  string    `json:"orgId"`
	UserID string    `json:"userId"`
	Role   OrgRole   `json:"role"`
	User   *AuthUser `json:"-"`
}

// SignInAttempt is a started PKCE sign-in. State and Verifier must come back
// with the callback.
type SignInAttempt struct {
	URL      string
	State    string
	Verifier string
	Next     string
}
