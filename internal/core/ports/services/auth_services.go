package services

import (
	"context"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// SessionVerifier re-validates sessions with the identity provider.
type SessionVerifier interface {
	// VerifySession returns the verified user and, when the provider refreshed the
	// tokens, the replacement session (nil otherwise).
	VerifySession(ctx context.Context, session *domain.Session) (*domain.AuthUser, *domain.Session, error)

	// GetOrgContext verifies the session and extracts the tenant scope.
	GetOrgContext(ctx context.Context, session *domain.Session) (*domain.OrgContext, *domain.Session, error)
}

// SignInSvc drives the browser sign-in flow.
type SignInSvc interface {
	// BeginSignIn creates the PKCE verifier and state and returns the authorize URL.
	BeginSignIn(ctx context.Context, next string) (*domain.SignInAttempt, error)

	// CompleteSignIn exchanges the authorization code for a session.
	CompleteSignIn(ctx context.Context, code, verifier string) (*domain.Session, error)

	// SignOut ends the session at the provider.
	SignOut(ctx context.Context, session *domain.Session) error
}

// AuthSvcFacade combines all auth service interfaces.
type AuthSvcFacade interface {
	SessionVerifier
	SignInSvc
}
