package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
	"github.com/aloftly/aloftly_app/internal/core/ports/providers"
	portsrepo "github.com/aloftly/aloftly_app/internal/core/ports/repositories"
	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
	"github.com/aloftly/aloftly_app/internal/utils"
)

// DefaultLandingPath is where a signed-in user goes when no safe next path was given.
const DefaultLandingPath = "/dashboard"

type authService struct {
	BaseService
	provider   providers.IdentityProvider
	memberRepo portsrepo.MemberWriter
	now        func() time.Time
}

// NewAuthService creates the auth service. memberRepo may be nil, in which case
// joined_at is never stamped.
func NewAuthService(provider providers.IdentityProvider, memberRepo portsrepo.MemberWriter) portssvc.AuthSvcFacade {
	return &authService{
		provider:   provider,
		memberRepo: memberRepo,
		now:        time.Now,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// VerifySession asks the provider to confirm the session. A stored token is never
// trusted on its own. When the provider cannot be reached the error wraps
// apperrors.ErrIdentityUnavailable and a session it already rotated is still returned.
func (s *authService) VerifySession(ctx context.Context, session *domain.Session) (*domain.AuthUser, *domain.Session, error) {
	if session.Empty() {
		return nil, nil, apperrors.ErrUnauthenticated
	}

	user, refreshed, err := s.provider.GetUser(ctx, session)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUnauthenticated):
			s.LogDebug(ctx, "Identity provider rejected session", slog.String("error", err.Error()))
			return nil, nil, err
		case errors.Is(err, apperrors.ErrIdentityUnavailable):
			s.LogWarn(ctx, "Identity provider unavailable", slog.String("error", err.Error()))
			return nil, refreshed, err
		default:
			s.LogWarn(ctx, "Session verification failed", slog.String("error", err.Error()))
			return nil, refreshed, fmt.Errorf("%w: %w", apperrors.ErrIdentityUnavailable, err)
		}
	}
	if user == nil || user.ID == "" {
		return nil, nil, apperrors.ErrUnauthenticated
	}
	return user, refreshed, nil
}

// GetOrgContext verifies the session and reads the tenant claims. A missing role
// falls back to viewer.
func (s *authService) GetOrgContext(ctx context.Context, session *domain.Session) (*domain.OrgContext, *domain.Session, error) {
	user, refreshed, err := s.VerifySession(ctx, session)
	if err != nil {
		return nil, refreshed, err
	}
	if user.OrgID == "" {
		return nil, refreshed, apperrors.ErrNoOrgContext
	}

	role := domain.OrgRole(user.Role)
	if role == "" {
		role = domain.RoleViewer
	}
	return &domain.OrgContext{
		OrgID:  user.OrgID,
		UserID: user.ID,
		Role:   role,
		User:   user,
	}, refreshed, nil
}

func (s *authService) BeginSignIn(ctx context.Context, next string) (*domain.SignInAttempt, error) {
	state, err := utils.NewOAuthState()
	if err != nil {
		s.LogError(ctx, err, "Failed to generate sign-in state")
		return nil, apperrors.NewInternalServerError("failed to start sign-in")
	}
	verifier := oauth2.GenerateVerifier()

	return &domain.SignInAttempt{
		URL:      s.provider.SignInURL(state, verifier),
		State:    state,
		Verifier: verifier,
		Next:     utils.LocalRedirectPath(next, DefaultLandingPath),
	}, nil
}

func (s *authService) CompleteSignIn(ctx context.Context, code, verifier string) (*domain.Session, error) {
	if code == "" {
		return nil, apperrors.NewValidationFailedError("missing authorization code")
	}
	if verifier == "" {
		return nil, apperrors.NewValidationFailedError("missing code verifier")
	}

	session, err := s.provider.ExchangeCode(ctx, code, verifier)
	if err != nil {
		s.LogError(ctx, err, "Authorization code exchange failed")
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUnauthenticated, err)
	}

	s.markJoined(ctx, session)
	return session, nil
}

// markJoined stamps the first sign-in of an invited member. Failures only log.
func (s *authService) markJoined(ctx context.Context, session *domain.Session) {
	if s.memberRepo == nil {
		return
	}
	user, _, err := s.provider.GetUser(ctx, session)
	if err != nil || user == nil || user.OrgID == "" {
		return
	}
	if err := s.memberRepo.MarkJoined(ctx, user.OrgID, user.ID, s.now()); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to record member join",
			slog.String("user_id", user.ID),
			slog.String("org_id", user.OrgID))
	}
}

func (s *authService) SignOut(ctx context.Context, session *domain.Session) error {
	if session.Empty() {
		return nil
	}
	if err := s.provider.SignOut(ctx, session); err != nil {
		s.LogError(ctx, err, "Identity provider sign-out failed")
		return err
	}
	return nil
}
