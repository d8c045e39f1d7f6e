package middleware

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// MockSessionVerifier is a mock type for the SessionVerifier interface
type MockSessionVerifier struct {
	mock.Mock
}

func (m *MockSessionVerifier) VerifySession(ctx context.Context, session *domain.Session) (*domain.AuthUser, *domain.Session, error) {
	args := m.Called(ctx, session)
	var user *domain.AuthUser
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.AuthUser)
	}
	var refreshed *domain.Session
	if args.Get(1) != nil {
		refreshed = args.Get(1).(*domain.Session)
	}
	return user, refreshed, args.Error(2)
}

func (m *MockSessionVerifier) GetOrgContext(ctx context.Context, session *domain.Session) (*domain.OrgContext, *domain.Session, error) {
	args := m.Called(ctx, session)
	var oc *domain.OrgContext
	if args.Get(0) != nil {
		oc = args.Get(0).(*domain.OrgContext)
	}
	var refreshed *domain.Session
	if args.Get(1) != nil {
		refreshed = args.Get(1).(*domain.Session)
	}
	return oc, refreshed, args.Error(2)
}
