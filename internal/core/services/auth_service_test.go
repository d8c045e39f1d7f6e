package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
	"github.com/aloftly/aloftly_app/internal/core/services"
	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
)

type AuthServiceTestSuite struct {
	suite.Suite
	provider   *MockIdentityProvider
	memberRepo *MockMemberRepository
	service    portssvc.AuthSvcFacade
	ctx        context.Context
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.provider = new(MockIdentityProvider)
	suite.memberRepo = new(MockMemberRepository)
	suite.service = services.NewAuthService(suite.provider, suite.memberRepo)
	suite.ctx = context.Background()
}

func (suite *AuthServiceTestSuite) session() *domain.Session {
	return &domain.Session{AccessToken: "at", RefreshToken: "rt"}
}

func (suite *AuthServiceTestSuite) TestVerifySession_EmptySessionNeverReachesProvider() {
	_, _, err := suite.service.VerifySession(suite.ctx, nil)
	suite.ErrorIs(err, apperrors.ErrUnauthenticated)

	_, _, err = suite.service.VerifySession(suite.ctx, &domain.Session{})
	suite.ErrorIs(err, apperrors.ErrUnauthenticated)

	suite.provider.AssertNotCalled(suite.T(), "GetUser", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestVerifySession_ProviderRejects() {
	rejected := fmt.Errorf("%w: userinfo rejected the token", apperrors.ErrUnauthenticated)
	suite.provider.On("GetUser", suite.ctx, mock.Anything).Return(nil, nil, rejected).Once()

	user, refreshed, err := suite.service.VerifySession(suite.ctx, suite.session())

	suite.Nil(user)
	suite.Nil(refreshed)
	suite.ErrorIs(err, apperrors.ErrUnauthenticated)
	suite.NotErrorIs(err, apperrors.ErrIdentityUnavailable)
}

func (suite *AuthServiceTestSuite) TestVerifySession_ProviderUnavailableKeepsRotatedSession() {
	rotated := &domain.Session{AccessToken: "new-at", RefreshToken: "new-rt"}
	down := fmt.Errorf("%w: userinfo: 503 Service Unavailable", apperrors.ErrIdentityUnavailable)
	suite.provider.On("GetUser", suite.ctx, mock.Anything).Return(nil, rotated, down).Once()

	user, refreshed, err := suite.service.VerifySession(suite.ctx, suite.session())

	suite.Nil(user)
	suite.Same(rotated, refreshed)
	suite.ErrorIs(err, apperrors.ErrIdentityUnavailable)
	suite.NotErrorIs(err, apperrors.ErrUnauthenticated)
}

func (suite *AuthServiceTestSuite) TestVerifySession_UnclassifiedFailureIsNotARejection() {
	suite.provider.On("GetUser", suite.ctx, mock.Anything).Return(nil, nil, errUpstream).Once()

	_, _, err := suite.service.VerifySession(suite.ctx, suite.session())

	suite.ErrorIs(err, apperrors.ErrIdentityUnavailable)
	suite.ErrorIs(err, errUpstream)
	suite.NotErrorIs(err, apperrors.ErrUnauthenticated)
}

func (suite *AuthServiceTestSuite) TestGetOrgContext_ProviderUnavailable() {
	rotated := &domain.Session{AccessToken: "new-at", RefreshToken: "new-rt"}
	suite.provider.On("GetUser", suite.ctx, mock.Anything).
		Return(nil, rotated, apperrors.ErrIdentityUnavailable).Once()

	oc, got, err := suite.service.GetOrgContext(suite.ctx, suite.session())

	suite.Nil(oc)
	suite.Same(rotated, got)
	suite.ErrorIs(err, apperrors.ErrIdentityUnavailable)
}

func (suite *AuthServiceTestSuite) TestVerifySession_ReturnsRefreshedSession() {
	refreshed := &domain.Session{AccessToken: "new"}
	suite.provider.On("GetUser", suite.ctx, mock.Anything).
		Return(&domain.AuthUser{ID: "user-1"}, refreshed, nil).Once()

	user, got, err := suite.service.VerifySession(suite.ctx, suite.session())

	suite.Require().NoError(err)
	suite.Equal("user-1", user.ID)
	suite.Same(refreshed, got)
}

func (suite *AuthServiceTestSuite) TestGetOrgContext_NoOrgClaim() {
	refreshed := &domain.Session{AccessToken: "new"}
	suite.provider.On("GetUser", suite.ctx, mock.Anything).
		Return(&domain.AuthUser{ID: "user-1"}, refreshed, nil).Once()

	oc, got, err := suite.service.GetOrgContext(suite.ctx, suite.session())

	suite.Nil(oc)
	suite.ErrorIs(err, apperrors.ErrNoOrgContext)
	suite.Same(refreshed, got, "refreshed tokens must survive a 403")
}

func (suite *AuthServiceTestSuite) TestGetOrgContext_DefaultsRoleToViewer() {
	suite.provider.On("GetUser", suite.ctx, mock.Anything).
		Return(&domain.AuthUser{ID: "user-1", OrgID: "org-1"}, nil, nil).Once()

	oc, _, err := suite.service.GetOrgContext(suite.ctx, suite.session())

	suite.Require().NoError(err)
	suite.Equal("org-1", oc.OrgID)
	suite.Equal("user-1", oc.UserID)
	suite.Equal(domain.RoleViewer, oc.Role)
}

func (suite *AuthServiceTestSuite) TestGetOrgContext_UsesRoleClaim() {
	suite.provider.On("GetUser", suite.ctx, mock.Anything).
		Return(&domain.AuthUser{ID: "user-1", OrgID: "org-1", Role: "admin"}, nil, nil).Once()

	oc, _, err := suite.service.GetOrgContext(suite.ctx, suite.session())

	suite.Require().NoError(err)
	suite.Equal(domain.RoleAdmin, oc.Role)
	suite.Require().NotNil(oc.User)
}

func (suite *AuthServiceTestSuite) TestBeginSignIn() {
	suite.provider.On("SignInURL", mock.AnythingOfType("string"), mock.AnythingOfType("string")).
		Return("https://issuer.example/authorize?x=1").Twice()

	attempt, err := suite.service.BeginSignIn(suite.ctx, "//evil.example/steal")

	suite.Require().NoError(err)
	suite.Equal("https://issuer.example/authorize?x=1", attempt.URL)
	suite.NotEmpty(attempt.State)
	suite.GreaterOrEqual(len(attempt.Verifier), 43)
	suite.Equal(services.DefaultLandingPath, attempt.Next)

	attempt, err = suite.service.BeginSignIn(suite.ctx, "/stores/abc?tab=metrics")
	suite.Require().NoError(err)
	suite.Equal("/stores/abc?tab=metrics", attempt.Next)
	suite.provider.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestCompleteSignIn_MissingCode() {
	_, err := suite.service.CompleteSignIn(suite.ctx, "", "verifier")
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.provider.AssertNotCalled(suite.T(), "ExchangeCode", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestCompleteSignIn_ExchangeFails() {
	suite.provider.On("ExchangeCode", suite.ctx, "code", "verifier").Return(nil, errUpstream).Once()

	session, err := suite.service.CompleteSignIn(suite.ctx, "code", "verifier")

	suite.Nil(session)
	suite.ErrorIs(err, apperrors.ErrUnauthenticated)
}

func (suite *AuthServiceTestSuite) TestCompleteSignIn_MarksInvitedMemberJoined() {
	session := suite.session()
	suite.provider.On("ExchangeCode", suite.ctx, "code", "verifier").Return(session, nil).Once()
	suite.provider.On("GetUser", suite.ctx, session).
		Return(&domain.AuthUser{ID: "user-1", OrgID: "org-1"}, nil, nil).Once()
	suite.memberRepo.On("MarkJoined", suite.ctx, "org-1", "user-1", mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	got, err := suite.service.CompleteSignIn(suite.ctx, "code", "verifier")

	suite.Require().NoError(err)
	suite.Same(session, got)
	suite.memberRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestCompleteSignIn_JoinFailureDoesNotBlockSignIn() {
	session := suite.session()
	suite.provider.On("ExchangeCode", suite.ctx, "code", "verifier").Return(session, nil).Once()
	suite.provider.On("GetUser", suite.ctx, session).
		Return(&domain.AuthUser{ID: "user-1", OrgID: "org-1"}, nil, nil).Once()
	suite.memberRepo.On("MarkJoined", suite.ctx, "org-1", "user-1", mock.Anything).
		Return(errUpstream).Once()

	got, err := suite.service.CompleteSignIn(suite.ctx, "code", "verifier")

	suite.Require().NoError(err)
	suite.NotNil(got)
}

func (suite *AuthServiceTestSuite) TestSignOut() {
	suite.NoError(suite.service.SignOut(suite.ctx, nil))
	suite.provider.AssertNotCalled(suite.T(), "SignOut", mock.Anything, mock.Anything)

	session := suite.session()
	suite.provider.On("SignOut", suite.ctx, session).Return(nil).Once()
	suite.NoError(suite.service.SignOut(suite.ctx, session))
	suite.provider.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}


