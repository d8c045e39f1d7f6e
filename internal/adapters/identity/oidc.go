// Package identity talks to the external OpenID Connect issuer that owns user
// accounts and sessions.
package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
	"github.com/aloftly/aloftly_app/internal/core/ports/providers"
)

// appMetadataClaim holds server-managed attributes in the userinfo document.
const appMetadataClaim = "app_metadata"

// Options configures the issuer connection.
type Options struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string

	// Names of the custom claims carrying the tenant and role.
	OrgClaim  string
	RoleClaim string

	// HTTPClient is used for every issuer call. Defaults to a client with a 10s timeout.
	HTTPClient *http.Client
}

// OIDCProvider implements providers.IdentityProvider against an OIDC issuer.
type OIDCProvider struct {
	provider      *oidc.Provider
	oauth2Config  *oauth2.Config
	orgClaim      string
	roleClaim     string
	revocationURL string
	client        *http.Client
}

var _ providers.IdentityProvider = (*OIDCProvider)(nil)

// NewOIDCProvider discovers the issuer and builds the PKCE client.
func NewOIDCProvider(ctx context.Context, opts Options) (*OIDCProvider, error) {
	if opts.IssuerURL == "" || opts.ClientID == "" {
		return nil, errors.New("issuer URL and client ID are required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	scopes := opts.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "email", "profile"}
	}

	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, client), opts.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	var extra struct {
		RevocationEndpoint string `json:"revocation_endpoint"`
	}
	if err := provider.Claims(&extra); err != nil {
		return nil, fmt.Errorf("failed to read provider metadata: %w", err)
	}

	return &OIDCProvider{
		provider: provider,
		oauth2Config: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  opts.RedirectURL,
			Scopes:       scopes,
		},
		orgClaim:      opts.OrgClaim,
		roleClaim:     opts.RoleClaim,
		revocationURL: extra.RevocationEndpoint,
		client:        client,
	}, nil
}

func (p *OIDCProvider) clientContext(ctx context.Context) context.Context {
	return oidc.ClientContext(ctx, p.client)
}

func toOAuthToken(s *domain.Session) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		Expiry:       s.Expiry,
	}
}

func toSession(t *oauth2.Token) *domain.Session {
	return &domain.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.Type(),
		Expiry:       t.Expiry,
	}
}

// GetUser refreshes the token when it has expired and then asks the userinfo
// endpoint who it belongs to. A token the issuer no longer accepts is refreshed
// once before the session is given up.
//
// Only an explicit rejection by the issuer yields apperrors.ErrUnauthenticated.
// Transport failures and 5xx answers yield apperrors.ErrIdentityUnavailable,
// together with any session the issuer already rotated.
func (p *OIDCProvider) GetUser(ctx context.Context, session *domain.Session) (*domain.AuthUser, *domain.Session, error) {
	if session.Empty() {
		return nil, nil, apperrors.ErrUnauthenticated
	}
	ctx = p.clientContext(ctx)

	current := toOAuthToken(session)
	if !current.Valid() && session.RefreshToken == "" {
		return nil, nil, fmt.Errorf("%w: access token expired and no refresh token is set", apperrors.ErrUnauthenticated)
	}

	tok, err := p.oauth2Config.TokenSource(ctx, current).Token()
	if err != nil {
		return nil, nil, tokenError(err)
	}

	info, err := p.userInfo(ctx, tok)
	if errors.Is(err, apperrors.ErrUnauthenticated) && tok.AccessToken == session.AccessToken && session.RefreshToken != "" {
		tok, err = p.oauth2Config.TokenSource(ctx, &oauth2.Token{RefreshToken: session.RefreshToken}).Token()
		if err != nil {
			return nil, nil, tokenError(err)
		}
		info, err = p.userInfo(ctx, tok)
	}

	refreshed := rotatedSession(session, tok)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthenticated) {
			return nil, nil, err
		}
		return nil, refreshed, err
	}

	var infoClaims map[string]any
	if err := info.Claims(&infoClaims); err != nil {
		return nil, refreshed, fmt.Errorf("%w: failed to decode userinfo: %w", apperrors.ErrIdentityUnavailable, err)
	}

	user := &domain.AuthUser{
		ID:            info.Subject,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
	}
	user.OrgID, user.Role = p.tenantClaims(tok.AccessToken, info.Subject, infoClaims)
	return user, refreshed, nil
}

// rotatedSession returns the new session when tok differs from the stored one.
func rotatedSession(session *domain.Session, tok *oauth2.Token) *domain.Session {
	if tok.AccessToken == session.AccessToken {
		return nil
	}
	refreshed := toSession(tok)
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = session.RefreshToken
	}
	return refreshed
}

// tokenError separates a refresh the issuer refused from one it could not serve.
func tokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode == "invalid_grant" {
		return fmt.Errorf("%w: refresh token rejected: %w", apperrors.ErrUnauthenticated, err)
	}
	return fmt.Errorf("%w: token refresh failed: %w", apperrors.ErrIdentityUnavailable, err)
}

// statusRecorder remembers the status of the last response it carried.
type statusRecorder struct {
	base   http.RoundTripper
	status int
}

func (r *statusRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.base.RoundTrip(req)
	if err == nil {
		r.status = resp.StatusCode
	}
	return resp, err
}

// userInfo calls the userinfo endpoint. A 401 or 403 means the issuer rejected
// the token; anything else that fails means it could not be asked.
func (p *OIDCProvider) userInfo(ctx context.Context, tok *oauth2.Token) (*oidc.UserInfo, error) {
	base := p.client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	rec := &statusRecorder{base: base}
	client := &http.Client{Transport: rec, Timeout: p.client.Timeout}

	info, err := p.provider.UserInfo(oidc.ClientContext(ctx, client), oauth2.StaticTokenSource(tok))
	if err == nil {
		return info, nil
	}
	if rec.status == http.StatusUnauthorized || rec.status == http.StatusForbidden {
		return nil, fmt.Errorf("%w: userinfo rejected the token: %w", apperrors.ErrUnauthenticated, err)
	}
	return nil, fmt.Errorf("%w: userinfo: %w", apperrors.ErrIdentityUnavailable, err)
}

// tenantClaims reads org and role from the access token, falling back to the
// userinfo document. The token is only decoded here; the issuer has already
// accepted it through userinfo, and its subject must match.
func (p *OIDCProvider) tenantClaims(accessToken, subject string, info map[string]any) (orgID, role string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err == nil {
		if sub, _ := claims.GetSubject(); sub == subject {
			orgID = stringClaim(claims, p.orgClaim)
			role = stringClaim(claims, p.roleClaim)
		}
	}

	appMeta, _ := info[appMetadataClaim].(map[string]any)
	if orgID == "" {
		orgID = firstNonEmpty(stringClaim(info, p.orgClaim), stringClaim(appMeta, p.orgClaim))
	}
	if role == "" {
		role = firstNonEmpty(stringClaim(info, p.roleClaim), stringClaim(appMeta, p.roleClaim))
	}
	return orgID, role
}

func stringClaim(claims map[string]any, name string) string {
	if claims == nil || name == "" {
		return ""
	}
	s, _ := claims[name].(string)
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// SignInURL builds the authorize URL with an S256 code challenge.
func (p *OIDCProvider) SignInURL(state, verifier string) string {
	return p.oauth2Config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

func (p *OIDCProvider) ExchangeCode(ctx context.Context, code, verifier string) (*domain.Session, error) {
	tok, err := p.oauth2Config.Exchange(p.clientContext(ctx), code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return toSession(tok), nil
}

// SignOut revokes the refresh token (or the access token when there is none)
// at the issuer's RFC 7009 endpoint. Issuers without one are a no-op.
func (p *OIDCProvider) SignOut(ctx context.Context, session *domain.Session) error {
	if p.revocationURL == "" || session.Empty() {
		return nil
	}

	form := url.Values{}
	if session.RefreshToken != "" {
		form.Set("token", session.RefreshToken)
		form.Set("token_type_hint", "refresh_token")
	} else {
		form.Set("token", session.AccessToken)
		form.Set("token_type_hint", "access_token")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.revocationURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build revocation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(url.QueryEscape(p.oauth2Config.ClientID), url.QueryEscape(p.oauth2Config.ClientSecret))

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("revocation request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("revocation endpoint returned %s", resp.Status)
	}
	return nil
}
