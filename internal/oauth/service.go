// File: internal/oauth/service.go
package oauth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bazaar_onboarding_backend/internal/common"
	"bazaar_onboarding_backend/internal/config"
	"bazaar_onboarding_backend/internal/onboarding"
	"bazaar_onboarding_backend/internal/platform/crypto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// CallbackQuery carries the provider's callback query parameters.
type CallbackQuery struct {
	Code             string `form:"code"`
	State            string `form:"state"`
	Error            string `form:"error"`
	ErrorDescription string `form:"error_description"`
}

// Service performs the redirect and callback legs of the authorization-code
// flow against the configured provider, with single-use CSRF state.
type Service interface {
	// BeginRedirect binds a fresh state token to the caller's session and
	// returns the provider authorization URL.
	BeginRedirect(c *gin.Context) (string, error)
	// HandleCallback validates state, exchanges the code, resolves the
	// identity and reports the resulting onboarding status.
	HandleCallback(c *gin.Context, query CallbackQuery) (*onboarding.Result, error)
}

type service struct {
	cfg        *config.Config
	states     StateStore
	resolver   IdentityResolver
	onboarding onboarding.Service
	httpClient *http.Client
	logger     *zap.Logger
}

// NewService creates a new OAuth handshake service.
func NewService(
	cfg *config.Config,
	states StateStore,
	resolver IdentityResolver,
	onboardingService onboarding.Service,
	logger *zap.Logger,
) Service {
	return &service{
		cfg:        cfg,
		states:     states,
		resolver:   resolver,
		onboarding: onboardingService,
		httpClient: &http.Client{Timeout: cfg.OAuthExchangeTimeout},
		logger:     logger.Named("OAuthService"),
	}
}

// oauth2Config builds the provider configuration. The redirect URL is
// derived from PUBLIC_BASE_URL on both legs so the values always match.
func (s *service) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.OAuth2ClientID,
		ClientSecret: s.cfg.OAuth2ClientSecret,
		RedirectURL:  s.cfg.PublicBaseURL + "/oauth/callback",
		Scopes:       strings.Fields(s.cfg.OAuth2Scope),
		Endpoint: oauth2.Endpoint{
			AuthURL:   s.cfg.OAuth2AuthURL,
			TokenURL:  s.cfg.OAuth2TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func (s *service) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(s.cfg.OAuthSessionCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetCookie(
		s.cfg.OAuthSessionCookie,
		id,
		int(s.cfg.OAuthStateTTL.Seconds()),
		"/",
		"",
		s.cfg.OAuthCookieSecure,
		true,
	)
	return id
}

func (s *service) BeginRedirect(c *gin.Context) (string, error) {
	state, err := crypto.GenerateSecureRandomString(32)
	if err != nil {
		s.logger.Error("Failed to generate OAuth state", zap.Error(err))
		return "", common.ErrInternalServer.WithDetails("Could not initiate login.")
	}

	sessionID := s.sessionID(c)
	if err := s.states.Put(c.Request.Context(), sessionID, state, s.cfg.OAuthStateTTL); err != nil {
		s.logger.Error("Failed to store OAuth state", zap.Error(err))
		return "", common.ErrInternalServer.WithDetails("Could not initiate login.")
	}

	authURL := s.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline)
	s.logger.Info("Generated provider login URL", zap.String("session_id", sessionID))
	return authURL, nil
}

func (s *service) HandleCallback(c *gin.Context, query CallbackQuery) (*onboarding.Result, error) {
	if query.Error != "" {
		s.logger.Warn("Provider reported an error on callback",
			zap.String("error", query.Error),
			zap.String("error_description", query.ErrorDescription))
		return nil, common.NewProviderAPIError(query.Error, query.ErrorDescription)
	}
	if query.Code == "" {
		return nil, common.ErrBadRequest.WithDetails("Authorization code is missing.")
	}

	// The state check is mandatory and happens before any network call.
	sessionID, err := c.Cookie(s.cfg.OAuthSessionCookie)
	if err != nil || sessionID == "" {
		return nil, common.ErrStateMismatch
	}
	stored, err := s.states.Take(c.Request.Context(), sessionID)
	if errors.Is(err, ErrNoState) {
		return nil, common.ErrStateMismatch
	}
	if err != nil {
		s.logger.Error("Failed to read OAuth state", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not validate login state.")
	}
	if query.State == "" || query.State != stored {
		s.logger.Warn("OAuth state mismatch", zap.String("session_id", sessionID))
		return nil, common.ErrStateMismatch
	}

	// Bounded exchange; authorization codes are single-use at the
	// provider, so a failed exchange is never retried here.
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.OAuthExchangeTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	token, err := s.oauth2Config().Exchange(ctx, query.Code)
	if err != nil {
		// The oauth2 error text never carries the client secret.
		s.logger.Error("Failed to exchange authorization code", zap.Error(err))
		return nil, common.ErrUpstream.WithDetails("Could not exchange authorization code with the identity provider.")
	}
	if !token.Valid() {
		s.logger.Error("Provider returned an invalid token")
		return nil, common.ErrUpstream.WithDetails("Received an invalid token from the identity provider.")
	}

	identity, err := s.resolver.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	result, err := s.onboarding.ProcessUser(c.Request.Context(), identity.UserType, identity.Username)
	if err != nil {
		return nil, err
	}
	s.logger.Info("OAuth login completed",
		zap.String("username", identity.Username),
		zap.String("user_type", identity.UserType))
	return result, nil
}
