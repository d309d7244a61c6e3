// File: internal/oauth/resolver.go
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"bazaar_onboarding_backend/internal/common"
	"bazaar_onboarding_backend/internal/config"
	"bazaar_onboarding_backend/internal/user"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Identity is the externally verified marketplace identity extracted from
// the provider's userinfo response.
type Identity struct {
	Username string
	UserType string
}

// IdentityResolver maps a token obtained from the provider to a local
// identity. It is the extension point for provider-specific profile
// formats; the default implementation calls the configured userinfo
// endpoint.
type IdentityResolver interface {
	Resolve(ctx context.Context, token *oauth2.Token) (*Identity, error)
}

type userInfoResolver struct {
	cfg    *config.Config
	client *http.Client
	logger *zap.Logger
}

// NewUserInfoResolver creates the default resolver backed by the
// provider's userinfo endpoint.
func NewUserInfoResolver(cfg *config.Config, logger *zap.Logger) IdentityResolver {
	return &userInfoResolver{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.OAuthExchangeTimeout},
		logger: logger.Named("UserInfoResolver"),
	}
}

func (r *userInfoResolver) Resolve(ctx context.Context, token *oauth2.Token) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.OAuth2UserInfoURL, nil)
	if err != nil {
		return nil, common.ErrInternalServer.WithDetails("Could not build userinfo request.")
	}
	token.SetAuthHeader(req)

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to fetch userinfo from provider", zap.Error(err))
		return nil, common.ErrUpstream.WithDetails("Could not fetch user info from the identity provider.")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Provider userinfo request failed", zap.Int("status", resp.StatusCode))
		return nil, common.ErrUpstream.WithDetails(
			fmt.Sprintf("Identity provider returned status %d for user info.", resp.StatusCode))
	}

	var profile struct {
		UserID   string `json:"user_id"`
		Username string `json:"username"`
		UserType string `json:"user_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		r.logger.Error("Failed to decode provider userinfo", zap.Error(err))
		return nil, common.ErrUpstream.WithDetails("Could not parse user info from the identity provider.")
	}

	username := profile.Username
	if username == "" {
		username = profile.UserID
	}
	if username == "" {
		return nil, common.ErrUpstream.WithDetails("Identity provider did not return a user identifier.")
	}
	if !user.IsValidType(profile.UserType) {
		return nil, common.ErrUpstream.WithDetails(
			fmt.Sprintf("Identity provider returned unknown user_type %q.", profile.UserType))
	}

	return &Identity{Username: username, UserType: profile.UserType}, nil
}
