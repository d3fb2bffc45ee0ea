package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"bookshelf-backend/internal/config"
)

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// Identity is the verified tuple the provider handshake yields. Everything
// downstream of this type treats the provider as a black box.
type Identity struct {
	AccountID string
	Email     string
	Name      string
}

// Provider abstracts the redirect-and-callback exchange so handlers can be
// tested without talking to Google.
type Provider interface {
	// AuthCodeURL builds the consent-screen redirect URL for state.
	AuthCodeURL(state string) string

	// Exchange trades the callback code for a verified identity.
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// GoogleProvider implements Provider against Google's OAuth2 endpoints.
type GoogleProvider struct {
	config *oauth2.Config
}

func NewGoogleProvider(cfg config.GoogleConfig) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	resp, err := p.config.Client(ctx, token).Get(userinfoEndpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed with status %d", resp.StatusCode)
	}

	var info struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}

	if info.ID == "" || info.Email == "" {
		return nil, fmt.Errorf("userinfo response missing id or email")
	}
	if !info.VerifiedEmail {
		// Linking by email equality is only safe when the provider
		// vouched for the address.
		return nil, fmt.Errorf("provider email is not verified")
	}

	return &Identity{
		AccountID: info.ID,
		Email:     info.Email,
		Name:      info.Name,
	}, nil
}
