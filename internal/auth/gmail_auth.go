package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"jobtrail/internal/config"
	"jobtrail/internal/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

// OAuthConfig reads the app credential file and builds the oauth2 config
// with READONLY access to Gmail.
func OAuthConfig() (*oauth2.Config, error) {
	b, err := os.ReadFile(config.GoogleCredentialsFile())
	if err != nil {
		return nil, fmt.Errorf("read client secret file: %w", err)
	}

	cfg, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secret file: %w", err)
	}
	return cfg, nil
}

// AuthorizationURL is where the user goes to grant mailbox access.
func AuthorizationURL(cfg *oauth2.Config) string {
	return cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
}

// ExchangeCode trades the callback code for a token bundle.
func ExchangeCode(ctx context.Context, cfg *oauth2.Config, code string) (*oauth2.Token, error) {
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok, nil
}

// HTTPClient wraps a stored mailbox session into the authenticated client
// the Gmail service is built from.
func HTTPClient(ctx context.Context, cfg *oauth2.Config, session *models.MailboxSession) *http.Client {
	return cfg.Client(ctx, session.Token())
}
