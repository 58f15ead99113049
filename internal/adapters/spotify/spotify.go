// Package spotify adapts the Spotify Web API to the audio-feature and
// listening-history ports. App-scoped calls (artist search, top tracks,
// audio features) use the client credentials flow; per-user history calls
// need a stored user token.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/Sonar-glitch/sonar-match/internal/domain/features"
)

// ErrMissingCredentials indicates no client ID/secret was configured.
var ErrMissingCredentials = errors.New("spotify credentials are not configured")

// Credentials holds the app registration used for the client credentials
// flow.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// NewAppClient returns an app-authorized API client. The underlying HTTP
// client refreshes its token transparently.
func NewAppClient(ctx context.Context, creds Credentials) (*spotify.Client, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}
	config := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	return spotify.New(config.Client(ctx)), nil
}

// translateErr maps API error statuses onto the feature port's sentinels so
// callers can react without knowing the transport.
func translateErr(err error) error {
	var apiErr spotify.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", features.ErrAuthorization, apiErr.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", features.ErrNotFound, apiErr.Message)
	}
	return err
}
