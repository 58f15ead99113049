package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"

	"github.com/Sonar-glitch/sonar-match/internal/domain/profile"
	"github.com/Sonar-glitch/sonar-match/pkg/logger"
)

const defaultHistoryLimit = 50

// TokenStore resolves a user's stored OAuth token source. History calls are
// user-scoped; the client credentials flow cannot make them.
type TokenStore interface {
	UserToken(ctx context.Context, userID string) (oauth2.TokenSource, error)
}

// History reads a user's top artists per recency window. It implements the
// profile.HistorySource port.
type History struct {
	tokens  TokenStore
	limit   int
	baseURL string
	logger  logger.Logger
}

// HistoryOption applies a configuration option to the History source.
type HistoryOption func(*History)

// WithHistoryLimit caps how many artists one window fetch returns.
func WithHistoryLimit(n int) HistoryOption {
	return func(h *History) {
		if n > 0 && n <= 50 {
			h.limit = n
		}
	}
}

// WithHistoryBaseURL points the client at a different API root, for tests.
func WithHistoryBaseURL(url string) HistoryOption {
	return func(h *History) {
		h.baseURL = url
	}
}

// WithHistoryLogger sets a custom logger.
func WithHistoryLogger(l logger.Logger) HistoryOption {
	return func(h *History) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHistory creates a History source over a token store.
func NewHistory(tokens TokenStore, opts ...HistoryOption) *History {
	h := &History{
		tokens: tokens,
		limit:  defaultHistoryLimit,
		logger: logger.Get().Named("spotify"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// TopArtists returns the user's top artists for one recency window.
func (h *History) TopArtists(ctx context.Context, userID string, window profile.TimeWindow) ([]profile.Artist, error) {
	ts, err := h.tokens.UserToken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolving user token: %w", err)
	}

	var clientOpts []spotify.ClientOption
	if h.baseURL != "" {
		clientOpts = append(clientOpts, spotify.WithBaseURL(h.baseURL))
	}
	client := spotify.New(oauth2.NewClient(ctx, ts), clientOpts...)
	page, err := client.CurrentUsersTopArtists(ctx,
		spotify.Timerange(timerange(window)),
		spotify.Limit(h.limit),
	)
	if err != nil {
		return nil, translateErr(err)
	}

	artists := make([]profile.Artist, 0, len(page.Artists))
	for _, a := range page.Artists {
		artists = append(artists, profile.Artist{
			Name:       a.Name,
			Genres:     a.Genres,
			Popularity: int(a.Popularity),
		})
	}
	return artists, nil
}

// timerange maps the domain's window names onto the API's range values.
// The names are identical on the wire, but the two types stay independent.
func timerange(window profile.TimeWindow) spotify.Range {
	switch window {
	case profile.WindowRecent:
		return spotify.ShortTermRange
	case profile.WindowMedium:
		return spotify.MediumTermRange
	default:
		return spotify.LongTermRange
	}
}
