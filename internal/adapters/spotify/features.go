package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"

	"github.com/Sonar-glitch/sonar-match/internal/adapters/catalog"
	"github.com/Sonar-glitch/sonar-match/internal/domain/features"
	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
	"github.com/Sonar-glitch/sonar-match/internal/domain/resolver"
	"github.com/Sonar-glitch/sonar-match/pkg/logger"
)

const defaultMarket = "US"

// FeatureSource fetches per-artist audio feature vectors from the live API.
// It implements the features.LiveSource port: search the artist, pick a
// representative track, read that track's audio analysis.
type FeatureSource struct {
	client  *spotify.Client
	market  string
	catalog *catalog.MemCatalog
	logger  logger.Logger
}

// FeatureOption applies a configuration option to the FeatureSource.
type FeatureOption func(*FeatureSource)

// WithMarket sets the market passed to top-track lookups.
func WithMarket(market string) FeatureOption {
	return func(s *FeatureSource) {
		if market != "" {
			s.market = market
		}
	}
}

// WithDiscovery registers every artist met during lookups into the given
// catalog, so the resolver's reference data grows with live traffic.
func WithDiscovery(c *catalog.MemCatalog) FeatureOption {
	return func(s *FeatureSource) {
		s.catalog = c
	}
}

// WithFeatureLogger sets a custom logger.
func WithFeatureLogger(l logger.Logger) FeatureOption {
	return func(s *FeatureSource) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewFeatureSource creates a FeatureSource over an app-authorized client.
func NewFeatureSource(client *spotify.Client, opts ...FeatureOption) *FeatureSource {
	s := &FeatureSource{
		client: client,
		market: defaultMarket,
		logger: logger.Get().Named("spotify"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TrackFeatures returns the audio feature vector of the artist's
// representative track. preferredTrack, when non-empty, names the track to
// look for before falling back to the artist's current top track.
func (s *FeatureSource) TrackFeatures(ctx context.Context, artistName, preferredTrack string) (model.AudioFeatures, error) {
	artist, err := s.findArtist(ctx, artistName)
	if err != nil {
		return model.AudioFeatures{}, err
	}

	trackID, err := s.pickTrack(ctx, artist, preferredTrack)
	if err != nil {
		return model.AudioFeatures{}, err
	}

	feats, err := s.client.GetAudioFeatures(ctx, trackID)
	if err != nil {
		return model.AudioFeatures{}, translateErr(err)
	}
	if len(feats) == 0 || feats[0] == nil {
		return model.AudioFeatures{}, fmt.Errorf("%w: no audio features for track %s", features.ErrNotFound, trackID)
	}
	return toVector(feats[0]), nil
}

func (s *FeatureSource) findArtist(ctx context.Context, name string) (spotify.FullArtist, error) {
	results, err := s.client.Search(ctx, name, spotify.SearchTypeArtist, spotify.Limit(1))
	if err != nil {
		return spotify.FullArtist{}, translateErr(err)
	}
	if results.Artists == nil || len(results.Artists.Artists) == 0 {
		return spotify.FullArtist{}, fmt.Errorf("%w: artist %q", features.ErrNotFound, name)
	}
	artist := results.Artists.Artists[0]
	if s.catalog != nil {
		s.catalog.Register(resolver.Artist{
			Name:      artist.Name,
			Genres:    artist.Genres,
			CatalogID: artist.ID.String(),
		})
	}
	return artist, nil
}

func (s *FeatureSource) pickTrack(ctx context.Context, artist spotify.FullArtist, preferred string) (spotify.ID, error) {
	if preferred != "" {
		query := fmt.Sprintf("artist:%s track:%s", artist.Name, preferred)
		results, err := s.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(1))
		if err != nil {
			return "", translateErr(err)
		}
		if results.Tracks != nil && len(results.Tracks.Tracks) > 0 {
			return results.Tracks.Tracks[0].ID, nil
		}
		s.logger.Debug(ctx, "preferred track not found, using top track",
			logger.String("artist", artist.Name),
			logger.String("track", preferred))
	}

	top, err := s.client.GetArtistsTopTracks(ctx, artist.ID, s.market)
	if err != nil {
		return "", translateErr(err)
	}
	if len(top) == 0 {
		return "", fmt.Errorf("%w: artist %q has no top tracks", features.ErrNotFound, artist.Name)
	}
	return top[0].ID, nil
}

// toVector converts the API's float32 analysis into the domain vector.
// Confidence and Source are stamped by the feature provider, not here.
func toVector(f *spotify.AudioFeatures) model.AudioFeatures {
	return model.AudioFeatures{
		Energy:           float64(f.Energy),
		Danceability:     float64(f.Danceability),
		Valence:          float64(f.Valence),
		Tempo:            float64(f.Tempo),
		Acousticness:     float64(f.Acousticness),
		Instrumentalness: float64(f.Instrumentalness),
		Speechiness:      float64(f.Speechiness),
	}
}
