package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
	"github.com/Sonar-glitch/sonar-match/pkg/logger"
)

const defaultEventsCollection = "events"

// FirestoreStore is a Store backed by a Cloud Firestore collection, one
// document per event keyed by the event identity. Raw and derived fields
// share the document; SaveEnhancement updates only the derived ones so it
// never races a concurrent feed refresh on the raw ones.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
	logger     logger.Logger
}

// FirestoreOption applies a configuration option to the FirestoreStore.
type FirestoreOption func(*FirestoreStore)

// WithCollection overrides the events collection name.
func WithCollection(name string) FirestoreOption {
	return func(s *FirestoreStore) {
		if name != "" {
			s.collection = name
		}
	}
}

// NewFirestoreStore creates a Store over an existing Firestore client. The
// caller owns the client's lifecycle.
func NewFirestoreStore(client *firestore.Client, opts ...FirestoreOption) *FirestoreStore {
	s := &FirestoreStore{
		client:     client,
		collection: defaultEventsCollection,
		logger:     logger.Get().Named("firestore"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FirestoreStore) docRef(id string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(id)
}

// Upsert inserts or refreshes an event's raw listing fields.
func (s *FirestoreStore) Upsert(ctx context.Context, event model.Event) (bool, error) {
	if event.Source == "" || event.SourceID == "" {
		return false, ErrMissingIdentity
	}
	id := event.ID()

	snap, err := s.docRef(id).Get(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return false, fmt.Errorf("fetching event %s: %w", id, err)
	}

	if err != nil || !snap.Exists() {
		if _, err := s.docRef(id).Set(ctx, event); err != nil {
			return false, fmt.Errorf("creating event %s: %w", id, err)
		}
		return true, nil
	}

	_, err = s.docRef(id).Update(ctx, []firestore.Update{
		{Path: "name", Value: event.Name},
		{Path: "description", Value: event.Description},
		{Path: "startTime", Value: event.StartTime},
		{Path: "venue", Value: event.Venue},
		{Path: "artists", Value: event.Artists},
		{Path: "genres", Value: event.Genres},
		{Path: "ticketUrl", Value: event.TicketURL},
		{Path: "imageUrl", Value: event.ImageURL},
	})
	if err != nil {
		return false, fmt.Errorf("refreshing event %s: %w", id, err)
	}
	return false, nil
}

// Get returns the event with the given identity.
func (s *FirestoreStore) Get(ctx context.Context, id string) (model.Event, error) {
	snap, err := s.docRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.Event{}, ErrNotFound
		}
		return model.Event{}, fmt.Errorf("fetching event %s: %w", id, err)
	}

	var event model.Event
	if err := snap.DataTo(&event); err != nil {
		return model.Event{}, fmt.Errorf("decoding event %s: %w", id, err)
	}
	return event, nil
}

// ListPending returns events awaiting enhancement at the current version.
// Filtering happens client-side: "absent or stale" spans documents written
// before the status fields existed, which a composite query cannot see.
func (s *FirestoreStore) ListPending(ctx context.Context, limit int) ([]model.Event, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	var pending []model.Event
	for _, event := range all {
		if !event.Enhanced() {
			pending = append(pending, event)
		}
	}
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

// SaveEnhancement writes the derived fields and enhancement status.
func (s *FirestoreStore) SaveEnhancement(ctx context.Context, event model.Event) error {
	id := event.ID()
	_, err := s.docRef(id).Update(ctx, []firestore.Update{
		{Path: "artistMetadata", Value: event.ArtistMetadata},
		{Path: "enhancedGenres", Value: event.EnhancedGenres},
		{Path: "soundCharacteristics", Value: event.Sound},
		{Path: "isMusicEvent", Value: event.IsMusicEvent},
		{Path: "enhancement", Value: event.Enhancement},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("saving enhancement for %s: %w", id, err)
	}
	return nil
}

// All returns every stored event in document-ID order.
func (s *FirestoreStore) All(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	iter := s.client.Collection(s.collection).Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating events: %w", err)
		}
		var event model.Event
		if err := snap.DataTo(&event); err != nil {
			s.logger.Warn(ctx, "skipping undecodable event document",
				logger.String("docID", snap.Ref.ID), logger.Error(err))
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// Count returns the number of stored events.
func (s *FirestoreStore) Count(ctx context.Context) int {
	all, err := s.All(ctx)
	if err != nil {
		s.logger.Error(ctx, "counting events failed", logger.Error(err))
		return 0
	}
	return len(all)
}

// CountEnhanced returns the number of events enhanced at the current
// version.
func (s *FirestoreStore) CountEnhanced(ctx context.Context) int {
	all, err := s.All(ctx)
	if err != nil {
		s.logger.Error(ctx, "counting enhanced events failed", logger.Error(err))
		return 0
	}
	n := 0
	for _, event := range all {
		if event.Enhanced() {
			n++
		}
	}
	return n
}
