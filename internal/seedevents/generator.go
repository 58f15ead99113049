package seedevents

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Artist pool for synthetic EDM events. Names mirror acts the service's
// built-in catalog resolves, so generated events match on enhancement.
var artistPool = []string{
	"Charlotte de Witte", "Amelie Lens", "Adam Beyer", "Nina Kraviz",
	"Carl Cox", "Richie Hawtin", "Tale Of Us", "Boris Brejcha",
	"Deadmau5", "Eric Prydz", "Lane 8", "Ben Bohmer",
	"Martin Garrix", "Armin van Buuren", "Above & Beyond", "Tiesto",
	"Fisher", "Chris Lake", "John Summit", "Dom Dolla",
	"Skrillex", "Subtronics", "Excision", "Rezz",
	"Disclosure", "Fred again..", "Four Tet", "Jamie xx",
	"Peggy Gou", "Honey Dijon", "The Blessed Madonna", "Solomun",
}

// Venue pool. Real Toronto rooms keep the generated payloads plausible.
var venuePool = []Venue{
	{Name: "Rebel", City: "Toronto"},
	{Name: "CODA", City: "Toronto"},
	{Name: "Vertigo", City: "Toronto"},
	{Name: "History", City: "Toronto"},
	{Name: "Danforth Music Hall", City: "Toronto"},
	{Name: "Phoenix Concert Theatre", City: "Toronto"},
	{Name: "Cabana Pool Bar", City: "Toronto"},
	{Name: "Velvet Underground", City: "Toronto"},
}

var genrePool = []string{
	"Techno", "House", "Tech House", "Deep House", "Progressive House",
	"Trance", "Melodic Techno", "Drum & Bass", "Dubstep", "Electronic",
}

var eventNameTemplates = []string{
	"%s Live at %s",
	"%s presents: All Night Long",
	"%s North American Tour",
	"%s & Friends",
	"An Evening with %s",
}

// Noise listings are deliberately non-music. The pipeline should score
// them near the floor and keep them out of the top recommendations.
var noiseNames = []string{
	"Casa Loma General Admission",
	"Royal Ontario Museum Entry",
	"Toronto Food & Wine Gala",
	"CN Tower EdgeWalk Experience",
	"Ripley's Aquarium Day Pass",
	"Distillery District Walking Tour",
}

// randomInt returns a cryptographically random int in [0, max).
func randomInt(max int) int {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		// Fall back to zero on entropy failure rather than aborting a seed run.
		return 0
	}
	return int(n.Int64())
}

// generateEvent builds a single synthetic EDM event.
func generateEvent(index int) Event {
	artist := artistPool[randomInt(len(artistPool))]
	venue := venuePool[randomInt(len(venuePool))]
	genre := genrePool[randomInt(len(genrePool))]

	template := eventNameTemplates[randomInt(len(eventNameTemplates))]
	var name string
	if template == "%s Live at %s" {
		name = fmt.Sprintf(template, artist, venue.Name)
	} else {
		name = fmt.Sprintf(template, artist)
	}

	start := time.Now().AddDate(0, 0, 1+randomInt(60)).Format(time.RFC3339)

	return Event{
		Source:    "seed",
		SourceID:  fmt.Sprintf("seed-%04d-%s", index, uuid.New().String()[:8]),
		Name:      name,
		StartTime: start,
		Venue:     venue,
		Artists:   []string{artist},
		Genres:    []string{genre},
	}
}

// generateNoiseEvent builds a non-music listing.
func generateNoiseEvent(index int) Event {
	venue := venuePool[randomInt(len(venuePool))]
	return Event{
		Source:    "seed",
		SourceID:  fmt.Sprintf("noise-%04d-%s", index, uuid.New().String()[:8]),
		Name:      noiseNames[randomInt(len(noiseNames))],
		StartTime: time.Now().AddDate(0, 0, 1+randomInt(60)).Format(time.RFC3339),
		Venue:     venue,
	}
}

// generateEvents produces the full batch concurrently, mixing in
// non-music noise listings per the configured fraction.
func generateEvents(config Config, stats *Stats) []Event {
	noiseCount := int(float64(config.NumEvents) * config.NoiseFraction)
	musicCount := config.NumEvents - noiseCount

	log.Printf("🎲 Generating %d events (%d music, %d noise) with %d workers...",
		config.NumEvents, musicCount, noiseCount, config.Workers)

	type job struct {
		index int
		noise bool
	}

	jobs := make(chan job, config.Workers*WorkerChannelMultiplier)
	results := make(chan Event, config.Workers*WorkerChannelMultiplier)

	var wg sync.WaitGroup
	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if j.noise {
					results <- generateNoiseEvent(j.index)
				} else {
					results <- generateEvent(j.index)
				}
			}
		}()
	}

	go func() {
		for i := 0; i < config.NumEvents; i++ {
			jobs <- job{index: i, noise: i < noiseCount}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	events := make([]Event, 0, config.NumEvents)
	for event := range results {
		events = append(events, event)
	}

	stats.EventsGenerated = musicCount
	stats.NoiseGenerated = noiseCount

	log.Printf("✅ Generated %d events", len(events))
	return events
}
