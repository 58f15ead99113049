package seedevents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"
)

// Run drives the full seed pipeline: check the service is up, generate
// synthetic events, submit them, trigger enhancement, fetch
// recommendations and verify the ranking.
func Run(ctx context.Context, config Config) error {
	stats := &Stats{StartTime: time.Now()}

	log.Println("🚀 Starting seed run...")
	log.Printf("🎯 Target: %s", config.BaseURL)

	client := NewHTTPClient(config.Timeout)

	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("health check: %w", err)
	}

	events := generateEvents(config, stats)

	if config.OutputFile != "" {
		if err := saveEventsToFile(events, config.OutputFile); err != nil {
			log.Printf("⚠️ Failed to save events to file: %v", err)
		}
	}

	submitEvents(ctx, client, config, events, stats)

	log.Printf("⏳ Waiting %v for workers to enhance the queue...", ProcessingDelay)
	select {
	case <-time.After(ProcessingDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := triggerEnhancement(ctx, client, config, stats); err != nil {
		return err
	}

	recommendations, err := getRecommendations(ctx, client, config, stats)
	if err != nil {
		return err
	}

	verified := verifyResults(recommendations)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	if !verified {
		return fmt.Errorf("verification failed")
	}
	return nil
}

// checkServiceHealth makes sure the service answers before seeding.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config Config) error {
	log.Println("🏥 Checking service health...")

	_, status, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("service unreachable: %w", err)
	}
	if status != StatusOK {
		return fmt.Errorf("service unhealthy: status %d", status)
	}

	log.Println("✅ Service is healthy")
	return nil
}

// saveEventsToFile writes the generated events as JSON for later replay.
func saveEventsToFile(events []Event, path string) error {
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling events: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Printf("💾 Saved %d events to %s", len(events), path)
	return nil
}

// displayFinalStats prints the run summary.
func displayFinalStats(stats *Stats) {
	log.Println("📋 Final statistics:")
	log.Printf("   Events generated:  %d music, %d noise", stats.EventsGenerated, stats.NoiseGenerated)
	log.Printf("   Events submitted:  %d", stats.EventsSubmitted)
	log.Printf("   Accepted:          %d", stats.EventsSuccessful)
	log.Printf("   Duplicates:        %d", stats.EventsDuplicate)
	log.Printf("   Failed:            %d", stats.EventsFailed)
	log.Printf("   Enhanced:          %d", stats.EventsEnhanced)
	log.Printf("   Recommendations:   %d", stats.Recommendations)

	if stats.EventsSubmitted > 0 {
		rate := float64(stats.EventsSuccessful) / float64(stats.EventsSubmitted) * PercentageMultiplier
		log.Printf("   Acceptance rate:   %.1f%%", rate)
	}

	log.Printf("   Duration:          %v", stats.Duration.Round(time.Millisecond))
}
