package seedevents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// triggerEnhancement runs a batch enhancement pass so events submitted
// moments ago are fully scored before recommendations are fetched.
func triggerEnhancement(ctx context.Context, client *HTTPClient, config Config, stats *Stats) error {
	log.Println("🎛️ Triggering batch enhancement...")

	body, status, err := client.Post(ctx, config.BaseURL+"/enhance", nil)
	if err != nil {
		return fmt.Errorf("triggering enhancement: %w", err)
	}
	if status != StatusOK {
		return fmt.Errorf("enhancement returned status %d: %s", status, string(body))
	}

	var summary EnhanceSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return fmt.Errorf("parsing enhancement summary: %w", err)
	}

	stats.EventsEnhanced = summary.Enhanced
	log.Printf("✅ Enhancement complete: %d processed, %d enhanced, %d skipped, %d errors",
		summary.Processed, summary.Enhanced, summary.Skipped, summary.Errors)
	return nil
}

// getRecommendations fetches the ranked recommendations for the seed user.
func getRecommendations(ctx context.Context, client *HTTPClient, config Config, stats *Stats) ([]Recommendation, error) {
	log.Printf("🏆 Retrieving top %d recommendations for user %s...", config.TopN, config.UserID)

	url := fmt.Sprintf("%s/recommendations?user_id=%s&limit=%d", config.BaseURL, config.UserID, config.TopN)
	body, status, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("retrieving recommendations: %w", err)
	}
	if status != StatusOK {
		return nil, fmt.Errorf("recommendations returned status %d: %s", status, string(body))
	}

	var recommendations []Recommendation
	if err := json.Unmarshal(body, &recommendations); err != nil {
		return nil, fmt.Errorf("parsing recommendations: %w", err)
	}

	stats.Recommendations = len(recommendations)
	log.Printf("✅ Retrieved %d recommendations", len(recommendations))
	return recommendations, nil
}
