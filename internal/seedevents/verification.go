package seedevents

import (
	"log"
	"strings"
)

// verifyResults checks that the recommendations look sane: ranked in
// descending score order, scores within range, and noise listings kept
// out of the top of the list.
func verifyResults(recommendations []Recommendation) bool {
	log.Println("🔍 Verifying recommendations...")

	if len(recommendations) == 0 {
		log.Println("❌ Verification failed: no recommendations returned")
		return false
	}

	ok := true

	for i, rec := range recommendations {
		if rec.Score < 0 || rec.Score > 99 {
			log.Printf("❌ Rank %d (%s): score %d outside [0, 99]", rec.Rank, rec.Name, rec.Score)
			ok = false
		}
		if i > 0 && rec.Score > recommendations[i-1].Score {
			log.Printf("❌ Rank %d (%s): score %d exceeds previous rank's %d",
				rec.Rank, rec.Name, rec.Score, recommendations[i-1].Score)
			ok = false
		}
		if rec.Rank != i+1 {
			log.Printf("❌ Position %d: unexpected rank %d", i+1, rec.Rank)
			ok = false
		}
	}

	// Noise listings should never outrank real shows.
	topCount := len(recommendations) / 2
	if topCount == 0 {
		topCount = 1
	}
	for _, rec := range recommendations[:topCount] {
		if isNoiseName(rec.Name) {
			log.Printf("⚠️ Noise listing %q appears in the top half at rank %d", rec.Name, rec.Rank)
			ok = false
		}
	}

	if ok {
		log.Println("✅ Verification passed")
	}

	log.Println("🏆 Top recommendations:")
	limit := len(recommendations)
	if limit > 10 {
		limit = 10
	}
	for _, rec := range recommendations[:limit] {
		log.Printf("   %2d. %s @ %s (score %d, %s)", rec.Rank, rec.Name, rec.Venue, rec.Score, rec.Confidence)
	}

	return ok
}

func isNoiseName(name string) bool {
	for _, noise := range noiseNames {
		if strings.EqualFold(name, noise) {
			return true
		}
	}
	return false
}
