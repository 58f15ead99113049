package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/Sonar-glitch/sonar-match/internal/seedevents"
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "base URL of the service")
		numEvents = flag.Int("events", 100, "number of events to generate")
		noise     = flag.Float64("noise", 0.1, "fraction of non-music noise listings")
		userID    = flag.String("user", "seed-user", "user ID to fetch recommendations for")
		topN      = flag.Int("top", 20, "number of recommendations to retrieve")
		workers   = flag.Int("workers", 8, "concurrent workers for generation and submission")
		timeout   = flag.Duration("timeout", 10*time.Second, "per-request timeout")
		output    = flag.String("output", "", "optional file to save generated events as JSON")
		logFile   = flag.String("log", "", "optional log file")
		verbose   = flag.Bool("verbose", false, "log every submission failure")
		help      = flag.Bool("help", false, "show help")
	)
	flag.Parse()

	if *help {
		seedevents.ShowHelp()
		return
	}

	config := seedevents.Config{
		BaseURL:       *baseURL,
		NumEvents:     *numEvents,
		NoiseFraction: *noise,
		UserID:        *userID,
		TopN:          *topN,
		Workers:       *workers,
		Timeout:       *timeout,
		OutputFile:    *output,
		LogFile:       *logFile,
		Verbose:       *verbose,
	}

	cleanup, err := seedevents.SetupLogging(config)
	if err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := seedevents.Run(ctx, config); err != nil {
		log.Printf("❌ Seed run failed: %v", err)
		os.Exit(1)
	}

	log.Println("🎉 Seed run complete")
}
