package seedevents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps the standard client with the runner's timeout.
type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient creates an HTTP client for talking to the service.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request and returns the response body.
func (h *HTTPClient) Get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	return body, resp.StatusCode, nil
}

// Post performs a JSON POST request and returns the response body.
func (h *HTTPClient) Post(ctx context.Context, url string, payload any) ([]byte, int, error) {
	var buf bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			return nil, 0, fmt.Errorf("encoding payload: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	return body, resp.StatusCode, nil
}

// submitEvents posts the generated events concurrently and tracks
// acceptance, duplicate and failure counts.
func submitEvents(ctx context.Context, client *HTTPClient, config Config, events []Event, stats *Stats) {
	log.Printf("📤 Submitting %d events with %d workers...", len(events), config.Workers)

	var successful, duplicate, failed int64

	jobs := make(chan Event, config.Workers*WorkerChannelMultiplier)

	var wg sync.WaitGroup
	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for event := range jobs {
				body, status, err := client.Post(ctx, config.BaseURL+"/events", event)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						log.Printf("❌ Submit failed for %s: %v", event.SourceID, err)
					}
					continue
				}

				switch status {
				case StatusAccepted:
					atomic.AddInt64(&successful, 1)
				case StatusOK:
					var ack AckResponse
					if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
						atomic.AddInt64(&duplicate, 1)
					} else {
						atomic.AddInt64(&successful, 1)
					}
				default:
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						log.Printf("❌ Submit rejected for %s: status %d, body %s", event.SourceID, status, string(body))
					}
				}

				submitted := atomic.LoadInt64(&successful) + atomic.LoadInt64(&duplicate) + atomic.LoadInt64(&failed)
				if submitted%100 == 0 && submitted > 0 {
					log.Printf("📊 Progress: %d/%d events submitted", submitted, len(events))
				}
			}
		}()
	}

	go func() {
		for _, event := range events {
			jobs <- event
		}
		close(jobs)
	}()

	wg.Wait()

	stats.EventsSubmitted = len(events)
	stats.EventsSuccessful = int(atomic.LoadInt64(&successful))
	stats.EventsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.EventsFailed = int(atomic.LoadInt64(&failed))

	log.Printf("✅ Submission complete: %d accepted, %d duplicates, %d failed",
		stats.EventsSuccessful, stats.EventsDuplicate, stats.EventsFailed)
}
