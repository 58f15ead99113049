package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
)

func testEvent(sourceID string) model.Event {
	return model.Event{
		Source:   "ticketmaster",
		SourceID: sourceID,
		Name:     "Club Night " + sourceID,
		Genres:   []string{"house"},
	}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, testEvent("e1")) {
		t.Error("expected enqueue to succeed")
	}

	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	eventChan := q.Dequeue(ctx)
	event := <-eventChan
	if event.SourceID != "e1" {
		t.Errorf("expected e1, got %v", event.SourceID)
	}

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, testEvent("e1")) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, testEvent("e2")) {
		t.Error("expected enqueue to succeed")
	}

	// Queue is at capacity now
	if q.Enqueue(ctx, testEvent("e3")) {
		t.Error("expected enqueue to fail when full")
	}

	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx := context.Background()
	numGoroutines := 10
	numEvents := 100

	done := make(chan bool, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			for j := 0; j < numEvents; j++ {
				event := testEvent(fmt.Sprintf("e%d-%d", id, j))
				for !q.Enqueue(ctx, event) {
					time.Sleep(time.Millisecond)
				}
			}
			done <- true
		}(i)
	}

	consumed := make(chan string, numGoroutines*numEvents)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			eventChan := q.Dequeue(ctx)
			for event := range eventChan {
				consumed <- event.SourceID
			}
		}()
	}

	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	// Let the consumers drain
	time.Sleep(100 * time.Millisecond)

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected final length 0, got %d", l)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if !q.Enqueue(ctx, testEvent("e1")) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, testEvent("e2")) {
		t.Error("expected enqueue to succeed")
	}

	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}

	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}

	if q.Enqueue(ctx, testEvent("e3")) {
		t.Error("expected enqueue to fail after closing")
	}

	eventChan := q.Dequeue(ctx)

	timeout := time.After(100 * time.Millisecond)
	for {
		select {
		case _, ok := <-eventChan:
			if !ok {
				goto channelClosed
			}
		case <-timeout:
			t.Error("expected dequeue channel to be closed within timeout")
			return
		}
	}
channelClosed:

	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
}
