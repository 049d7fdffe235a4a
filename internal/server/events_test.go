package server

import (
	"context"
	"testing"
	"time"
)

func TestEventDispatcherPublishesToSubscriber(t *testing.T) {
	dispatcher := NewEventDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, cleanup := dispatcher.Subscribe(ctx, "paper-1")
	defer cleanup()

	event := AnnotationEvent{
		PaperID:      "paper-1",
		EventType:    EventCommentCreated,
		AnnotationID: "comment-a",
		Timestamp:    time.Now().UTC(),
	}
	dispatcher.Publish(event)

	select {
	case received := <-stream:
		if received.EventType != EventCommentCreated {
			t.Fatalf("expected event type %s, got %s", EventCommentCreated, received.EventType)
		}
		if received.AnnotationID != "comment-a" {
			t.Fatalf("unexpected annotation id: %s", received.AnnotationID)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected annotation event within deadline")
	}
}

func TestEventDispatcherIsolatedByPaper(t *testing.T) {
	dispatcher := NewEventDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	otherCtx, otherCancel := context.WithCancel(context.Background())
	defer otherCancel()

	paperStream, cleanup := dispatcher.Subscribe(ctx, "paper-2")
	defer cleanup()

	otherStream, otherCleanup := dispatcher.Subscribe(otherCtx, "paper-3")
	defer otherCleanup()

	dispatcher.Publish(AnnotationEvent{
		PaperID:      "paper-3",
		EventType:    EventHighlightCreated,
		AnnotationID: "highlight-c",
		Timestamp:    time.Now().UTC(),
	})

	select {
	case <-paperStream:
		t.Fatal("did not expect event for unrelated paper")
	case <-time.After(200 * time.Millisecond):
	}

	select {
	case event := <-otherStream:
		if event.PaperID != "paper-3" {
			t.Fatalf("expected paper-3, received %s", event.PaperID)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected event for subscribed paper")
	}
}

func TestEventDispatcherDropsWhenSubscriberIsFull(t *testing.T) {
	dispatcher := NewEventDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, cleanup := dispatcher.Subscribe(ctx, "paper-4")
	defer cleanup()

	for i := 0; i < 64; i++ {
		dispatcher.Publish(AnnotationEvent{
			PaperID:      "paper-4",
			EventType:    EventCommentLiked,
			AnnotationID: "comment-b",
			Timestamp:    time.Now().UTC(),
		})
	}

	received := 0
	for {
		select {
		case <-stream:
			received++
		default:
			if received == 0 || received > 16 {
				t.Fatalf("expected between 1 and buffer-size events, got %d", received)
			}
			return
		}
	}
}

func TestEventDispatcherUnsubscribesOnContextDone(t *testing.T) {
	dispatcher := NewEventDispatcher()
	ctx, cancel := context.WithCancel(context.Background())

	_, cleanup := dispatcher.Subscribe(ctx, "paper-5")
	defer cleanup()

	cancel()

	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		dispatcher.mu.RLock()
		remaining := len(dispatcher.subscribers["paper-5"])
		dispatcher.mu.RUnlock()
		if remaining == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected subscriber to be removed after context cancellation")
}

func TestEventDispatcherIgnoresIncompleteEvents(t *testing.T) {
	dispatcher := NewEventDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, cleanup := dispatcher.Subscribe(ctx, "paper-6")
	defer cleanup()

	dispatcher.Publish(AnnotationEvent{PaperID: "", EventType: EventCommentCreated})
	dispatcher.Publish(AnnotationEvent{PaperID: "paper-6", EventType: ""})

	select {
	case <-stream:
		t.Fatal("did not expect incomplete events to be delivered")
	case <-time.After(200 * time.Millisecond):
	}
}
