package server

import (
	"context"
	"sync"
	"time"
)

const (
	EventCommentCreated   = "comment-created"
	EventReplyCreated     = "reply-created"
	EventCommentLiked     = "comment-liked"
	EventCommentUnliked   = "comment-unliked"
	EventCommentPinned    = "comment-pinned"
	EventHighlightCreated = "highlight-created"
	EventHighlightUpdated = "highlight-updated"
	EventHighlightDeleted = "highlight-deleted"

	eventHeartbeat = "heartbeat"
)

// AnnotationEvent tells an open reader that a paper's annotations changed
// and its comment or highlight lists should be refetched. It carries no
// annotation state; this is change notification, not synchronization.
type AnnotationEvent struct {
	PaperID      string
	EventType    string
	AnnotationID string
	Timestamp    time.Time
}

// EventDispatcher fans annotation events out to subscribers per paper.
type EventDispatcher struct {
	mu          sync.RWMutex
	subscribers map[string]map[int64]*eventSubscriber
	nextID      int64
	bufferSize  int
}

type eventSubscriber struct {
	id     int64
	stream chan AnnotationEvent
}

// NewEventDispatcher creates a dispatcher with a small per-subscriber buffer.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		subscribers: make(map[string]map[int64]*eventSubscriber),
		bufferSize:  16,
	}
}

// Subscribe registers interest in one paper's annotation events. The stream
// closes its registration when the context is done; the returned cleanup is
// safe to call more than once.
func (d *EventDispatcher) Subscribe(ctx context.Context, paperID string) (<-chan AnnotationEvent, func()) {
	if paperID == "" {
		ch := make(chan AnnotationEvent)
		close(ch)
		return ch, func() {}
	}
	subscriber := &eventSubscriber{
		id:     d.nextSequence(),
		stream: make(chan AnnotationEvent, d.bufferSize),
	}
	d.registerSubscriber(paperID, subscriber)
	cleanup := func() {
		d.unregisterSubscriber(paperID, subscriber.id)
	}
	go func() {
		<-ctx.Done()
		cleanup()
	}()
	return subscriber.stream, cleanup
}

// Publish delivers an event to every subscriber of the paper. Slow
// subscribers with full buffers miss the event rather than blocking the
// publisher; the next heartbeat-triggered refetch catches them up.
func (d *EventDispatcher) Publish(event AnnotationEvent) {
	if event.PaperID == "" || event.EventType == "" {
		return
	}
	d.mu.RLock()
	subscribers := d.subscribers[event.PaperID]
	if len(subscribers) == 0 {
		d.mu.RUnlock()
		return
	}
	copies := make([]*eventSubscriber, 0, len(subscribers))
	for _, subscriber := range subscribers {
		copies = append(copies, subscriber)
	}
	d.mu.RUnlock()
	for _, subscriber := range copies {
		select {
		case subscriber.stream <- event:
		default:
		}
	}
}

func (d *EventDispatcher) nextSequence() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	return d.nextID
}

func (d *EventDispatcher) registerSubscriber(paperID string, subscriber *eventSubscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.subscribers[paperID]; !ok {
		d.subscribers[paperID] = make(map[int64]*eventSubscriber)
	}
	d.subscribers[paperID][subscriber.id] = subscriber
}

func (d *EventDispatcher) unregisterSubscriber(paperID string, subscriberID int64) {
	d.mu.Lock()
	subscribers := d.subscribers[paperID]
	if subscribers != nil {
		delete(subscribers, subscriberID)
		if len(subscribers) == 0 {
			delete(d.subscribers, paperID)
		}
	}
	d.mu.Unlock()
}
