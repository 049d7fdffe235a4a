package annotations

import (
	"errors"
	"testing"
)

func TestHighlightsForColorPreservesInsertionOrder(t *testing.T) {
	store, _ := newTestStore(t)
	views := NewViews(store)
	paperID := mustPaperID(t, "paper-1")
	author := mustAuthorID(t, "u-emma")

	first, err := store.AddHighlight(paperID, abstractAnchor(t, "Quantum neural"), ColorYellow, author, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.AddHighlight(paperID, abstractAnchor(t, "networks"), ColorBlue, author, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := store.AddHighlight(paperID, abstractAnchor(t, "learning"), ColorYellow, author, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	yellow, err := views.HighlightsForColor(paperID, ColorYellow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(yellow) != 2 {
		t.Fatalf("expected 2 yellow highlights, got %d", len(yellow))
	}
	if yellow[0].ID != first.ID || yellow[1].ID != second.ID {
		t.Fatalf("expected insertion order preserved, got %s then %s", yellow[0].ID, yellow[1].ID)
	}
}

func TestHighlightsForColorRejectsUnknownColor(t *testing.T) {
	store, _ := newTestStore(t)
	views := NewViews(store)

	if _, err := views.HighlightsForColor(mustPaperID(t, "paper-1"), Color("magenta")); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}
}

func TestCommentCount(t *testing.T) {
	store, _ := newTestStore(t)
	views := NewViews(store)
	paperID := mustPaperID(t, "paper-1")

	parent, err := store.AddComment(paperID, nil, mustAuthorID(t, "u-emma"), "Parent.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.AddComment(paperID, nil, mustAuthorID(t, "u-david"), "Second."); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.AddReply(parent.ID, mustAuthorID(t, "u-li"), "Reply."); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	topLevel, err := views.CommentCount(paperID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if topLevel != 2 {
		t.Fatalf("expected 2 top-level comments, got %d", topLevel)
	}

	withReplies, err := views.CommentCount(paperID, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withReplies != 3 {
		t.Fatalf("expected 3 including replies, got %d", withReplies)
	}
}

func TestTopLevelCommentsDelegatesSorting(t *testing.T) {
	store, _ := newTestStore(t)
	views := NewViews(store)
	paperID := mustPaperID(t, "paper-1")

	first, err := store.AddComment(paperID, nil, mustAuthorID(t, "u-emma"), "First.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Like(first.ID, mustAuthorID(t, "u-li")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.AddComment(paperID, nil, mustAuthorID(t, "u-david"), "Second."); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	comments, err := views.TopLevelComments(paperID, SortByLikesDesc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if comments[0].ID != first.ID {
		t.Fatalf("expected the liked comment first, got %s", comments[0].ID)
	}
}
