package annotations

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LumenResearchLab/margin/internal/papers"
	"github.com/LumenResearchLab/margin/internal/reviewers"
)

// Color enumerates the highlight colors offered by the reader.
type Color string

const (
	ColorYellow Color = "yellow"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
)

var (
	// ErrInvalidColor indicates an unknown highlight color value.
	ErrInvalidColor = errors.New("annotations: invalid highlight color")
	// ErrInvalidAuthorID indicates an empty or oversized author identifier.
	ErrInvalidAuthorID = errors.New("annotations: invalid author id")
	// ErrEmptyText indicates a comment or reply body is empty after trimming.
	ErrEmptyText = errors.New("annotations: empty text")
	// ErrInvalidAnchor indicates an anchor with a missing section or quote.
	ErrInvalidAnchor = errors.New("annotations: invalid anchor")
	// ErrCommentNotFound indicates a reference to an unknown comment.
	ErrCommentNotFound = errors.New("annotations: comment not found")
	// ErrHighlightNotFound indicates a reference to an unknown highlight.
	ErrHighlightNotFound = errors.New("annotations: highlight not found")
	// ErrNotOwner indicates a mutation attempted by someone other than the creator.
	ErrNotOwner = errors.New("annotations: not the owner")
	// ErrReplyDepth indicates an attempt to reply to a reply.
	ErrReplyDepth = errors.New("annotations: replies cannot be nested")
	// ErrInvalidSortOrder indicates an unknown comment sort order.
	ErrInvalidSortOrder = errors.New("annotations: invalid sort order")
)

const maxIdentifierLength = 190

// ParseColor validates a raw color value.
func ParseColor(rawValue string) (Color, error) {
	color := Color(strings.ToLower(strings.TrimSpace(rawValue)))
	switch color {
	case ColorYellow, ColorBlue, ColorGreen, ColorRed:
		return color, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, rawValue)
	}
}

// AuthorID represents a validated reviewer identifier.
type AuthorID string

// NewAuthorID validates raw input and returns an AuthorID.
func NewAuthorID(rawInput string) (AuthorID, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidAuthorID)
	}
	if len(trimmed) > maxIdentifierLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidAuthorID, maxIdentifierLength)
	}
	return AuthorID(trimmed), nil
}

// String returns the underlying string identifier.
func (id AuthorID) String() string {
	return string(id)
}

// SortOrder enumerates the comment list orderings the reader offers.
type SortOrder string

const (
	// SortByLikesDesc orders by like count, most liked first; ties go to the
	// earlier comment so the ordering is stable across reloads.
	SortByLikesDesc SortOrder = "likes"
	// SortByRecencyDesc orders by creation time, newest first.
	SortByRecencyDesc SortOrder = "recency"
)

// ParseSortOrder validates a raw sort order value.
func ParseSortOrder(rawValue string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(rawValue)))
	switch order {
	case SortByLikesDesc, SortByRecencyDesc:
		return order, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortOrder, rawValue)
	}
}

// Highlight is a colored marker over a quoted span of section text.
type Highlight struct {
	ID           string
	PaperID      papers.PaperID
	VersionLabel papers.VersionLabel
	Anchor       papers.Anchor
	Color        Color
	AuthorID     AuthorID
	Note         string
	CreatedAt    time.Time
}

// Comment is threaded reviewer feedback, optionally anchored to a span.
// A nil anchor targets the whole paper. Replies never carry their own
// anchor and never nest further.
type Comment struct {
	ID           string
	PaperID      papers.PaperID
	VersionLabel papers.VersionLabel
	Anchor       *papers.Anchor
	AuthorID     AuthorID
	Author       reviewers.Profile
	Text         string
	CreatedAt    time.Time
	LikeCount    int
	Pinned       bool
	Replies      []Comment
}

func validateAnchor(anchor papers.Anchor) error {
	if anchor.SectionID == "" {
		return fmt.Errorf("%w: empty section id", ErrInvalidAnchor)
	}
	if strings.TrimSpace(anchor.Quote) == "" {
		return fmt.Errorf("%w: empty quote", ErrInvalidAnchor)
	}
	return nil
}

func copyComment(comment Comment) Comment {
	copied := comment
	if comment.Anchor != nil {
		anchor := *comment.Anchor
		copied.Anchor = &anchor
	}
	copied.Replies = make([]Comment, 0, len(comment.Replies))
	for _, reply := range comment.Replies {
		copied.Replies = append(copied.Replies, copyComment(reply))
	}
	return copied
}
