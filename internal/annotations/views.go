package annotations

import "github.com/LumenResearchLab/margin/internal/papers"

// Views exposes the read-side transformations the reader UI renders from.
// It holds no state of its own; every call reflects the store's contents at
// the moment it runs.
type Views struct {
	store *Store
}

// NewViews constructs the presentation layer over the given store.
func NewViews(store *Store) *Views {
	return &Views{store: store}
}

// TopLevelComments returns a paper's comments in the requested order,
// replies nested under their parents.
func (v *Views) TopLevelComments(paperID papers.PaperID, order SortOrder) ([]Comment, error) {
	return v.store.ListComments(paperID, order)
}

// HighlightsForColor filters a paper's highlights to one color, creation
// order preserved.
func (v *Views) HighlightsForColor(paperID papers.PaperID, color Color) ([]Highlight, error) {
	if _, err := ParseColor(string(color)); err != nil {
		return nil, err
	}
	highlights, err := v.store.ListHighlights(paperID, "")
	if err != nil {
		return nil, err
	}
	filtered := make([]Highlight, 0, len(highlights))
	for _, highlight := range highlights {
		if highlight.Color == color {
			filtered = append(filtered, highlight)
		}
	}
	return filtered, nil
}

// CommentCount returns the badge count for a paper, either top-level
// comments only or including every nested reply.
func (v *Views) CommentCount(paperID papers.PaperID, includeReplies bool) (int, error) {
	comments, err := v.store.ListComments(paperID, SortByRecencyDesc)
	if err != nil {
		return 0, err
	}
	count := len(comments)
	if includeReplies {
		for _, comment := range comments {
			count += len(comment.Replies)
		}
	}
	return count, nil
}
