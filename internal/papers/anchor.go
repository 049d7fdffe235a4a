package papers

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptySelection indicates the selected text is empty after trimming.
	ErrEmptySelection = errors.New("papers: empty selection")
	// ErrInvalidRange indicates the selected text does not appear verbatim in the section.
	ErrInvalidRange = errors.New("papers: selection not found in section")
)

// Anchor is a durable reference to a span of section text. The quote itself
// is the locator: character offsets go stale across re-renders and versions,
// the quoted text does not.
type Anchor struct {
	SectionID SectionID
	Quote     string
}

// Location is the outcome of resolving an anchor against a version.
// Found:false is a degraded success, not an error: the annotation still
// exists, it just cannot be pinned to an exact span in that version.
type Location struct {
	Found  bool
	Offset int
}

// ResolveSelection converts a raw UI selection into an Anchor. The selection
// must still be present verbatim in the section, which defends against stale
// selections captured before the section text changed.
func ResolveSelection(section Section, rawSelectedText string) (Anchor, error) {
	quote := strings.TrimSpace(rawSelectedText)
	if quote == "" {
		return Anchor{}, fmt.Errorf("%w: section %s", ErrEmptySelection, section.ID)
	}
	if !strings.Contains(section.Text, quote) {
		return Anchor{}, fmt.Errorf("%w: section %s", ErrInvalidRange, section.ID)
	}
	return Anchor{SectionID: section.ID, Quote: quote}, nil
}

// Locate searches for the anchor's quote inside the given version. When the
// quote occurs more than once the leftmost occurrence wins, so repeated
// resolutions are deterministic.
func Locate(anchor Anchor, version Version) Location {
	section, ok := version.Section(anchor.SectionID)
	if !ok {
		return Location{}
	}
	offset := strings.Index(section.Text, anchor.Quote)
	if offset < 0 {
		return Location{}
	}
	return Location{Found: true, Offset: offset}
}
