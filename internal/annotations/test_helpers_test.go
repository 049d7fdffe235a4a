package annotations

import (
	"fmt"
	"testing"
	"time"

	"github.com/LumenResearchLab/margin/internal/papers"
	"github.com/LumenResearchLab/margin/internal/reviewers"
)

const abstractText = "Quantum neural networks accelerate learning."

type steppingClock struct {
	current time.Time
}

func newSteppingClock() *steppingClock {
	return &steppingClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

// Now returns a strictly increasing timestamp, one second per call.
func (c *steppingClock) Now() time.Time {
	value := c.current
	c.current = c.current.Add(time.Second)
	return value
}

type sequentialIDProvider struct {
	next int
}

func (p *sequentialIDProvider) NewID() (string, error) {
	p.next++
	return fmt.Sprintf("id-%d", p.next), nil
}

func mustAuthorID(t *testing.T, value string) AuthorID {
	t.Helper()
	id, err := NewAuthorID(value)
	if err != nil {
		t.Fatalf("unexpected author id error: %v", err)
	}
	return id
}

func mustPaperID(t *testing.T, value string) papers.PaperID {
	t.Helper()
	id, err := papers.NewPaperID(value)
	if err != nil {
		t.Fatalf("unexpected paper id error: %v", err)
	}
	return id
}

func mustVersionLabel(t *testing.T, value string) papers.VersionLabel {
	t.Helper()
	label, err := papers.NewVersionLabel(value)
	if err != nil {
		t.Fatalf("unexpected version label error: %v", err)
	}
	return label
}

func mustSectionID(t *testing.T, value string) papers.SectionID {
	t.Helper()
	id, err := papers.NewSectionID(value)
	if err != nil {
		t.Fatalf("unexpected section id error: %v", err)
	}
	return id
}

func newTestLibrary(t *testing.T) *papers.Library {
	t.Helper()
	library := papers.NewLibrary()
	err := library.Register(papers.Paper{
		ID:    mustPaperID(t, "paper-1"),
		Title: "Quantum Computing and Neural Networks",
		Versions: []papers.Version{
			{
				Label:      mustVersionLabel(t, "v1.0"),
				CreatedAt:  time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
				ChangeNote: "Initial submission",
				Sections: []papers.Section{
					{
						ID:   mustSectionID(t, "abs-1"),
						Kind: papers.SectionKindAbstract,
						Text: abstractText,
					},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}
	return library
}

func newTestDirectory(t *testing.T) *reviewers.Directory {
	t.Helper()
	directory := reviewers.NewDirectory()
	err := directory.Register(reviewers.Profile{
		ID:          "u-emma",
		Name:        "Dr. Emma Chen",
		Initials:    "EC",
		Affiliation: "MIT",
		Verified:    true,
		Reputation:  89,
	})
	if err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}
	return directory
}

func newTestStore(t *testing.T) (*Store, *papers.Library) {
	t.Helper()
	library := newTestLibrary(t)
	store, err := NewStore(StoreConfig{
		Library:    library,
		Directory:  newTestDirectory(t),
		Clock:      newSteppingClock().Now,
		IDProvider: &sequentialIDProvider{},
	})
	if err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}
	return store, library
}

func abstractAnchor(t *testing.T, quote string) papers.Anchor {
	t.Helper()
	return papers.Anchor{SectionID: mustSectionID(t, "abs-1"), Quote: quote}
}
