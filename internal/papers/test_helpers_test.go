package papers

import (
	"testing"
	"time"
)

func mustPaperID(t *testing.T, value string) PaperID {
	t.Helper()
	id, err := NewPaperID(value)
	if err != nil {
		t.Fatalf("unexpected paper id error: %v", err)
	}
	return id
}

func mustVersionLabel(t *testing.T, value string) VersionLabel {
	t.Helper()
	label, err := NewVersionLabel(value)
	if err != nil {
		t.Fatalf("unexpected version label error: %v", err)
	}
	return label
}

func mustSectionID(t *testing.T, value string) SectionID {
	t.Helper()
	id, err := NewSectionID(value)
	if err != nil {
		t.Fatalf("unexpected section id error: %v", err)
	}
	return id
}

func samplePaper(t *testing.T) Paper {
	t.Helper()
	return Paper{
		ID:    mustPaperID(t, "paper-1"),
		Title: "Quantum Computing and Neural Networks",
		Versions: []Version{
			{
				ID:         "v1",
				Label:      mustVersionLabel(t, "v1.0"),
				CreatedAt:  time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
				ChangeNote: "Initial submission",
				Sections: []Section{
					{
						ID:   mustSectionID(t, "abs-1"),
						Kind: SectionKindAbstract,
						Text: "Quantum neural networks accelerate learning.",
					},
				},
			},
			{
				ID:         "v2",
				Label:      mustVersionLabel(t, "v2.0"),
				CreatedAt:  time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
				ChangeNote: "Rewrote abstract",
				Sections: []Section{
					{
						ID:   mustSectionID(t, "abs-1"),
						Kind: SectionKindAbstract,
						Text: "Quantum neural networks speed up certain learning tasks.",
					},
				},
			},
		},
		CurrentVersion: mustVersionLabel(t, "v2.0"),
	}
}

func newLibraryWithSample(t *testing.T) *Library {
	t.Helper()
	library := NewLibrary()
	if err := library.Register(samplePaper(t)); err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}
	return library
}
