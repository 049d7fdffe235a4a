package papers

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SectionKind enumerates the structural role of a paper section.
type SectionKind string

const (
	SectionKindTitle        SectionKind = "title"
	SectionKindAbstract     SectionKind = "abstract"
	SectionKindIntroduction SectionKind = "introduction"
	SectionKindMethodology  SectionKind = "methodology"
	SectionKindResults      SectionKind = "results"
	SectionKindDiscussion   SectionKind = "discussion"
	SectionKindConclusion   SectionKind = "conclusion"
)

const maxIdentifierLength = 190

var (
	// ErrInvalidPaperID indicates that a paper identifier is empty or exceeds bounds.
	ErrInvalidPaperID = errors.New("papers: invalid paper id")
	// ErrInvalidVersionLabel indicates that a version label is empty or exceeds bounds.
	ErrInvalidVersionLabel = errors.New("papers: invalid version label")
	// ErrInvalidSectionID indicates that a section identifier is empty or exceeds bounds.
	ErrInvalidSectionID = errors.New("papers: invalid section id")
	// ErrInvalidSectionKind indicates an unknown section kind value.
	ErrInvalidSectionKind = errors.New("papers: invalid section kind")
)

// ParseSectionKind validates a raw kind value.
func ParseSectionKind(rawValue string) (SectionKind, error) {
	kind := SectionKind(strings.ToLower(strings.TrimSpace(rawValue)))
	switch kind {
	case SectionKindTitle, SectionKindAbstract, SectionKindIntroduction,
		SectionKindMethodology, SectionKindResults, SectionKindDiscussion,
		SectionKindConclusion:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSectionKind, rawValue)
	}
}

// PaperID represents a validated paper identifier.
type PaperID string

// NewPaperID validates raw input and returns a PaperID.
func NewPaperID(rawInput string) (PaperID, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPaperID)
	}
	if len(trimmed) > maxIdentifierLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidPaperID, maxIdentifierLength)
	}
	return PaperID(trimmed), nil
}

// String returns the underlying string identifier.
func (id PaperID) String() string {
	return string(id)
}

// VersionLabel represents a validated human-facing version label such as "v3.0".
type VersionLabel string

// NewVersionLabel validates raw input and returns a VersionLabel.
func NewVersionLabel(rawInput string) (VersionLabel, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidVersionLabel)
	}
	if len(trimmed) > maxIdentifierLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidVersionLabel, maxIdentifierLength)
	}
	return VersionLabel(trimmed), nil
}

// String returns the underlying label.
func (label VersionLabel) String() string {
	return string(label)
}

// SectionID represents a validated section identifier.
type SectionID string

// NewSectionID validates raw input and returns a SectionID.
func NewSectionID(rawInput string) (SectionID, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidSectionID)
	}
	if len(trimmed) > maxIdentifierLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidSectionID, maxIdentifierLength)
	}
	return SectionID(trimmed), nil
}

// String returns the underlying string identifier.
func (id SectionID) String() string {
	return string(id)
}

// Section is one ordered unit of a version's content.
type Section struct {
	ID   SectionID
	Kind SectionKind
	Text string
}

// Version is an immutable snapshot of a paper's sections at a point in time.
// Versions are only ever appended; existing versions are never edited.
type Version struct {
	ID         string
	Label      VersionLabel
	CreatedAt  time.Time
	ChangeNote string
	Sections   []Section
}

// Section returns the section carrying the given id within this version.
func (v Version) Section(id SectionID) (Section, bool) {
	for _, section := range v.Sections {
		if section.ID == id {
			return section, true
		}
	}
	return Section{}, false
}

// Author identifies one author of a paper.
type Author struct {
	Name        string
	Affiliation string
	Email       string
}

// Paper carries the bibliographic metadata and the append-only version history.
type Paper struct {
	ID             PaperID
	Title          string
	Authors        []Author
	Abstract       string
	Keywords       []string
	DOI            string
	PublishDate    string
	Field          string
	Journal        string
	CurrentVersion VersionLabel
	Versions       []Version
}

// VersionSummary is the history row exposed by ListVersions.
type VersionSummary struct {
	Label      VersionLabel
	CreatedAt  time.Time
	ChangeNote string
}
