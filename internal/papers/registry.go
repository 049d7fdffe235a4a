package papers

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrPaperNotFound indicates a lookup for an unknown paper identifier.
	ErrPaperNotFound = errors.New("papers: paper not found")
	// ErrVersionNotFound indicates a lookup for an unknown version label.
	ErrVersionNotFound = errors.New("papers: version not found")
	// ErrDuplicateVersionLabel indicates an appended version reuses an existing label.
	ErrDuplicateVersionLabel = errors.New("papers: duplicate version label")
	// ErrDuplicateSectionID indicates an appended version carries repeated section ids.
	ErrDuplicateSectionID = errors.New("papers: duplicate section id")
	// ErrDuplicatePaperID indicates a registered paper reuses an existing identifier.
	ErrDuplicatePaperID = errors.New("papers: duplicate paper id")
	// ErrNoVersions indicates a paper was registered without any content version.
	ErrNoVersions = errors.New("papers: paper has no versions")
)

// Library is the in-memory registry of papers and their append-only version
// histories. Versions are immutable once appended; reads return copies so
// callers never alias registry internals.
type Library struct {
	mu     sync.RWMutex
	papers map[PaperID]*Paper
	order  []PaperID
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{papers: make(map[PaperID]*Paper)}
}

// Register adds a paper with its initial version history.
func (l *Library) Register(paper Paper) error {
	if len(paper.Versions) == 0 {
		return fmt.Errorf("%w: %s", ErrNoVersions, paper.ID)
	}
	if err := validateVersions(paper.Versions); err != nil {
		return err
	}
	if paper.CurrentVersion == "" {
		paper.CurrentVersion = paper.Versions[len(paper.Versions)-1].Label
	}
	if _, err := versionByLabel(paper.Versions, paper.CurrentVersion); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.papers[paper.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePaperID, paper.ID)
	}
	stored := copyPaper(paper)
	l.papers[paper.ID] = &stored
	l.order = append(l.order, paper.ID)
	return nil
}

// Get returns the paper carrying the given identifier.
func (l *Library) Get(id PaperID) (Paper, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	paper, ok := l.papers[id]
	if !ok {
		return Paper{}, fmt.Errorf("%w: %s", ErrPaperNotFound, id)
	}
	return copyPaper(*paper), nil
}

// List returns all registered papers in registration order.
func (l *Library) List() []Paper {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]Paper, 0, len(l.order))
	for _, id := range l.order {
		result = append(result, copyPaper(*l.papers[id]))
	}
	return result
}

// GetVersion returns the version of a paper carrying the given label.
func (l *Library) GetVersion(id PaperID, label VersionLabel) (Version, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	paper, ok := l.papers[id]
	if !ok {
		return Version{}, fmt.Errorf("%w: %s", ErrPaperNotFound, id)
	}
	version, err := versionByLabel(paper.Versions, label)
	if err != nil {
		return Version{}, err
	}
	return copyVersion(version), nil
}

// CurrentVersion returns the version the paper currently points readers at.
func (l *Library) CurrentVersion(id PaperID) (Version, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	paper, ok := l.papers[id]
	if !ok {
		return Version{}, fmt.Errorf("%w: %s", ErrPaperNotFound, id)
	}
	version, err := versionByLabel(paper.Versions, paper.CurrentVersion)
	if err != nil {
		return Version{}, err
	}
	return copyVersion(version), nil
}

// ListVersions returns the history rows for a paper, oldest first.
func (l *Library) ListVersions(id PaperID) ([]VersionSummary, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	paper, ok := l.papers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPaperNotFound, id)
	}
	summaries := make([]VersionSummary, 0, len(paper.Versions))
	for _, version := range paper.Versions {
		summaries = append(summaries, VersionSummary{
			Label:      version.Label,
			CreatedAt:  version.CreatedAt,
			ChangeNote: version.ChangeNote,
		})
	}
	return summaries, nil
}

// AppendVersion adds a new version to a paper's history and makes it current.
// Existing versions are never touched.
func (l *Library) AppendVersion(id PaperID, version Version) error {
	if err := validateSections(version.Sections); err != nil {
		return err
	}
	if version.Label == "" {
		return fmt.Errorf("%w: empty", ErrInvalidVersionLabel)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	paper, ok := l.papers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPaperNotFound, id)
	}
	for _, existing := range paper.Versions {
		if existing.Label == version.Label {
			return fmt.Errorf("%w: %s", ErrDuplicateVersionLabel, version.Label)
		}
	}
	paper.Versions = append(paper.Versions, copyVersion(version))
	paper.CurrentVersion = version.Label
	return nil
}

func versionByLabel(versions []Version, label VersionLabel) (Version, error) {
	for _, version := range versions {
		if version.Label == label {
			return version, nil
		}
	}
	return Version{}, fmt.Errorf("%w: %s", ErrVersionNotFound, label)
}

func validateVersions(versions []Version) error {
	seen := make(map[VersionLabel]struct{}, len(versions))
	for _, version := range versions {
		if version.Label == "" {
			return fmt.Errorf("%w: empty", ErrInvalidVersionLabel)
		}
		if _, dup := seen[version.Label]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateVersionLabel, version.Label)
		}
		seen[version.Label] = struct{}{}
		if err := validateSections(version.Sections); err != nil {
			return err
		}
	}
	return nil
}

func validateSections(sections []Section) error {
	seen := make(map[SectionID]struct{}, len(sections))
	for _, section := range sections {
		if section.ID == "" {
			return fmt.Errorf("%w: empty", ErrInvalidSectionID)
		}
		if _, dup := seen[section.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateSectionID, section.ID)
		}
		seen[section.ID] = struct{}{}
	}
	return nil
}

func copyPaper(paper Paper) Paper {
	copied := paper
	copied.Authors = append([]Author(nil), paper.Authors...)
	copied.Keywords = append([]string(nil), paper.Keywords...)
	copied.Versions = make([]Version, 0, len(paper.Versions))
	for _, version := range paper.Versions {
		copied.Versions = append(copied.Versions, copyVersion(version))
	}
	return copied
}

func copyVersion(version Version) Version {
	copied := version
	copied.Sections = append([]Section(nil), version.Sections...)
	return copied
}
