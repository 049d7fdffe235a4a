package corpus

import (
	"fmt"
	"time"

	"github.com/LumenResearchLab/margin/internal/papers"
	"github.com/LumenResearchLab/margin/internal/reviewers"
)

const dateLayout = "2006-01-02"

// MapPaper converts a corpus entry into a domain paper.
func MapPaper(entry PaperEntry) (papers.Paper, error) {
	paperID, err := papers.NewPaperID(entry.ID)
	if err != nil {
		return papers.Paper{}, err
	}

	versions := make([]papers.Version, 0, len(entry.Versions))
	for _, versionEntry := range entry.Versions {
		version, err := mapVersion(versionEntry)
		if err != nil {
			return papers.Paper{}, fmt.Errorf("paper %s: %w", entry.ID, err)
		}
		versions = append(versions, version)
	}

	authors := make([]papers.Author, 0, len(entry.Authors))
	for _, authorEntry := range entry.Authors {
		authors = append(authors, papers.Author{
			Name:        authorEntry.Name,
			Affiliation: authorEntry.Affiliation,
			Email:       authorEntry.Email,
		})
	}

	paper := papers.Paper{
		ID:          paperID,
		Title:       entry.Title,
		Authors:     authors,
		Abstract:    entry.Abstract,
		Keywords:    append([]string(nil), entry.Keywords...),
		DOI:         entry.DOI,
		PublishDate: entry.PublishDate,
		Field:       entry.Field,
		Journal:     entry.Journal,
		Versions:    versions,
	}
	if entry.CurrentVersion != "" {
		label, err := papers.NewVersionLabel(entry.CurrentVersion)
		if err != nil {
			return papers.Paper{}, fmt.Errorf("paper %s: %w", entry.ID, err)
		}
		paper.CurrentVersion = label
	}
	return paper, nil
}

func mapVersion(entry VersionEntry) (papers.Version, error) {
	label, err := papers.NewVersionLabel(entry.Label)
	if err != nil {
		return papers.Version{}, err
	}

	var createdAt time.Time
	if entry.Date != "" {
		createdAt, err = time.Parse(dateLayout, entry.Date)
		if err != nil {
			return papers.Version{}, fmt.Errorf("version %s: invalid date %q: %w", entry.Label, entry.Date, err)
		}
	}

	sections := make([]papers.Section, 0, len(entry.Sections))
	for _, sectionEntry := range entry.Sections {
		sectionID, err := papers.NewSectionID(sectionEntry.ID)
		if err != nil {
			return papers.Version{}, fmt.Errorf("version %s: %w", entry.Label, err)
		}
		kind, err := papers.ParseSectionKind(sectionEntry.Kind)
		if err != nil {
			return papers.Version{}, fmt.Errorf("version %s: %w", entry.Label, err)
		}
		sections = append(sections, papers.Section{
			ID:   sectionID,
			Kind: kind,
			Text: sectionEntry.Text,
		})
	}

	return papers.Version{
		ID:         entry.ID,
		Label:      label,
		CreatedAt:  createdAt,
		ChangeNote: entry.Changes,
		Sections:   sections,
	}, nil
}

// Seed loads the corpus document into the library and reviewer directory.
func Seed(document Document, library *papers.Library, directory *reviewers.Directory) error {
	for _, entry := range document.Papers {
		paper, err := MapPaper(entry)
		if err != nil {
			return err
		}
		if err := library.Register(paper); err != nil {
			return err
		}
	}
	for _, entry := range document.Reviewers {
		profile := reviewers.Profile{
			ID:          entry.ID,
			Name:        entry.Name,
			Initials:    entry.Initials,
			Affiliation: entry.Affiliation,
			Verified:    entry.Verified,
			Reputation:  entry.Reputation,
		}
		if err := directory.Register(profile); err != nil {
			return err
		}
	}
	return nil
}
