package corpus

// Document represents the top-level structure of the corpus file.
type Document struct {
	Papers    []PaperEntry    `yaml:"papers"`
	Reviewers []ReviewerEntry `yaml:"reviewers,omitempty"`
}

// PaperEntry is one paper with its full version history.
type PaperEntry struct {
	ID             string         `yaml:"id"`
	Title          string         `yaml:"title"`
	Authors        []AuthorEntry  `yaml:"authors,omitempty"`
	Abstract       string         `yaml:"abstract,omitempty"`
	Keywords       []string       `yaml:"keywords,omitempty"`
	DOI            string         `yaml:"doi,omitempty"`
	PublishDate    string         `yaml:"publish_date,omitempty"`
	Field          string         `yaml:"field,omitempty"`
	Journal        string         `yaml:"journal,omitempty"`
	CurrentVersion string         `yaml:"current_version,omitempty"`
	Versions       []VersionEntry `yaml:"versions"`
}

// AuthorEntry names one paper author.
type AuthorEntry struct {
	Name        string `yaml:"name"`
	Affiliation string `yaml:"affiliation,omitempty"`
	Email       string `yaml:"email,omitempty"`
}

// VersionEntry is one immutable revision of a paper.
type VersionEntry struct {
	ID       string         `yaml:"id,omitempty"`
	Label    string         `yaml:"label"`
	Date     string         `yaml:"date,omitempty"`
	Changes  string         `yaml:"changes,omitempty"`
	Sections []SectionEntry `yaml:"sections"`
}

// SectionEntry is one ordered content unit of a version.
type SectionEntry struct {
	ID   string `yaml:"id"`
	Kind string `yaml:"kind"`
	Text string `yaml:"text"`
}

// ReviewerEntry seeds the reviewer directory.
type ReviewerEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Initials    string `yaml:"initials,omitempty"`
	Affiliation string `yaml:"affiliation,omitempty"`
	Verified    bool   `yaml:"verified,omitempty"`
	Reputation  int    `yaml:"reputation,omitempty"`
}
