package corpus

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of the corpus seed file.
type Loader struct {
	filePath string
}

// NewLoader creates a loader for the given corpus file.
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads and parses the corpus file.
func (l *Loader) Load() (Document, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read corpus file: %w", err)
	}

	var document Document
	if err := yaml.Unmarshal(data, &document); err != nil {
		return Document{}, fmt.Errorf("failed to parse corpus yaml: %w", err)
	}

	if len(document.Papers) == 0 {
		return Document{}, fmt.Errorf("corpus file %s contains no papers", l.filePath)
	}

	return document, nil
}
