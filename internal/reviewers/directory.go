package reviewers

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrInvalidProfile indicates a profile is missing a usable identifier.
var ErrInvalidProfile = errors.New("reviewers: invalid profile")

// Profile carries the display metadata rendered next to a reviewer's
// comments: name, initials badge, affiliation, verification state and
// reputation score.
type Profile struct {
	ID          string
	Name        string
	Initials    string
	Affiliation string
	Verified    bool
	Reputation  int
}

// Directory resolves reviewer identifiers to display profiles. Unknown
// identifiers resolve to a derived fallback profile rather than failing, so
// annotation writes never depend on directory completeness.
type Directory struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{profiles: make(map[string]Profile)}
}

// Register adds or replaces a reviewer profile.
func (d *Directory) Register(profile Profile) error {
	identifier := normalize(profile.ID)
	if identifier == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidProfile)
	}
	if normalize(profile.Name) == "" {
		return fmt.Errorf("%w: empty name for %s", ErrInvalidProfile, identifier)
	}
	profile.ID = identifier
	profile.Name = normalize(profile.Name)
	if normalize(profile.Initials) == "" {
		profile.Initials = deriveInitials(profile.Name)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.profiles[identifier] = profile
	return nil
}

// Resolve returns the profile registered for the identifier, or a derived
// unverified fallback when the identifier has never been registered.
func (d *Directory) Resolve(reviewerID string) Profile {
	identifier := normalize(reviewerID)

	d.mu.RLock()
	profile, ok := d.profiles[identifier]
	d.mu.RUnlock()
	if ok {
		return profile
	}

	return Profile{
		ID:       identifier,
		Name:     identifier,
		Initials: deriveInitials(identifier),
	}
}

// Known reports whether the identifier has a registered profile.
func (d *Directory) Known(reviewerID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.profiles[normalize(reviewerID)]
	return ok
}

// Count returns the number of registered profiles.
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.profiles)
}

func normalize(value string) string {
	return strings.TrimSpace(value)
}

// deriveInitials builds a two-letter badge from the leading letters of the
// first and last word, skipping honorifics like "Dr." and "Prof.".
func deriveInitials(name string) string {
	words := strings.Fields(name)
	filtered := words[:0]
	for _, word := range words {
		lowered := strings.ToLower(strings.TrimSuffix(word, "."))
		if lowered == "dr" || lowered == "prof" || lowered == "professor" {
			continue
		}
		filtered = append(filtered, word)
	}
	if len(filtered) == 0 {
		return "?"
	}
	first := []rune(filtered[0])
	if len(filtered) == 1 {
		return strings.ToUpper(string(first[0]))
	}
	last := []rune(filtered[len(filtered)-1])
	return strings.ToUpper(string(first[0]) + string(last[0]))
}
