package domain

import (
	"strings"
	"time"
)

// Species represents a bird taxon that can appear in a quiz
type Species struct {
	ID             int64
	ScientificName string
	Names          LocalizedNames
	Order          string
	Family         string
	Genus          string
	Code           string // eBird species code, unique when present
}

// DisplayName returns the common name in locale, falling back to the default locale.
func (s *Species) DisplayName(locale Locale) string {
	return s.Names.Resolve(locale)
}

// AcceptedNames returns every name an answer may match: localized names followed by the scientific name.
func (s *Species) AcceptedNames() []string {
	names := s.Names.All()
	if s.ScientificName != "" {
		names = append(names, s.ScientificName)
	}
	return names
}

// Validate validates the species
func (s *Species) Validate() error {
	if strings.TrimSpace(s.ScientificName) == "" {
		return NewValidationError("scientific name is required")
	}
	if len(s.ScientificName) > 100 {
		return NewValidationError("scientific name is too long")
	}
	if s.Names.Get(DefaultLocale) == "" {
		return NewValidationError("default locale name is required")
	}
	for _, name := range s.Names.All() {
		if len(name) > 100 {
			return NewValidationError("localized name is too long")
		}
	}
	return nil
}

// SoundType classifies the primary vocalization of a recording
type SoundType string

const (
	SoundTypeSong      SoundType = "song"
	SoundTypeCall      SoundType = "call"
	SoundTypeFlight    SoundType = "flight call"
	SoundTypeAlarm     SoundType = "alarm call"
	SoundTypeBegging   SoundType = "begging call"
	SoundTypeDuet      SoundType = "duet"
	SoundTypeDrumming  SoundType = "drumming"
	SoundTypeAberrant  SoundType = "aberrant"
	SoundTypeImitation SoundType = "imitation"
	SoundTypeOther     SoundType = "other"
)

// Recording is one audio sample of a species
type Recording struct {
	ID         int64 // xeno-canto id
	SpeciesID  int64
	URL        string
	AudioURL   string
	Audio      string // stored audio file locator
	Recordist  string
	Country    string
	Location   string
	SoundType  SoundType
	License    string
	LicenseURL string
	Downloaded bool
	CreatedAt  time.Time
}

// Validate validates the recording
func (r *Recording) Validate() error {
	if r.ID <= 0 {
		return NewValidationError("recording id is required")
	}
	if r.SpeciesID <= 0 {
		return NewValidationError("species id is required")
	}
	if r.URL == "" || len(r.URL) > 100 {
		return NewValidationError("url is required and must be at most 100 characters")
	}
	if r.Audio == "" {
		return NewValidationError("audio locator is required")
	}
	if len(r.Recordist) > 100 || len(r.Country) > 50 || len(r.Location) > 255 {
		return NewValidationError("descriptive metadata is too long")
	}
	if r.License == "" {
		return NewValidationError("license is required")
	}
	return nil
}
