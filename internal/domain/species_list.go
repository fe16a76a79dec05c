package domain

import "strings"

// SpeciesList is a named collection of species scoped to regions
type SpeciesList struct {
	ID         int64
	Name       string
	OwnerID    *string
	Official   bool
	Beginner   bool
	SpeciesIDs []int64
	RegionIDs  []int64
}

// Validate validates the species list
func (l *SpeciesList) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return NewValidationError("list name is required")
	}
	if len(l.Name) > 100 {
		return NewValidationError("list name is too long")
	}
	seen := make(map[int64]bool, len(l.SpeciesIDs))
	for _, id := range l.SpeciesIDs {
		if seen[id] {
			return NewValidationError("species may appear only once per list")
		}
		seen[id] = true
	}
	return nil
}
