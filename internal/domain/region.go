package domain

import (
	"strings"
)

const (
	regionNameSeparator = " - "
	// maxRegionAncestors is how many parent levels a display name includes.
	maxRegionAncestors = 2
)

// Region is a geographic area, optionally nested under a parent region
type Region struct {
	ID       int64
	Code     string
	Names    LocalizedNames
	ParentID *int64
	Parent   *Region
}

// Name returns the region's own name in locale, falling back to the default locale.
func (r *Region) Name(locale Locale) string {
	return r.Names.Resolve(locale)
}

// DisplayName joins up to two ancestor names and the region's own name, root first.
// Each level falls back to the default locale independently.
func (r *Region) DisplayName(locale Locale) string {
	chain := []*Region{r}
	seen := map[*Region]bool{r: true}
	for p := r.Parent; p != nil && len(chain) <= maxRegionAncestors; p = p.Parent {
		if seen[p] {
			break
		}
		seen[p] = true
		chain = append(chain, p)
	}

	names := make([]string, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		names = append(names, chain[i].Name(locale))
	}
	return strings.Join(names, regionNameSeparator)
}

// Validate validates the region
func (r *Region) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return NewValidationError("region code is required")
	}
	if len(r.Code) > 20 {
		return NewValidationError("region code is too long")
	}
	if r.Names.Get(DefaultLocale) == "" {
		return NewValidationError("default locale name is required")
	}
	if r.ParentID != nil && *r.ParentID == r.ID && r.ID != 0 {
		return NewValidationError("region cannot be its own parent")
	}
	return nil
}
