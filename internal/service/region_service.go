package service

import (
	"context"
	"sort"

	"birdsong-quiz/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// RegionService resolves the regions a quiz can be played in
type RegionService interface {
	// ListAvailableRegions returns regions with at least one observation,
	// ordered case-insensitively by their display name in locale.
	ListAvailableRegions(ctx context.Context, locale domain.Locale) ([]*domain.Region, error)
}

type regionService struct {
	regionRepo domain.RegionRepository
}

// NewRegionService creates a new instance of regionService
func NewRegionService(regionRepo domain.RegionRepository) RegionService {
	return &regionService{regionRepo: regionRepo}
}

// ListAvailableRegions implements RegionService
func (s *regionService) ListAvailableRegions(ctx context.Context, locale domain.Locale) ([]*domain.Region, error) {
	regions, err := s.regionRepo.ListWithObservations(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list available regions", err)
	}
	SortRegions(regions, locale)
	return regions, nil
}

// SortRegions orders regions by display name using a case-insensitive collator for locale.
func SortRegions(regions []*domain.Region, locale domain.Locale) {
	tag, err := language.Parse(string(locale))
	if err != nil {
		tag = language.English
	}
	col := collate.New(tag, collate.IgnoreCase)

	names := make(map[*domain.Region]string, len(regions))
	for _, r := range regions {
		names[r] = r.DisplayName(locale)
	}
	sort.SliceStable(regions, func(i, j int) bool {
		return col.CompareString(names[regions[i]], names[regions[j]]) < 0
	})
}
