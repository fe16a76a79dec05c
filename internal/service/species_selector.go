package service

import (
	"context"

	"birdsong-quiz/internal/domain"
)

// SpeciesSelector resolves the species eligible for a quiz in a region
type SpeciesSelector interface {
	// SpeciesForRegion returns distinct species observed in the region that have a recording.
	// With beginnerOnly, only species on a beginner list scoped to the region are returned.
	SpeciesForRegion(ctx context.Context, regionID int64, beginnerOnly bool) ([]*domain.Species, error)
}

type speciesSelector struct {
	regionRepo  domain.RegionRepository
	speciesRepo domain.SpeciesRepository
}

// NewSpeciesSelector creates a new instance of speciesSelector
func NewSpeciesSelector(regionRepo domain.RegionRepository, speciesRepo domain.SpeciesRepository) SpeciesSelector {
	return &speciesSelector{regionRepo: regionRepo, speciesRepo: speciesRepo}
}

// SpeciesForRegion implements SpeciesSelector
func (s *speciesSelector) SpeciesForRegion(ctx context.Context, regionID int64, beginnerOnly bool) ([]*domain.Species, error) {
	region, err := s.regionRepo.GetByID(ctx, regionID)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up region", err)
	}
	if region == nil {
		return nil, domain.NewRegionNotFoundError(regionID)
	}

	var species []*domain.Species
	if beginnerOnly {
		species, err = s.speciesRepo.ListBeginnerForRegion(ctx, regionID)
	} else {
		species, err = s.speciesRepo.ListForRegion(ctx, regionID)
	}
	if err != nil {
		return nil, domain.NewInternalError("failed to list species for region", err)
	}
	return distinctSpecies(species), nil
}

func distinctSpecies(species []*domain.Species) []*domain.Species {
	seen := make(map[int64]bool, len(species))
	out := make([]*domain.Species, 0, len(species))
	for _, sp := range species {
		if sp == nil || seen[sp.ID] {
			continue
		}
		seen[sp.ID] = true
		out = append(out, sp)
	}
	return out
}
