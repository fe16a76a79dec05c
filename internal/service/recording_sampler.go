package service

import (
	"context"
	"fmt"
	"math/rand/v2"

	"birdsong-quiz/internal/domain"
)

// RecordingSampler picks the recordings played in a quiz
type RecordingSampler interface {
	// SampleRecordings returns exactly one recording per species, chosen uniformly
	// among that species' recordings, in the order of the input species.
	SampleRecordings(ctx context.Context, rng *rand.Rand, species []*domain.Species) ([]*domain.Recording, error)
}

type recordingSampler struct {
	recordingRepo domain.RecordingRepository
}

// NewRecordingSampler creates a new instance of recordingSampler
func NewRecordingSampler(recordingRepo domain.RecordingRepository) RecordingSampler {
	return &recordingSampler{recordingRepo: recordingRepo}
}

// SampleRecordings implements RecordingSampler
func (s *recordingSampler) SampleRecordings(ctx context.Context, rng *rand.Rand, species []*domain.Species) ([]*domain.Recording, error) {
	if len(species) == 0 {
		return []*domain.Recording{}, nil
	}

	ids := make([]int64, 0, len(species))
	for _, sp := range species {
		ids = append(ids, sp.ID)
	}
	recordings, err := s.recordingRepo.ListBySpeciesIDs(ctx, ids)
	if err != nil {
		return nil, domain.NewInternalError("failed to list recordings", err)
	}

	bySpecies := make(map[int64][]*domain.Recording, len(species))
	for _, r := range recordings {
		bySpecies[r.SpeciesID] = append(bySpecies[r.SpeciesID], r)
	}

	sampled := make([]*domain.Recording, 0, len(species))
	for _, sp := range species {
		candidates := bySpecies[sp.ID]
		if len(candidates) == 0 {
			return nil, domain.NewInsufficientDataError(
				fmt.Sprintf("species %s has no recordings", sp.ScientificName), 0, 1).
				WithContext("species_id", sp.ID)
		}
		sampled = append(sampled, candidates[rng.IntN(len(candidates))])
	}
	return sampled, nil
}
