package service

import (
	"fmt"
	"math/rand/v2"

	"birdsong-quiz/internal/domain"
	"birdsong-quiz/internal/util"
)

// BuildChoices returns the target's name in locale together with numChoices distinct
// distractor names drawn from pool, shuffled. The target itself is never a distractor.
func BuildChoices(
	rng *rand.Rand,
	target *domain.Species,
	pool []*domain.Species,
	numChoices int,
	mode domain.ChoiceMode,
	locale domain.Locale,
) ([]string, error) {
	switch mode {
	case domain.ChoiceModeRandom:
	case domain.ChoiceModeTaxonomic:
		// TODO: pick distractors from the target's family and genus once taxonomy ranks are populated by the importer.
		return nil, domain.NewInvalidModeError("taxonomic choice mode is not supported")
	default:
		return nil, domain.NewInvalidModeError(fmt.Sprintf("unknown choice mode: %s", mode))
	}
	if target == nil {
		return nil, domain.NewInvalidInputError("target species is required")
	}
	if numChoices < 0 {
		return nil, domain.NewInvalidInputError("number of choices cannot be negative")
	}

	correct := target.DisplayName(locale)
	seen := map[string]bool{correct: true}
	candidates := make([]string, 0, len(pool))
	for _, sp := range pool {
		if sp == nil || sp.ID == target.ID {
			continue
		}
		name := sp.DisplayName(locale)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		candidates = append(candidates, name)
	}
	if len(candidates) < numChoices {
		return nil, domain.NewInsufficientDataError("not enough species to build distractors", len(candidates), numChoices)
	}

	choices := make([]string, 0, numChoices+1)
	choices = append(choices, correct)
	choices = append(choices, util.Sample(rng, candidates, numChoices)...)
	rng.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices, nil
}
