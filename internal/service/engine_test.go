package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"sort"
	"strings"
	"testing"

	"birdsong-quiz/internal/domain"
	"birdsong-quiz/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func seededRand() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func TestIsCorrectAnswer(t *testing.T) {
	sp := testSpecies(1, "Great Tit", "Talitiainen", "Parus major")

	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{"exact english", "Great Tit", true},
		{"case folded", "great tit", true},
		{"surrounding whitespace", "  GREAT TIT\t", true},
		{"finnish name", "talitiainen", true},
		{"scientific name", "parus MAJOR", true},
		{"blank", "   ", false},
		{"empty", "", false},
		{"other species", "Blue Tit", false},
		{"partial", "Great", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCorrectAnswer(tt.answer, sp))
		})
	}

	assert.False(t, IsCorrectAnswer("Great Tit", nil))
}

func TestIsCorrectAnswer_UnicodeFolding(t *testing.T) {
	sp := testSpecies(9, "Eurasian Jay", "Närhi", "Garrulus glandarius")
	assert.True(t, IsCorrectAnswer("NÄRHI", sp))
	// Decomposed a + combining diaeresis.
	assert.True(t, IsCorrectAnswer("na\u0308rhi", sp))

	sharp := testSpecies(10, "Straße Bird", "", "Avis strassea")
	assert.True(t, IsCorrectAnswer("STRASSE BIRD", sharp))
}

func TestBuildChoices(t *testing.T) {
	pool := fixtureSpecies()
	target := pool[0]

	t.Run("random mode", func(t *testing.T) {
		choices, err := BuildChoices(seededRand(), target, pool, 3, domain.ChoiceModeRandom, domain.LocaleEN)
		require.NoError(t, err)
		assert.Len(t, choices, 4)
		assert.Contains(t, choices, "Great Tit")

		seen := map[string]bool{}
		for _, c := range choices {
			assert.False(t, seen[c], "duplicate choice %s", c)
			seen[c] = true
		}
	})

	t.Run("localized names", func(t *testing.T) {
		choices, err := BuildChoices(seededRand(), target, pool, 4, domain.ChoiceModeRandom, domain.LocaleFI)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Talitiainen", "Sinitiainen", "Peippo", "Mustarastas", "Punarinta"}, choices)
	})

	t.Run("falls back to default locale", func(t *testing.T) {
		noFinnish := []*domain.Species{
			testSpecies(1, "Great Tit", "", "Parus major"),
			testSpecies(2, "Blue Tit", "", "Cyanistes caeruleus"),
		}
		choices, err := BuildChoices(seededRand(), noFinnish[0], noFinnish, 1, domain.ChoiceModeRandom, domain.LocaleFI)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Great Tit", "Blue Tit"}, choices)
	})

	t.Run("target excluded from distractors", func(t *testing.T) {
		duplicate := append([]*domain.Species{target}, pool...)
		for i := 0; i < 20; i++ {
			choices, err := BuildChoices(seqRand(i), target, duplicate, 4, domain.ChoiceModeRandom, domain.LocaleEN)
			require.NoError(t, err)
			count := 0
			for _, c := range choices {
				if c == "Great Tit" {
					count++
				}
			}
			assert.Equal(t, 1, count)
		}
	})

	t.Run("pool too small", func(t *testing.T) {
		_, err := BuildChoices(seededRand(), target, pool[:3], 3, domain.ChoiceModeRandom, domain.LocaleEN)
		assert.True(t, domain.HasCode(err, domain.CodeInsufficientData))
	})

	t.Run("taxonomic mode not supported", func(t *testing.T) {
		_, err := BuildChoices(seededRand(), target, pool, 3, domain.ChoiceModeTaxonomic, domain.LocaleEN)
		assert.True(t, domain.HasCode(err, domain.CodeInvalidMode))
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := BuildChoices(seededRand(), target, pool, 3, domain.ChoiceMode("alphabetical"), domain.LocaleEN)
		assert.True(t, domain.HasCode(err, domain.CodeInvalidMode))
	})
}

func TestBuildChoices_VariesAcrossCalls(t *testing.T) {
	pool := fixtureSpecies()
	target := pool[0]
	const calls = 200

	collect := func(next func() *rand.Rand) (orders, sets map[string]bool) {
		orders, sets = map[string]bool{}, map[string]bool{}
		for i := 0; i < calls; i++ {
			choices, err := BuildChoices(next(), target, pool, 2, domain.ChoiceModeRandom, domain.LocaleEN)
			require.NoError(t, err)
			require.Len(t, choices, 3)
			require.Contains(t, choices, "Great Tit")
			orders[strings.Join(choices, "|")] = true

			distractors := make([]string, 0, 2)
			for _, c := range choices {
				if c != "Great Tit" {
					distractors = append(distractors, c)
				}
			}
			sort.Strings(distractors)
			sets[strings.Join(distractors, "|")] = true
		}
		return orders, sets
	}

	t.Run("one source", func(t *testing.T) {
		rng := util.NewRand()
		orders, sets := collect(func() *rand.Rand { return rng })
		assert.Greater(t, len(orders), 1)
		assert.Greater(t, len(sets), 1)
	})

	t.Run("source per session", func(t *testing.T) {
		orders, sets := collect(util.NewRand)
		assert.Greater(t, len(orders), 1)
		assert.Greater(t, len(sets), 1)
	})
}

func seqRand(seed int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)*31+1))
}

func TestListAvailableRegions_Ordering(t *testing.T) {
	ctx := context.Background()
	regions := []*domain.Region{
		{ID: 1, Code: "Z", Names: domain.LocalizedNames{EN: "zeta", FI: "Zeta"}},
		{ID: 2, Code: "A", Names: domain.LocalizedNames{EN: "Ähtäri", FI: "Ähtäri"}},
		{ID: 3, Code: "O", Names: domain.LocalizedNames{EN: "Oulu", FI: "Oulu"}},
	}

	t.Run("english", func(t *testing.T) {
		repo := new(MockRegionRepository)
		repo.On("ListWithObservations", ctx).Return(append([]*domain.Region(nil), regions...), nil)

		got, err := NewRegionService(repo).ListAvailableRegions(ctx, domain.LocaleEN)
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 3, 1}, regionIDs(got))
		repo.AssertExpectations(t)
	})

	t.Run("finnish sorts umlauts last", func(t *testing.T) {
		repo := new(MockRegionRepository)
		repo.On("ListWithObservations", ctx).Return(append([]*domain.Region(nil), regions...), nil)

		got, err := NewRegionService(repo).ListAvailableRegions(ctx, domain.LocaleFI)
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 1, 2}, regionIDs(got))
	})

	t.Run("ancestor chain is part of the sort key", func(t *testing.T) {
		finland := &domain.Region{ID: 10, Code: "FI", Names: domain.LocalizedNames{EN: "Finland"}}
		aland := &domain.Region{ID: 11, Code: "AX", Names: domain.LocalizedNames{EN: "Aland"}}
		uusimaa := &domain.Region{ID: 12, Code: "FI-18", Names: domain.LocalizedNames{EN: "Uusimaa"}, Parent: finland}
		repo := new(MockRegionRepository)
		repo.On("ListWithObservations", ctx).Return([]*domain.Region{uusimaa, finland, aland}, nil)

		got, err := NewRegionService(repo).ListAvailableRegions(ctx, domain.LocaleEN)
		require.NoError(t, err)
		assert.Equal(t, []int64{11, 10, 12}, regionIDs(got))
	})

	t.Run("empty is valid", func(t *testing.T) {
		repo := new(MockRegionRepository)
		repo.On("ListWithObservations", ctx).Return([]*domain.Region{}, nil)

		got, err := NewRegionService(repo).ListAvailableRegions(ctx, domain.LocaleEN)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockRegionRepository)
		repo.On("ListWithObservations", ctx).Return(nil, errors.New("db down"))

		_, err := NewRegionService(repo).ListAvailableRegions(ctx, domain.LocaleEN)
		assert.True(t, domain.HasCode(err, domain.CodeInternal))
	})
}

func regionIDs(regions []*domain.Region) []int64 {
	ids := make([]int64, 0, len(regions))
	for _, r := range regions {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestSpeciesForRegion(t *testing.T) {
	ctx := context.Background()
	region := &domain.Region{ID: 5, Code: "FI"}
	pool := fixtureSpecies()

	t.Run("distinct species", func(t *testing.T) {
		regionRepo := new(MockRegionRepository)
		speciesRepo := new(MockSpeciesRepository)
		regionRepo.On("GetByID", ctx, int64(5)).Return(region, nil)
		speciesRepo.On("ListForRegion", ctx, int64(5)).Return(append(pool, pool[0], pool[1]), nil)

		got, err := NewSpeciesSelector(regionRepo, speciesRepo).SpeciesForRegion(ctx, 5, false)
		require.NoError(t, err)
		assert.Len(t, got, len(pool))
		speciesRepo.AssertNotCalled(t, "ListBeginnerForRegion", mock.Anything, mock.Anything)
	})

	t.Run("beginner only", func(t *testing.T) {
		regionRepo := new(MockRegionRepository)
		speciesRepo := new(MockSpeciesRepository)
		regionRepo.On("GetByID", ctx, int64(5)).Return(region, nil)
		speciesRepo.On("ListBeginnerForRegion", ctx, int64(5)).Return(pool[:2], nil)

		got, err := NewSpeciesSelector(regionRepo, speciesRepo).SpeciesForRegion(ctx, 5, true)
		require.NoError(t, err)
		assert.Equal(t, pool[:2], got)
		speciesRepo.AssertNotCalled(t, "ListForRegion", mock.Anything, mock.Anything)
	})

	t.Run("unknown region", func(t *testing.T) {
		regionRepo := new(MockRegionRepository)
		speciesRepo := new(MockSpeciesRepository)
		regionRepo.On("GetByID", ctx, int64(404)).Return(nil, nil)

		_, err := NewSpeciesSelector(regionRepo, speciesRepo).SpeciesForRegion(ctx, 404, false)
		assert.True(t, domain.HasCode(err, domain.CodeNotFound))
	})
}

func TestSampleRecordings(t *testing.T) {
	ctx := context.Background()
	species := fixtureSpecies()[:3]

	t.Run("one recording per species in input order", func(t *testing.T) {
		repo := new(MockRecordingRepository)
		repo.On("ListBySpeciesIDs", ctx, []int64{1, 2, 3}).Return(recordingsFor(species, 4), nil)

		got, err := NewRecordingSampler(repo).SampleRecordings(ctx, seededRand(), species)
		require.NoError(t, err)
		require.Len(t, got, 3)
		for i, rec := range got {
			assert.Equal(t, species[i].ID, rec.SpeciesID)
		}
	})

	t.Run("every recording can be picked", func(t *testing.T) {
		repo := new(MockRecordingRepository)
		repo.On("ListBySpeciesIDs", ctx, []int64{1}).Return(recordingsFor(species[:1], 3), nil)
		sampler := NewRecordingSampler(repo)
		rng := seededRand()

		picked := map[int64]bool{}
		for i := 0; i < 200; i++ {
			got, err := sampler.SampleRecordings(ctx, rng, species[:1])
			require.NoError(t, err)
			picked[got[0].ID] = true
		}
		assert.Len(t, picked, 3)
	})

	t.Run("species without recordings", func(t *testing.T) {
		repo := new(MockRecordingRepository)
		repo.On("ListBySpeciesIDs", ctx, []int64{1, 2, 3}).Return(recordingsFor(species[:2], 1), nil)

		_, err := NewRecordingSampler(repo).SampleRecordings(ctx, seededRand(), species)
		assert.True(t, domain.HasCode(err, domain.CodeInsufficientData))
	})

	t.Run("empty input", func(t *testing.T) {
		repo := new(MockRecordingRepository)
		got, err := NewRecordingSampler(repo).SampleRecordings(ctx, seededRand(), nil)
		require.NoError(t, err)
		assert.Empty(t, got)
		repo.AssertNotCalled(t, "ListBySpeciesIDs", mock.Anything, mock.Anything)
	})
}
