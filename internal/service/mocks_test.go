package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"birdsong-quiz/internal/config"
	"birdsong-quiz/internal/domain"
	"birdsong-quiz/internal/logger"

	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "error"}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	goleak.VerifyTestMain(m)
}

// --- MockRegionRepository ---
type MockRegionRepository struct {
	mock.Mock
}

func (m *MockRegionRepository) ListWithObservations(ctx context.Context) ([]*domain.Region, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Region), args.Error(1)
}

func (m *MockRegionRepository) GetByID(ctx context.Context, id int64) (*domain.Region, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Region), args.Error(1)
}

func (m *MockRegionRepository) GetByCode(ctx context.Context, code string) (*domain.Region, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Region), args.Error(1)
}

func (m *MockRegionRepository) Upsert(ctx context.Context, region *domain.Region) error {
	return m.Called(ctx, region).Error(0)
}

// --- MockSpeciesRepository ---
type MockSpeciesRepository struct {
	mock.Mock
}

func (m *MockSpeciesRepository) speciesResult(args mock.Arguments) ([]*domain.Species, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Species), args.Error(1)
}

func (m *MockSpeciesRepository) ListForRegion(ctx context.Context, regionID int64) ([]*domain.Species, error) {
	return m.speciesResult(m.Called(ctx, regionID))
}

func (m *MockSpeciesRepository) ListBeginnerForRegion(ctx context.Context, regionID int64) ([]*domain.Species, error) {
	return m.speciesResult(m.Called(ctx, regionID))
}

func (m *MockSpeciesRepository) ListObservedInRegions(ctx context.Context, regionIDs []int64) ([]*domain.Species, error) {
	return m.speciesResult(m.Called(ctx, regionIDs))
}

func (m *MockSpeciesRepository) ListAll(ctx context.Context) ([]*domain.Species, error) {
	return m.speciesResult(m.Called(ctx))
}

func (m *MockSpeciesRepository) GetByCode(ctx context.Context, code string) (*domain.Species, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Species), args.Error(1)
}

func (m *MockSpeciesRepository) Upsert(ctx context.Context, species *domain.Species) error {
	return m.Called(ctx, species).Error(0)
}

// --- MockRecordingRepository ---
type MockRecordingRepository struct {
	mock.Mock
}

func (m *MockRecordingRepository) ListBySpeciesIDs(ctx context.Context, speciesIDs []int64) ([]*domain.Recording, error) {
	args := m.Called(ctx, speciesIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Recording), args.Error(1)
}

func (m *MockRecordingRepository) GetByID(ctx context.Context, id int64) (*domain.Recording, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recording), args.Error(1)
}

func (m *MockRecordingRepository) CountBySpecies(ctx context.Context, speciesID int64) (int, error) {
	args := m.Called(ctx, speciesID)
	return args.Int(0), args.Error(1)
}

func (m *MockRecordingRepository) Save(ctx context.Context, recording *domain.Recording) error {
	return m.Called(ctx, recording).Error(0)
}

// --- MockObservationRepository ---
type MockObservationRepository struct {
	mock.Mock
}

func (m *MockObservationRepository) Upsert(ctx context.Context, speciesID, regionID int64) error {
	return m.Called(ctx, speciesID, regionID).Error(0)
}

func (m *MockObservationRepository) GetByID(ctx context.Context, id int64) (*domain.Observation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Observation), args.Error(1)
}

func (m *MockObservationRepository) ListUnannotated(ctx context.Context, regionID int64, userID string) ([]*domain.Observation, error) {
	args := m.Called(ctx, regionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Observation), args.Error(1)
}

func (m *MockObservationRepository) SaveAnnotation(ctx context.Context, annotation *domain.ObservationAnnotation) (bool, error) {
	args := m.Called(ctx, annotation)
	return args.Bool(0), args.Error(1)
}

func (m *MockObservationRepository) SetOccurrenceType(ctx context.Context, observationID int64, occurrenceType domain.OccurrenceType) error {
	return m.Called(ctx, observationID, occurrenceType).Error(0)
}

// --- MockQuizRepository ---
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	return m.Called(ctx, quiz).Error(0)
}

func (m *MockQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) ListAnswerDetails(ctx context.Context, quizID string) ([]*domain.AnswerDetail, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AnswerDetail), args.Error(1)
}

func (m *MockQuizRepository) ListQuizIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockQuizRepository) UpdateAnswerCorrectness(ctx context.Context, answerID string, correct bool) error {
	return m.Called(ctx, answerID, correct).Error(0)
}

func (m *MockQuizRepository) UpdateScore(ctx context.Context, quizID string, score int) error {
	return m.Called(ctx, quizID, score).Error(0)
}

// passthroughTxManager runs fn directly and counts transactions.
type passthroughTxManager struct {
	mu    sync.Mutex
	count int
}

func (m *passthroughTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.count++
	m.mu.Unlock()
	return fn(ctx)
}

// memoryCache is an in-process domain.Cache. Expirations are recorded, not enforced.
type memoryCache struct {
	mu          sync.Mutex
	values      map[string]string
	hashes      map[string]map[string]string
	expirations map[string]time.Duration
	deleteErr   error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		values:      map[string]string{},
		hashes:      map[string]map[string]string{},
		expirations: map[string]time.Duration{},
	}
}

func (c *memoryCache) expiration(key string) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ttl, ok := c.expirations[key]
	return ttl, ok
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleteErr != nil {
		return c.deleteErr
	}
	delete(c.values, key)
	delete(c.hashes, key)
	return nil
}

func (c *memoryCache) Ping(ctx context.Context) error { return nil }

func (c *memoryCache) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.hashes[key]
	if !ok || len(h) == 0 {
		return nil, domain.ErrCacheMiss
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out, nil
}

func (c *memoryCache) HSet(ctx context.Context, key string, field string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hashes[key] == nil {
		c.hashes[key] = map[string]string{}
	}
	c.hashes[key][field] = value
	return nil
}

func (c *memoryCache) HSetNX(ctx context.Context, key string, field string, value string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hashes[key] == nil {
		c.hashes[key] = map[string]string{}
	}
	if _, ok := c.hashes[key][field]; ok {
		return false, nil
	}
	c.hashes[key][field] = value
	return true, nil
}

func (c *memoryCache) HDel(ctx context.Context, key string, fields ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range fields {
		delete(c.hashes[key], f)
	}
	return nil
}

func (c *memoryCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expirations[key] = expiration
	return nil
}

func testSpecies(id int64, en, fi, scientific string) *domain.Species {
	return &domain.Species{
		ID:             id,
		ScientificName: scientific,
		Names:          domain.LocalizedNames{EN: en, FI: fi},
	}
}

func fixtureSpecies() []*domain.Species {
	return []*domain.Species{
		testSpecies(1, "Great Tit", "Talitiainen", "Parus major"),
		testSpecies(2, "Blue Tit", "Sinitiainen", "Cyanistes caeruleus"),
		testSpecies(3, "Common Chaffinch", "Peippo", "Fringilla coelebs"),
		testSpecies(4, "Eurasian Blackbird", "Mustarastas", "Turdus merula"),
		testSpecies(5, "European Robin", "Punarinta", "Erithacus rubecula"),
	}
}

func recordingsFor(species []*domain.Species, perSpecies int) []*domain.Recording {
	var recordings []*domain.Recording
	for _, sp := range species {
		for i := 0; i < perSpecies; i++ {
			id := sp.ID*100 + int64(i)
			recordings = append(recordings, &domain.Recording{
				ID:        id,
				SpeciesID: sp.ID,
				AudioURL:  "https://xeno-canto.org/" + sp.ScientificName,
				Audio:     sp.ScientificName + ".mp3",
			})
		}
	}
	return recordings
}
