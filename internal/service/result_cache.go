package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"birdsong-quiz/internal/cache"
	"birdsong-quiz/internal/domain"

	"github.com/goccy/go-json"
)

// ErrQuizResultNotFound is returned when a cached result is not found.
var ErrQuizResultNotFound = errors.New("quiz result not found in cache")

// QuizResultCache caches localized results of scored quizzes.
type QuizResultCache interface {
	Put(ctx context.Context, locale domain.Locale, result *domain.QuizResult) error
	Get(ctx context.Context, quizID string, locale domain.Locale) (*domain.QuizResult, error)

	// Invalidate drops the cached result of quizID in every locale.
	Invalidate(ctx context.Context, quizID string) error
}

type quizResultCache struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewQuizResultCache creates a new instance of quizResultCache. A nil cache yields a no-op.
func NewQuizResultCache(c domain.Cache, ttl time.Duration) QuizResultCache {
	if c == nil {
		return &noopQuizResultCache{}
	}
	return &quizResultCache{cache: c, ttl: ttl}
}

// Put stores the result of a scored quiz for locale.
func (s *quizResultCache) Put(ctx context.Context, locale domain.Locale, result *domain.QuizResult) error {
	if result == nil {
		return domain.NewInvalidInputError("cannot cache nil result")
	}
	key := cache.QuizResultKey(result.QuizID, string(locale))
	data, err := json.Marshal(result)
	if err != nil {
		return domain.NewInternalError("failed to marshal result for caching", err)
	}
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to set quiz result to cache for key %s", key), err)
	}
	return nil
}

// Get retrieves a cached result.
func (s *quizResultCache) Get(ctx context.Context, quizID string, locale domain.Locale) (*domain.QuizResult, error) {
	key := cache.QuizResultKey(quizID, string(locale))
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, ErrQuizResultNotFound
		}
		return nil, domain.NewInternalError(fmt.Sprintf("failed to get quiz result from cache for key %s", key), err)
	}
	if data == "" {
		return nil, ErrQuizResultNotFound
	}

	var result domain.QuizResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("failed to unmarshal quiz result from cache for key %s", key), err)
	}
	return &result, nil
}

// Invalidate implements QuizResultCache
func (s *quizResultCache) Invalidate(ctx context.Context, quizID string) error {
	for _, locale := range domain.SupportedLocales() {
		key := cache.QuizResultKey(quizID, string(locale))
		if err := s.cache.Delete(ctx, key); err != nil {
			return domain.NewInternalError(fmt.Sprintf("failed to invalidate quiz result for key %s", key), err)
		}
	}
	return nil
}

type noopQuizResultCache struct{}

func (s *noopQuizResultCache) Put(ctx context.Context, locale domain.Locale, result *domain.QuizResult) error {
	return nil
}

func (s *noopQuizResultCache) Get(ctx context.Context, quizID string, locale domain.Locale) (*domain.QuizResult, error) {
	return nil, ErrQuizResultNotFound
}

func (s *noopQuizResultCache) Invalidate(ctx context.Context, quizID string) error {
	return nil
}
