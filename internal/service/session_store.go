package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"birdsong-quiz/internal/cache"
	"birdsong-quiz/internal/domain"

	"github.com/goccy/go-json"
)

const (
	sessionField      = "session"
	quizIDField       = "quiz_id"
	answerFieldPrefix = "answer:"
)

// SessionStore keeps in-progress quiz sessions in a Redis hash per session.
// Each answer lives in its own field so concurrent submissions never overwrite each other.
type SessionStore interface {
	Create(ctx context.Context, session *domain.QuizSession) error

	// Load returns a NotFound error when the session is unknown or expired.
	Load(ctx context.Context, sessionID string) (*domain.QuizSession, error)

	// RecordAnswer stores the answer unless one already exists for the recording
	// and reports whether it was stored. Writes renew the session expiry, so a hash
	// recreated after the session expired never outlives the TTL.
	RecordAnswer(ctx context.Context, sessionID string, answer *domain.SubmittedAnswer) (bool, error)

	// ClaimScoring marks the session as scored by quizID. Only the first caller wins.
	ClaimScoring(ctx context.Context, sessionID, quizID string) (bool, error)

	// ReleaseScoring undoes a claim whose quiz could not be persisted.
	ReleaseScoring(ctx context.Context, sessionID string) error
}

type sessionStore struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewSessionStore creates a new instance of sessionStore
func NewSessionStore(c domain.Cache, ttl time.Duration) SessionStore {
	return &sessionStore{cache: c, ttl: ttl}
}

func answerField(recordingID int64) string {
	return answerFieldPrefix + strconv.FormatInt(recordingID, 10)
}

// Create implements SessionStore
func (s *sessionStore) Create(ctx context.Context, session *domain.QuizSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return domain.NewInternalError("failed to marshal quiz session", err)
	}
	key := cache.QuizSessionKey(session.ID)
	if err := s.cache.HSet(ctx, key, sessionField, string(data)); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to store quiz session %s", session.ID), err)
	}
	return s.touch(ctx, key, session.ID)
}

// Load implements SessionStore
func (s *sessionStore) Load(ctx context.Context, sessionID string) (*domain.QuizSession, error) {
	fields, err := s.cache.HGetAll(ctx, cache.QuizSessionKey(sessionID))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.NewNotFoundError(fmt.Sprintf("quiz session not found with ID: %s", sessionID)).
				WithContext("session_id", sessionID)
		}
		return nil, domain.NewInternalError(fmt.Sprintf("failed to load quiz session %s", sessionID), err)
	}

	raw, ok := fields[sessionField]
	if !ok {
		// Only stray answer fields survived; the session itself is gone.
		return nil, domain.NewNotFoundError(fmt.Sprintf("quiz session not found with ID: %s", sessionID)).
			WithContext("session_id", sessionID)
	}
	var session domain.QuizSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("failed to unmarshal quiz session %s", sessionID), err)
	}

	session.Answers = make(map[int64]*domain.SubmittedAnswer)
	for field, value := range fields {
		switch {
		case field == quizIDField:
			session.QuizID = value
		case strings.HasPrefix(field, answerFieldPrefix):
			var answer domain.SubmittedAnswer
			if err := json.Unmarshal([]byte(value), &answer); err != nil {
				return nil, domain.NewInternalError(fmt.Sprintf("failed to unmarshal answer %s of session %s", field, sessionID), err)
			}
			session.Answers[answer.RecordingID] = &answer
		}
	}
	return &session, nil
}

// RecordAnswer implements SessionStore
func (s *sessionStore) RecordAnswer(ctx context.Context, sessionID string, answer *domain.SubmittedAnswer) (bool, error) {
	data, err := json.Marshal(answer)
	if err != nil {
		return false, domain.NewInternalError("failed to marshal answer", err)
	}
	key := cache.QuizSessionKey(sessionID)
	stored, err := s.cache.HSetNX(ctx, key, answerField(answer.RecordingID), string(data))
	if err != nil {
		return false, domain.NewInternalError(fmt.Sprintf("failed to record answer in session %s", sessionID), err)
	}
	if err := s.touch(ctx, key, sessionID); err != nil {
		return false, err
	}
	return stored, nil
}

// ClaimScoring implements SessionStore
func (s *sessionStore) ClaimScoring(ctx context.Context, sessionID, quizID string) (bool, error) {
	key := cache.QuizSessionKey(sessionID)
	claimed, err := s.cache.HSetNX(ctx, key, quizIDField, quizID)
	if err != nil {
		return false, domain.NewInternalError(fmt.Sprintf("failed to claim scoring of session %s", sessionID), err)
	}
	if err := s.touch(ctx, key, sessionID); err != nil {
		return false, err
	}
	return claimed, nil
}

func (s *sessionStore) touch(ctx context.Context, key, sessionID string) error {
	if s.ttl <= 0 {
		return nil
	}
	if err := s.cache.Expire(ctx, key, s.ttl); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to set expiry of quiz session %s", sessionID), err)
	}
	return nil
}

// ReleaseScoring implements SessionStore
func (s *sessionStore) ReleaseScoring(ctx context.Context, sessionID string) error {
	if err := s.cache.HDel(ctx, cache.QuizSessionKey(sessionID), quizIDField); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to release scoring of session %s", sessionID), err)
	}
	return nil
}
