package cache

import "strings"

const (
	GlobalKeyPrefix = "birdsong"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// QuizSessionKey is the hash holding an in-progress quiz session.
func QuizSessionKey(sessionID string) string {
	return GenerateCacheKey("quiz", "session", sessionID)
}

// QuizResultKey caches the localized result of a scored quiz.
func QuizResultKey(quizID, locale string) string {
	return GenerateCacheKey("quiz", "result", quizID, locale)
}
