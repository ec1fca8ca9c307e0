package cache

import "strings"

// GlobalKeyPrefix namespaces every cache key written by this service.
const GlobalKeyPrefix = "quizforge"

// Key segments for the cached read models.
const (
	KeyQuiz          = "quiz"
	KeySessionStatus = "session_status"
	KeyTopics        = "topics"
)

// GenerateCacheKey joins the global prefix and the given parts with ":".
func GenerateCacheKey(parts ...string) string {
	all := append([]string{GlobalKeyPrefix}, parts...)
	return strings.Join(all, ":")
}

// QuizKey is the cache key for an assembled quiz payload.
func QuizKey(tenantID, quizID string) string {
	return GenerateCacheKey(KeyQuiz, tenantID, quizID)
}

// SessionStatusKey is the cache key for a session status snapshot.
func SessionStatusKey(sessionID string) string {
	return GenerateCacheKey(KeySessionStatus, sessionID)
}

// TopicsKey is the cache key for a tenant's active topic list.
func TopicsKey(tenantID string) string {
	return GenerateCacheKey(KeyTopics, tenantID)
}
