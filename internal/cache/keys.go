package cache

import "strings"

const (
	GlobalKeyPrefix = "quizforge"
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

// TopicListKey is the cache key for the full topic listing. It is invalidated
// whenever a generation batch lands.
func TopicListKey() string {
	return GenerateCacheKey("topics", "list", "all")
}

// SubTopicListKey is the cache key for the sub-topics of one topic.
func SubTopicListKey(topicID string) string {
	return GenerateCacheKey("topics", "subtopics", topicID)
}

// StreakKey is the cache key for a user's streak summary. It is invalidated
// by every successful answer-log write.
func StreakKey(userID string) string {
	return GenerateCacheKey("streak", "summary", userID)
}
