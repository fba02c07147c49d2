package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	key := GenerateCacheKey("topics", "list", "all")
	assert.Equal(t, "quizforge:topics:list:all", key)
}

func TestGenerateCacheKeyWithParams(t *testing.T) {
	key := GenerateCacheKey("questions", "set", "sub1", "limit", "5")
	assert.Equal(t, "quizforge:questions:set:sub1:limit_5", key)
}

func TestWellKnownKeys(t *testing.T) {
	assert.Equal(t, "quizforge:topics:list:all", TopicListKey())
	assert.Equal(t, "quizforge:topics:subtopics:t1", SubTopicListKey("t1"))
	assert.Equal(t, "quizforge:streak:summary:default", StreakKey("default"))
}
