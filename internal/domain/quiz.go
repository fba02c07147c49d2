package domain

import (
	"strings"
	"time"
)

// Default filing names used when neither the caller nor the model proposed
// topic/sub-topic names for a generated batch.
const (
	DefaultTopicName    = "General"
	DefaultSubTopicName = "Misc"
)

// Topic is the root of the two-level subject hierarchy.
type Topic struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTopic creates a new Topic instance with a normalized name.
func NewTopic(name string) *Topic {
	now := time.Now()
	return &Topic{
		Name:      NormalizeName(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SubTopic groups questions under a single Topic. A generation batch may fan
// out into several sub-topics but always exactly one topic.
type SubTopic struct {
	ID        string
	TopicID   string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSubTopic creates a new SubTopic instance under the given topic.
func NewSubTopic(topicID, name string) *SubTopic {
	now := time.Now()
	return &SubTopic{
		TopicID:   topicID,
		Name:      NormalizeName(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Question is a single multiple-choice item. It always belongs to exactly one
// sub-topic; choices are owned by the question and cascade with it.
type Question struct {
	ID           string
	SubTopicID   string
	QuestionText string
	Explanation  string
	ImageURL     string
	CreatedAt    time.Time
	Choices      []*Choice
}

// Choice is one answer option of a question.
type Choice struct {
	ID         string
	QuestionID string
	ChoiceText string
	IsCorrect  bool
}

// CorrectChoice returns the choice flagged correct, or nil when the question
// violates the single-correct invariant.
func (q *Question) CorrectChoice() *Choice {
	for _, c := range q.Choices {
		if c.IsCorrect {
			return c
		}
	}
	return nil
}

// Validate checks the persisted-question invariant: at least two choices and
// exactly one of them correct.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.QuestionText) == "" {
		return NewInvalidInputError("question text is required")
	}
	if len(q.Choices) < 2 {
		return NewInvalidInputError("a question needs at least two choices")
	}
	correct := 0
	for _, c := range q.Choices {
		if c.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return NewInvalidInputError("a question needs exactly one correct choice")
	}
	return nil
}

// UserAnswer is one row of the append-only practice log. ChoiceID may become
// empty later if the referenced choice is deleted; the event itself is never
// updated or removed.
type UserAnswer struct {
	ID         string
	UserID     string
	QuestionID string
	ChoiceID   string
	IsCorrect  bool
	AnsweredAt time.Time
}

// NewUserAnswer creates a log entry stamped with the current time.
func NewUserAnswer(userID, questionID, choiceID string, isCorrect bool) *UserAnswer {
	return &UserAnswer{
		UserID:     userID,
		QuestionID: questionID,
		ChoiceID:   choiceID,
		IsCorrect:  isCorrect,
		AnsweredAt: time.Now(),
	}
}

// NormalizeName trims surrounding whitespace from a topic or sub-topic name.
// Case folding for uniqueness lookups is a repository concern, controlled by
// configuration.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
