package domain

import (
	"context"
	"time"
)

// TopicRepository persists the topic/sub-topic hierarchy. Upserts are
// idempotent: re-running generation with the same hint reuses the existing
// rows instead of creating duplicates.
type TopicRepository interface {
	// UpsertTopic finds a topic by normalized name or creates it. When
	// caseInsensitive is set, the lookup folds case before matching.
	UpsertTopic(ctx context.Context, name string, caseInsensitive bool) (*Topic, error)
	// UpsertSubTopic finds or creates a sub-topic under the given topic.
	UpsertSubTopic(ctx context.Context, topicID, name string) (*SubTopic, error)
	ListTopics(ctx context.Context) ([]*Topic, error)
	ListSubTopics(ctx context.Context, topicID string) ([]*SubTopic, error)
}

// QuestionRepository persists questions with their choices and serves the
// selection queries. Selection is a pure read.
type QuestionRepository interface {
	// SaveQuestion inserts the question and all of its choices.
	SaveQuestion(ctx context.Context, question *Question) error
	// UnseenQuestionIDs returns up to limit question IDs the user has never
	// answered, in random order. An empty subTopicID spans the whole corpus.
	UnseenQuestionIDs(ctx context.Context, userID, subTopicID string, limit int) ([]string, error)
	// FillQuestionIDs returns up to limit random question IDs regardless of
	// answer history, excluding the given IDs. An empty subTopicID spans the
	// whole corpus.
	FillQuestionIDs(ctx context.Context, subTopicID string, exclude []string, limit int) ([]string, error)
	// GetQuestionsWithChoices loads full question records for the given IDs.
	GetQuestionsWithChoices(ctx context.Context, ids []string) ([]*Question, error)
	// GetChoices loads the choices of one question.
	GetChoices(ctx context.Context, questionID string) ([]*Choice, error)
}

// AnswerRepository is the append-only practice log.
type AnswerRepository interface {
	SaveAnswer(ctx context.Context, answer *UserAnswer) error
	// AnswerTimesSince returns the raw answer timestamps for one user from
	// the given instant onward. Calendar bucketing happens in the caller so
	// the timezone rule lives in exactly one place.
	AnswerTimesSince(ctx context.Context, userID string, since time.Time) ([]time.Time, error)
}
