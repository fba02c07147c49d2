package service

import (
	"context"
	"time"

	"quizforge/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockTopicRepository struct {
	mock.Mock
}

func (m *MockTopicRepository) UpsertTopic(ctx context.Context, name string, caseInsensitive bool) (*domain.Topic, error) {
	args := m.Called(ctx, name, caseInsensitive)
	if topic := args.Get(0); topic != nil {
		return topic.(*domain.Topic), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTopicRepository) UpsertSubTopic(ctx context.Context, topicID, name string) (*domain.SubTopic, error) {
	args := m.Called(ctx, topicID, name)
	if subTopic := args.Get(0); subTopic != nil {
		return subTopic.(*domain.SubTopic), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTopicRepository) ListTopics(ctx context.Context) ([]*domain.Topic, error) {
	args := m.Called(ctx)
	if topics := args.Get(0); topics != nil {
		return topics.([]*domain.Topic), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTopicRepository) ListSubTopics(ctx context.Context, topicID string) ([]*domain.SubTopic, error) {
	args := m.Called(ctx, topicID)
	if subTopics := args.Get(0); subTopics != nil {
		return subTopics.([]*domain.SubTopic), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) SaveQuestion(ctx context.Context, question *domain.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) UnseenQuestionIDs(ctx context.Context, userID, subTopicID string, limit int) ([]string, error) {
	args := m.Called(ctx, userID, subTopicID, limit)
	if ids := args.Get(0); ids != nil {
		return ids.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuestionRepository) FillQuestionIDs(ctx context.Context, subTopicID string, exclude []string, limit int) ([]string, error) {
	args := m.Called(ctx, subTopicID, exclude, limit)
	if ids := args.Get(0); ids != nil {
		return ids.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuestionRepository) GetQuestionsWithChoices(ctx context.Context, ids []string) ([]*domain.Question, error) {
	args := m.Called(ctx, ids)
	if questions := args.Get(0); questions != nil {
		return questions.([]*domain.Question), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuestionRepository) GetChoices(ctx context.Context, questionID string) ([]*domain.Choice, error) {
	args := m.Called(ctx, questionID)
	if choices := args.Get(0); choices != nil {
		return choices.([]*domain.Choice), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAnswerRepository struct {
	mock.Mock
}

func (m *MockAnswerRepository) SaveAnswer(ctx context.Context, answer *domain.UserAnswer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockAnswerRepository) AnswerTimesSince(ctx context.Context, userID string, since time.Time) ([]time.Time, error) {
	args := m.Called(ctx, userID, since)
	if times := args.Get(0); times != nil {
		return times.([]time.Time), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockCompletionEngine struct {
	mock.Mock
}

func (m *MockCompletionEngine) Complete(ctx context.Context, prompt, model, apiKey string) ([]domain.CandidateQuestion, error) {
	args := m.Called(ctx, prompt, model, apiKey)
	if items := args.Get(0); items != nil {
		return items.([]domain.CandidateQuestion), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockContentExtractor struct {
	mock.Mock
}

func (m *MockContentExtractor) FromURL(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

func (m *MockContentExtractor) FromPDF(ctx context.Context, data []byte) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}
