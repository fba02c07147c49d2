package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/handler"
	"quizforge/internal/middleware"
	"quizforge/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type MockPracticeService struct {
	ListTopicsFunc      func(ctx context.Context) ([]*domain.Topic, error)
	ListSubTopicsFunc   func(ctx context.Context, topicID string) ([]*domain.SubTopic, error)
	SelectQuestionsFunc func(ctx context.Context, userID, subTopicID string, limit int) ([]*domain.Question, error)
	SubmitAnswerFunc    func(ctx context.Context, userID, questionID, choiceID string) (*service.AnswerResult, error)
}

func (m *MockPracticeService) ListTopics(ctx context.Context) ([]*domain.Topic, error) {
	if m.ListTopicsFunc != nil {
		return m.ListTopicsFunc(ctx)
	}
	panic("MockPracticeService.ListTopicsFunc not implemented")
}

func (m *MockPracticeService) ListSubTopics(ctx context.Context, topicID string) ([]*domain.SubTopic, error) {
	if m.ListSubTopicsFunc != nil {
		return m.ListSubTopicsFunc(ctx, topicID)
	}
	panic("MockPracticeService.ListSubTopicsFunc not implemented")
}

func (m *MockPracticeService) SelectQuestions(ctx context.Context, userID, subTopicID string, limit int) ([]*domain.Question, error) {
	if m.SelectQuestionsFunc != nil {
		return m.SelectQuestionsFunc(ctx, userID, subTopicID, limit)
	}
	panic("MockPracticeService.SelectQuestionsFunc not implemented")
}

func (m *MockPracticeService) SubmitAnswer(ctx context.Context, userID, questionID, choiceID string) (*service.AnswerResult, error) {
	if m.SubmitAnswerFunc != nil {
		return m.SubmitAnswerFunc(ctx, userID, questionID, choiceID)
	}
	panic("MockPracticeService.SubmitAnswerFunc not implemented")
}

type MockStreakService struct {
	GetStreakFunc func(ctx context.Context, userID string) (*service.StreakSummary, error)
}

func (m *MockStreakService) GetStreak(ctx context.Context, userID string) (*service.StreakSummary, error) {
	if m.GetStreakFunc != nil {
		return m.GetStreakFunc(ctx, userID)
	}
	panic("MockStreakService.GetStreakFunc not implemented")
}

func newPracticeApp(practiceSvc handler.PracticeService, streakSvc handler.StreakService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})

	practiceHandler := handler.NewPracticeHandler(practiceSvc, "default")
	app.Get("/api/topics", practiceHandler.ListTopics)
	app.Get("/api/topics/:id/sub_topics", practiceHandler.ListSubTopics)
	app.Get("/api/sub_topics/:id/questions", practiceHandler.GetQuestionsBySubTopic)
	app.Get("/api/questions/random", practiceHandler.GetRandomQuestions)
	app.Post("/api/answers", practiceHandler.SubmitAnswer)

	if streakSvc != nil {
		streakHandler := handler.NewStreakHandler(streakSvc, "default")
		app.Get("/api/streak", streakHandler.GetStreak)
	}
	return app
}

func TestListTopics(t *testing.T) {
	mockSvc := &MockPracticeService{
		ListTopicsFunc: func(ctx context.Context) ([]*domain.Topic, error) {
			return []*domain.Topic{{ID: "t1", Name: "Biology"}, {ID: "t2", Name: "History"}}, nil
		},
	}
	app := newPracticeApp(mockSvc, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/topics", nil), -1)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got []dto.TopicResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Len(t, got, 2)
	assert.Equal(t, "Biology", got[0].Name)
}

func TestListSubTopics(t *testing.T) {
	mockSvc := &MockPracticeService{
		ListSubTopicsFunc: func(ctx context.Context, topicID string) ([]*domain.SubTopic, error) {
			assert.Equal(t, "t1", topicID)
			return []*domain.SubTopic{{ID: "s1", TopicID: "t1", Name: "Cells"}}, nil
		},
	}
	app := newPracticeApp(mockSvc, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/topics/t1/sub_topics", nil), -1)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got []dto.SubTopicResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Len(t, got, 1)
	assert.Equal(t, "Cells", got[0].Name)
}

func TestGetQuestionsBySubTopic(t *testing.T) {
	mockSvc := &MockPracticeService{
		SelectQuestionsFunc: func(ctx context.Context, userID, subTopicID string, limit int) ([]*domain.Question, error) {
			assert.Equal(t, "default", userID)
			assert.Equal(t, "s1", subTopicID)
			assert.Equal(t, 5, limit)
			return []*domain.Question{
				{
					ID:           "q1",
					SubTopicID:   "s1",
					QuestionText: "Pick one",
					Choices: []*domain.Choice{
						{ID: "c1", ChoiceText: "A", IsCorrect: true},
						{ID: "c2", ChoiceText: "B", IsCorrect: false},
					},
				},
			}, nil
		},
	}
	app := newPracticeApp(mockSvc, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/sub_topics/s1/questions?limit=5", nil), -1)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got []dto.QuestionResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Len(t, got, 1)
	assert.Len(t, got[0].Choices, 2)
	assert.True(t, got[0].Choices[0].IsCorrect)
}

func TestGetQuestionsBySubTopic_BadLimit(t *testing.T) {
	app := newPracticeApp(&MockPracticeService{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/sub_topics/s1/questions?limit=lots", nil), -1)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetRandomQuestions_InterleavesWholeCorpus(t *testing.T) {
	mockSvc := &MockPracticeService{
		SelectQuestionsFunc: func(ctx context.Context, userID, subTopicID string, limit int) ([]*domain.Question, error) {
			assert.Empty(t, subTopicID)
			return []*domain.Question{}, nil
		},
	}
	app := newPracticeApp(mockSvc, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/questions/random", nil), -1)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSubmitAnswer_Graded(t *testing.T) {
	mockSvc := &MockPracticeService{
		SubmitAnswerFunc: func(ctx context.Context, userID, questionID, choiceID string) (*service.AnswerResult, error) {
			assert.Equal(t, "q1", questionID)
			assert.Equal(t, "c2", choiceID)
			return &service.AnswerResult{
				IsCorrect:       false,
				CorrectChoiceID: "c1",
				Explanation:     "because",
			}, nil
		},
	}
	app := newPracticeApp(mockSvc, nil)

	body, _ := json.Marshal(dto.AnswerRequest{QuestionID: "q1", ChoiceID: "c2"})
	req := httptest.NewRequest("POST", "/api/answers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got dto.AnswerResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.False(t, got.IsCorrect)
	assert.Equal(t, "c1", got.CorrectChoiceID)
}

func TestSubmitAnswer_MissingFields(t *testing.T) {
	app := newPracticeApp(&MockPracticeService{}, nil)

	req := httptest.NewRequest("POST", "/api/answers", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var got middleware.ValidationErrorResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Len(t, got.Errors, 2)
}

func TestSubmitAnswer_UnknownQuestion(t *testing.T) {
	mockSvc := &MockPracticeService{
		SubmitAnswerFunc: func(ctx context.Context, userID, questionID, choiceID string) (*service.AnswerResult, error) {
			return nil, domain.NewNotFoundError("question not found")
		},
	}
	app := newPracticeApp(mockSvc, nil)

	body, _ := json.Marshal(dto.AnswerRequest{QuestionID: "missing", ChoiceID: "c1"})
	req := httptest.NewRequest("POST", "/api/answers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetStreak(t *testing.T) {
	mockStreak := &MockStreakService{
		GetStreakFunc: func(ctx context.Context, userID string) (*service.StreakSummary, error) {
			assert.Equal(t, "default", userID)
			return &service.StreakSummary{CurrentStreakDays: 3, TodayAnswersCount: 2, DailyGoal: 5}, nil
		},
	}
	app := newPracticeApp(&MockPracticeService{}, mockStreak)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/streak", nil), -1)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got dto.StreakResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 3, got.CurrentStreakDays)
	assert.Equal(t, 2, got.TodayAnswersCount)
	assert.Equal(t, 5, got.StreakGoal)
}
