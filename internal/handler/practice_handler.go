package handler

import (
	"context"
	"strconv"

	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/service"

	"github.com/gofiber/fiber/v2"
)

// PracticeService is the practice surface the HTTP layer depends on.
type PracticeService interface {
	ListTopics(ctx context.Context) ([]*domain.Topic, error)
	ListSubTopics(ctx context.Context, topicID string) ([]*domain.SubTopic, error)
	SelectQuestions(ctx context.Context, userID, subTopicID string, limit int) ([]*domain.Question, error)
	SubmitAnswer(ctx context.Context, userID, questionID, choiceID string) (*service.AnswerResult, error)
}

// PracticeHandler handles topic browsing, question serving and answering.
// Every request runs as the single configured practice identity.
type PracticeHandler struct {
	service       PracticeService
	defaultUserID string
}

// NewPracticeHandler creates a new PracticeHandler instance
func NewPracticeHandler(service PracticeService, defaultUserID string) *PracticeHandler {
	return &PracticeHandler{service: service, defaultUserID: defaultUserID}
}

// ListTopics handles GET /api/topics
func (h *PracticeHandler) ListTopics(c *fiber.Ctx) error {
	topics, err := h.service.ListTopics(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTopicListResponse(topics))
}

// ListSubTopics handles GET /api/topics/:id/sub_topics
func (h *PracticeHandler) ListSubTopics(c *fiber.Ctx) error {
	subTopics, err := h.service.ListSubTopics(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSubTopicListResponse(subTopics))
}

// GetQuestionsBySubTopic handles GET /api/sub_topics/:id/questions
func (h *PracticeHandler) GetQuestionsBySubTopic(c *fiber.Ctx) error {
	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		return err
	}

	questions, err := h.service.SelectQuestions(c.Context(), h.defaultUserID, c.Params("id"), limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuestionListResponse(questions))
}

// GetRandomQuestions handles GET /api/questions/random, interleaving across
// the whole corpus.
func (h *PracticeHandler) GetRandomQuestions(c *fiber.Ctx) error {
	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		return err
	}

	questions, err := h.service.SelectQuestions(c.Context(), h.defaultUserID, "", limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuestionListResponse(questions))
}

// SubmitAnswer handles POST /api/answers
func (h *PracticeHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body is not valid JSON")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	result, err := h.service.SubmitAnswer(c.Context(), h.defaultUserID, req.QuestionID, req.ChoiceID)
	if err != nil {
		return err
	}
	return c.JSON(dto.AnswerResponse{
		IsCorrect:       result.IsCorrect,
		CorrectChoiceID: result.CorrectChoiceID,
		Explanation:     result.Explanation,
	})
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError("limit", raw)}
	}
	return limit, nil
}
