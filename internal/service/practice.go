package service

import (
	"context"
	"encoding/json"
	"time"

	"quizforge/internal/cache"
	"quizforge/internal/domain"

	"go.uber.org/zap"
)

const (
	// DefaultQuestionLimit is the serving size when the client does not ask
	// for one.
	DefaultQuestionLimit = 5
	// MaxQuestionLimit caps a single selection request.
	MaxQuestionLimit = 50

	topicListTTL = 10 * time.Minute
)

// AnswerResult grades one submitted answer. The correct choice is resolved
// server-side from the persisted records, never trusted from the client.
type AnswerResult struct {
	IsCorrect       bool
	CorrectChoiceID string
	Explanation     string
}

// PracticeService serves questions for practice and grades answers. Selection
// is unseen-first: questions the user has never answered come before repeats.
type PracticeService struct {
	topicRepo    domain.TopicRepository
	questionRepo domain.QuestionRepository
	answerRepo   domain.AnswerRepository
	cacheService domain.Cache
	logger       *zap.Logger
}

// NewPracticeService creates a new PracticeService.
func NewPracticeService(
	topicRepo domain.TopicRepository,
	questionRepo domain.QuestionRepository,
	answerRepo domain.AnswerRepository,
	cacheService domain.Cache,
	logger *zap.Logger,
) *PracticeService {
	return &PracticeService{
		topicRepo:    topicRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		cacheService: cacheService,
		logger:       logger,
	}
}

// ListTopics returns all topics, cached until the next generation batch.
func (s *PracticeService) ListTopics(ctx context.Context) ([]*domain.Topic, error) {
	key := cache.TopicListKey()
	if cached, err := s.cacheService.Get(ctx, key); err == nil {
		var topics []*domain.Topic
		if err := json.Unmarshal([]byte(cached), &topics); err == nil {
			return topics, nil
		}
		s.logger.Warn("dropping undecodable topic list cache entry", zap.String("key", key))
	}

	topics, err := s.topicRepo.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, topics, topicListTTL)
	return topics, nil
}

// ListSubTopics returns the sub-topics of one topic, cached.
func (s *PracticeService) ListSubTopics(ctx context.Context, topicID string) ([]*domain.SubTopic, error) {
	if topicID == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("topic_id")}
	}

	key := cache.SubTopicListKey(topicID)
	if cached, err := s.cacheService.Get(ctx, key); err == nil {
		var subTopics []*domain.SubTopic
		if err := json.Unmarshal([]byte(cached), &subTopics); err == nil {
			return subTopics, nil
		}
		s.logger.Warn("dropping undecodable sub-topic list cache entry", zap.String("key", key))
	}

	subTopics, err := s.topicRepo.ListSubTopics(ctx, topicID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, subTopics, topicListTTL)
	return subTopics, nil
}

// SelectQuestions picks up to limit questions for the user. Unseen questions
// fill the slate first; if the unseen pool runs dry the remainder comes from
// already-answered questions. An empty subTopicID interleaves across the
// whole corpus. Fewer questions than asked is not an error: the caller gets
// whatever exists.
func (s *PracticeService) SelectQuestions(ctx context.Context, userID, subTopicID string, limit int) ([]*domain.Question, error) {
	if limit <= 0 {
		limit = DefaultQuestionLimit
	}
	if limit > MaxQuestionLimit {
		limit = MaxQuestionLimit
	}

	ids, err := s.questionRepo.UnseenQuestionIDs(ctx, userID, subTopicID, limit)
	if err != nil {
		return nil, err
	}

	if len(ids) < limit {
		fill, err := s.questionRepo.FillQuestionIDs(ctx, subTopicID, ids, limit-len(ids))
		if err != nil {
			return nil, err
		}
		ids = append(ids, fill...)
	}

	if len(ids) == 0 {
		return []*domain.Question{}, nil
	}
	return s.questionRepo.GetQuestionsWithChoices(ctx, ids)
}

// SubmitAnswer grades a submitted choice against the persisted records and
// appends the outcome to the practice log. The log write runs in the
// background: a storage failure there is logged but never fails the grading
// response.
func (s *PracticeService) SubmitAnswer(ctx context.Context, userID, questionID, choiceID string) (*AnswerResult, error) {
	questions, err := s.questionRepo.GetQuestionsWithChoices(ctx, []string{questionID})
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, domain.NewNotFoundError("question not found")
	}
	question := questions[0]

	var chosen *domain.Choice
	for _, choice := range question.Choices {
		if choice.ID == choiceID {
			chosen = choice
			break
		}
	}
	if chosen == nil {
		return nil, domain.NewInvalidInputError("choice does not belong to this question")
	}

	correct := question.CorrectChoice()
	if correct == nil {
		return nil, domain.NewInternalError("question has no correct choice", nil)
	}

	answer := domain.NewUserAnswer(userID, questionID, choiceID, chosen.IsCorrect)
	go s.recordAnswer(answer)

	return &AnswerResult{
		IsCorrect:       chosen.IsCorrect,
		CorrectChoiceID: correct.ID,
		Explanation:     question.Explanation,
	}, nil
}

// recordAnswer appends the log row and drops the user's cached streak. Runs
// detached from the request context so a slow write cannot stall the response.
func (s *PracticeService) recordAnswer(answer *domain.UserAnswer) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.answerRepo.SaveAnswer(ctx, answer); err != nil {
		s.logger.Error("failed to append answer log",
			zap.String("user_id", answer.UserID),
			zap.String("question_id", answer.QuestionID),
			zap.Error(err),
		)
		return
	}
	if err := s.cacheService.Delete(ctx, cache.StreakKey(answer.UserID)); err != nil {
		s.logger.Warn("failed to invalidate streak cache",
			zap.String("user_id", answer.UserID),
			zap.Error(err),
		)
	}
}

func (s *PracticeService) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cacheService.Set(ctx, key, string(payload), ttl); err != nil {
		s.logger.Warn("failed to store cache entry", zap.String("key", key), zap.Error(err))
	}
}
