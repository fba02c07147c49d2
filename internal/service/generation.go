package service

import (
	"context"
	"math/rand"
	"strings"

	"quizforge/internal/cache"
	"quizforge/internal/config"
	"quizforge/internal/domain"

	"go.uber.org/zap"
)

// Request sizes accepted by the generation endpoints.
const (
	SizeSmall = "small"
	SizeLarge = "large"

	smallQuestionCount = 25
	largeQuestionCount = 50
)

// GenerationService runs the content-to-quiz pipeline: extract text, loop
// completion calls until the requested count is met or the attempt budget is
// gone, validate and file every accepted item, persist.
type GenerationService struct {
	engine       domain.CompletionEngine
	extractor    domain.ContentExtractor
	topicRepo    domain.TopicRepository
	questionRepo domain.QuestionRepository
	cacheService domain.Cache
	genaiConfig  config.GenAIConfig

	caseInsensitiveTopics bool
	logger                *zap.Logger

	// randIndex picks an API key index; swapped out in tests.
	randIndex func(n int) int
}

// NewGenerationService creates a new GenerationService.
func NewGenerationService(
	engine domain.CompletionEngine,
	extractor domain.ContentExtractor,
	topicRepo domain.TopicRepository,
	questionRepo domain.QuestionRepository,
	cacheService domain.Cache,
	genaiConfig config.GenAIConfig,
	caseInsensitiveTopics bool,
	logger *zap.Logger,
) *GenerationService {
	return &GenerationService{
		engine:                engine,
		extractor:             extractor,
		topicRepo:             topicRepo,
		questionRepo:          questionRepo,
		cacheService:          cacheService,
		genaiConfig:           genaiConfig,
		caseInsensitiveTopics: caseInsensitiveTopics,
		logger:                logger,
		randIndex:             rand.Intn,
	}
}

// GenerateFromURL builds a quiz from the page at the given URL.
func (s *GenerationService) GenerateFromURL(ctx context.Context, url, size string, count int, topicHint, subTopicHint string) (*domain.GenerationResult, error) {
	requested, err := resolveRequestedCount(size, count)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(url) == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("url")}
	}

	content, err := s.extractor.FromURL(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, content, topicHint, subTopicHint, requested)
}

// GenerateFromPDF builds a quiz from an uploaded PDF document.
func (s *GenerationService) GenerateFromPDF(ctx context.Context, data []byte, size string, count int, topicHint, subTopicHint string) (*domain.GenerationResult, error) {
	requested, err := resolveRequestedCount(size, count)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("file")}
	}

	content, err := s.extractor.FromPDF(ctx, data)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, content, topicHint, subTopicHint, requested)
}

// resolveRequestedCount turns the request's size fields into a target count.
// An explicit numeric count wins over the named size.
func resolveRequestedCount(size string, count int) (int, error) {
	if count != 0 {
		if count < 1 || count > largeQuestionCount {
			return 0, domain.ValidationErrors{domain.NewOutOfRangeError("count", count, 1, largeQuestionCount)}
		}
		return count, nil
	}
	switch size {
	case "", SizeSmall:
		return smallQuestionCount, nil
	case SizeLarge:
		return largeQuestionCount, nil
	default:
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError("size", size)}
	}
}

// generate is the deficit loop. Each iteration asks for at most one chunk of
// the remaining deficit; invalid items are dropped and re-requested on the
// next pass. The loop ends on a full count or an exhausted attempt budget.
func (s *GenerationService) generate(ctx context.Context, content, topicHint, subTopicHint string, requested int) (*domain.GenerationResult, error) {
	var (
		accepted []domain.CandidateQuestion
		lastErr  error
	)

	for attempt := 0; attempt < s.genaiConfig.MaxAttempts && len(accepted) < requested; attempt++ {
		deficit := requested - len(accepted)
		ask := deficit
		if ask > s.genaiConfig.ChunkSize {
			ask = s.genaiConfig.ChunkSize
		}

		prompt := BuildQuizPrompt(content, topicHint, subTopicHint, ask, acceptedTexts(accepted))
		items, err := s.complete(ctx, prompt)
		if err != nil {
			lastErr = err
			s.logger.Warn("generation attempt failed",
				zap.Int("attempt", attempt+1),
				zap.Int("accepted", len(accepted)),
				zap.Error(err),
			)
			continue
		}

		for _, item := range items {
			if len(accepted) >= requested {
				break
			}
			if err := item.Validate(s.genaiConfig.MaxChoices); err != nil {
				s.logger.Debug("dropping invalid candidate", zap.Error(err))
				continue
			}
			accepted = append(accepted, item)
		}
	}

	if len(accepted) == 0 {
		return nil, domain.NewGenerationFailedError(lastErr)
	}

	return s.persistBatch(ctx, accepted, topicHint, subTopicHint, requested)
}

// complete performs one completion call with a random key against the primary
// model. An overloaded primary gets exactly one retry on the fallback model,
// with a freshly drawn key.
func (s *GenerationService) complete(ctx context.Context, prompt string) ([]domain.CandidateQuestion, error) {
	items, err := s.engine.Complete(ctx, prompt, s.genaiConfig.PrimaryModel, s.pickKey())
	if err == nil {
		return items, nil
	}
	if !domain.IsCode(err, domain.CodeServiceOverloaded) || s.genaiConfig.FallbackModel == "" {
		return nil, err
	}

	s.logger.Info("primary model overloaded, retrying on fallback",
		zap.String("fallback_model", s.genaiConfig.FallbackModel),
	)
	return s.engine.Complete(ctx, prompt, s.genaiConfig.FallbackModel, s.pickKey())
}

func (s *GenerationService) pickKey() string {
	keys := s.genaiConfig.APIKeys
	return keys[s.randIndex(len(keys))]
}

// persistBatch files the accepted items under one unified topic and saves
// them. The topic name resolves hint first, then the first model proposal,
// then the default; each item's sub-topic resolves item value first, then the
// caller's hint, then the default.
func (s *GenerationService) persistBatch(ctx context.Context, accepted []domain.CandidateQuestion, topicHint, subTopicHint string, requested int) (*domain.GenerationResult, error) {
	topicName := domain.NormalizeName(topicHint)
	if topicName == "" {
		for _, item := range accepted {
			if proposed := domain.NormalizeName(item.Topic); proposed != "" {
				topicName = proposed
				break
			}
		}
	}
	if topicName == "" {
		topicName = domain.DefaultTopicName
	}

	topic, err := s.topicRepo.UpsertTopic(ctx, topicName, s.caseInsensitiveTopics)
	if err != nil {
		return nil, err
	}

	subTopics := make(map[string]*domain.SubTopic)
	created := 0
	var lastSaveErr error
	for _, item := range accepted {
		subName := domain.NormalizeName(item.SubTopic)
		if subName == "" {
			subName = domain.NormalizeName(subTopicHint)
		}
		if subName == "" {
			subName = domain.DefaultSubTopicName
		}

		subTopic, ok := subTopics[subName]
		if !ok {
			subTopic, err = s.topicRepo.UpsertSubTopic(ctx, topic.ID, subName)
			if err != nil {
				s.logger.Error("failed to upsert sub-topic",
					zap.String("topic_id", topic.ID),
					zap.String("sub_topic", subName),
					zap.Error(err),
				)
				lastSaveErr = err
				continue
			}
			subTopics[subName] = subTopic
		}

		question := candidateToQuestion(item, subTopic.ID)
		if err := s.questionRepo.SaveQuestion(ctx, question); err != nil {
			s.logger.Error("failed to persist generated question",
				zap.String("sub_topic_id", subTopic.ID),
				zap.Error(err),
			)
			lastSaveErr = err
			continue
		}
		created++
	}

	if created == 0 {
		return nil, domain.NewGenerationFailedError(lastSaveErr)
	}

	s.invalidateTopicCaches(ctx, topic.ID)

	status := domain.GenerationOK
	if created < requested {
		status = domain.GenerationPartial
	}
	s.logger.Info("generation batch complete",
		zap.String("topic", topic.Name),
		zap.Int("requested", requested),
		zap.Int("created", created),
		zap.String("status", string(status)),
	)

	return &domain.GenerationResult{
		Status:    status,
		Requested: requested,
		Created:   created,
		Topic:     topic.Name,
	}, nil
}

func (s *GenerationService) invalidateTopicCaches(ctx context.Context, topicID string) {
	if err := s.cacheService.Delete(ctx, cache.TopicListKey()); err != nil {
		s.logger.Warn("failed to invalidate topic list cache", zap.Error(err))
	}
	if err := s.cacheService.Delete(ctx, cache.SubTopicListKey(topicID)); err != nil {
		s.logger.Warn("failed to invalidate sub-topic list cache", zap.Error(err))
	}
}

func candidateToQuestion(item domain.CandidateQuestion, subTopicID string) *domain.Question {
	choices := make([]*domain.Choice, 0, len(item.Choices))
	for i, text := range item.Choices {
		choices = append(choices, &domain.Choice{
			ChoiceText: strings.TrimSpace(text),
			IsCorrect:  i == item.CorrectIndex,
		})
	}
	return &domain.Question{
		SubTopicID:   subTopicID,
		QuestionText: strings.TrimSpace(item.QuestionText),
		Explanation:  strings.TrimSpace(item.Explanation),
		ImageURL:     strings.TrimSpace(item.ImageURL),
		Choices:      choices,
	}
}

func acceptedTexts(accepted []domain.CandidateQuestion) []string {
	if len(accepted) == 0 {
		return nil
	}
	texts := make([]string, 0, len(accepted))
	for _, item := range accepted {
		texts = append(texts, item.QuestionText)
	}
	return texts
}
