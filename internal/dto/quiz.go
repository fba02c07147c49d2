package dto

import (
	"quizforge/internal/domain"
)

// GenerateFromLinkRequest asks for a quiz built from a web page. The body may
// arrive as JSON or form-encoded; the batch size is named (`size`) or numeric
// (`count`), with a numeric count winning when both are present.
type GenerateFromLinkRequest struct {
	URL          string `json:"url" form:"url"`
	Size         string `json:"size,omitempty" form:"size"`
	Count        int    `json:"count,omitempty" form:"count"`
	TopicHint    string `json:"topic_hint,omitempty" form:"topic_hint"`
	SubTopicHint string `json:"sub_topic_hint,omitempty" form:"sub_topic_hint"`
}

// GenerateResponse reports the outcome of a generation request. Status is
// "ok" when the requested count was met exactly and "partial" otherwise.
type GenerateResponse struct {
	Status    string `json:"status"`
	Requested int    `json:"requested"`
	Created   int    `json:"created"`
	Topic     string `json:"topic"`
}

// NewGenerateResponse converts a domain generation result into its API shape.
func NewGenerateResponse(result *domain.GenerationResult) *GenerateResponse {
	return &GenerateResponse{
		Status:    string(result.Status),
		Requested: result.Requested,
		Created:   result.Created,
		Topic:     result.Topic,
	}
}

// TopicResponse is one topic in the browse listing.
type TopicResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewTopicResponse(topic *domain.Topic) *TopicResponse {
	return &TopicResponse{ID: topic.ID, Name: topic.Name}
}

func NewTopicListResponse(topics []*domain.Topic) []*TopicResponse {
	out := make([]*TopicResponse, 0, len(topics))
	for _, topic := range topics {
		out = append(out, NewTopicResponse(topic))
	}
	return out
}

// SubTopicResponse is one sub-topic in the browse listing.
type SubTopicResponse struct {
	ID      string `json:"id"`
	TopicID string `json:"topic_id"`
	Name    string `json:"name"`
}

func NewSubTopicResponse(subTopic *domain.SubTopic) *SubTopicResponse {
	return &SubTopicResponse{ID: subTopic.ID, TopicID: subTopic.TopicID, Name: subTopic.Name}
}

func NewSubTopicListResponse(subTopics []*domain.SubTopic) []*SubTopicResponse {
	out := make([]*SubTopicResponse, 0, len(subTopics))
	for _, subTopic := range subTopics {
		out = append(out, NewSubTopicResponse(subTopic))
	}
	return out
}

// ChoiceResponse is one answer option of a served question.
type ChoiceResponse struct {
	ID         string `json:"id"`
	ChoiceText string `json:"choice_text"`
	IsCorrect  bool   `json:"is_correct"`
}

// QuestionResponse is a full question as served to a practice client,
// including its choices.
type QuestionResponse struct {
	ID           string           `json:"id"`
	SubTopicID   string           `json:"sub_topic_id"`
	QuestionText string           `json:"question_text"`
	Explanation  string           `json:"explanation,omitempty"`
	ImageURL     string           `json:"image_url,omitempty"`
	Choices      []ChoiceResponse `json:"choices"`
}

func NewQuestionResponse(question *domain.Question) *QuestionResponse {
	choices := make([]ChoiceResponse, 0, len(question.Choices))
	for _, choice := range question.Choices {
		choices = append(choices, ChoiceResponse{
			ID:         choice.ID,
			ChoiceText: choice.ChoiceText,
			IsCorrect:  choice.IsCorrect,
		})
	}
	return &QuestionResponse{
		ID:           question.ID,
		SubTopicID:   question.SubTopicID,
		QuestionText: question.QuestionText,
		Explanation:  question.Explanation,
		ImageURL:     question.ImageURL,
		Choices:      choices,
	}
}

func NewQuestionListResponse(questions []*domain.Question) []*QuestionResponse {
	out := make([]*QuestionResponse, 0, len(questions))
	for _, question := range questions {
		out = append(out, NewQuestionResponse(question))
	}
	return out
}

// AnswerRequest records one answered question.
type AnswerRequest struct {
	QuestionID string `json:"question_id"`
	ChoiceID   string `json:"choice_id"`
}

// Validate checks the request fields and aggregates all failures.
func (r *AnswerRequest) Validate() error {
	var errs domain.ValidationErrors
	if r.QuestionID == "" {
		errs = append(errs, domain.NewMissingFieldError("question_id"))
	}
	if r.ChoiceID == "" {
		errs = append(errs, domain.NewMissingFieldError("choice_id"))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AnswerResponse grades one submitted answer. The correct choice is always
// echoed back so the client can reveal it.
type AnswerResponse struct {
	IsCorrect       bool   `json:"is_correct"`
	CorrectChoiceID string `json:"correct_choice_id"`
	Explanation     string `json:"explanation,omitempty"`
}

// StreakResponse is the consistency summary for one user. The goal is
// informational only; a day counts toward the streak from the first answer.
type StreakResponse struct {
	CurrentStreakDays int `json:"current_streak_days"`
	TodayAnswersCount int `json:"today_answers_count"`
	StreakGoal        int `json:"streak_goal"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Details []domain.ValidationError `json:"details,omitempty"`
}
