package repository

import (
	"context"
	"fmt"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/repository/models"
	"quizforge/internal/util"

	"github.com/jmoiron/sqlx"
)

// questionRepository implements domain.QuestionRepository using sqlx.
type questionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository creates a new instance of questionRepository.
func NewQuestionRepository(db *sqlx.DB) domain.QuestionRepository {
	return &questionRepository{db: db}
}

// SaveQuestion inserts the question and its choices in one transaction. The
// caller is responsible for having validated the choice invariant first.
func (r *questionRepository) SaveQuestion(ctx context.Context, question *domain.Question) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if question.ID == "" {
		question.ID = util.NewULID()
	}
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now()
	}

	insertQuestion := `INSERT INTO questions (id, sub_topic_id, question_text, explanation, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = tx.ExecContext(ctx, insertQuestion,
		question.ID,
		question.SubTopicID,
		question.QuestionText,
		util.StringToNullString(question.Explanation),
		util.StringToNullString(question.ImageURL),
		question.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}

	insertChoice := `INSERT INTO choices (id, question_id, choice_text, is_correct)
		VALUES ($1, $2, $3, $4)`
	for _, choice := range question.Choices {
		if choice.ID == "" {
			choice.ID = util.NewULID()
		}
		choice.QuestionID = question.ID
		if _, err := tx.ExecContext(ctx, insertChoice, choice.ID, choice.QuestionID, choice.ChoiceText, choice.IsCorrect); err != nil {
			return fmt.Errorf("failed to insert choice: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit question insert: %w", err)
	}
	return nil
}

// UnseenQuestionIDs draws up to limit never-answered question IDs in random
// order. An empty subTopicID widens the pool to the whole corpus, which is
// what interleaved practice wants.
func (r *questionRepository) UnseenQuestionIDs(ctx context.Context, userID, subTopicID string, limit int) ([]string, error) {
	query := `SELECT q.id FROM questions q
		WHERE NOT EXISTS (
			SELECT 1 FROM user_answers a WHERE a.user_id = $1 AND a.question_id = q.id
		)`
	args := []interface{}{userID}

	if subTopicID != "" {
		query += ` AND q.sub_topic_id = $2 ORDER BY random() LIMIT $3`
		args = append(args, subTopicID, limit)
	} else {
		query += ` ORDER BY random() LIMIT $2`
		args = append(args, limit)
	}

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select unseen questions: %w", err)
	}
	return ids, nil
}

// FillQuestionIDs draws up to limit random question IDs from the full pool
// (seen and unseen), excluding the given IDs. This is the degradation path
// once a learner has exhausted novel material.
func (r *questionRepository) FillQuestionIDs(ctx context.Context, subTopicID string, exclude []string, limit int) ([]string, error) {
	query := `SELECT q.id FROM questions q WHERE 1=1`
	var args []interface{}

	if subTopicID != "" {
		query += ` AND q.sub_topic_id = ?`
		args = append(args, subTopicID)
	}
	if len(exclude) > 0 {
		query += ` AND q.id NOT IN (?)`
		args = append(args, exclude)
	}
	query += ` ORDER BY random() LIMIT ?`
	args = append(args, limit)

	query, inArgs, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build fill query: %w", err)
	}
	query = r.db.Rebind(query)

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, inArgs...); err != nil {
		return nil, fmt.Errorf("failed to select fill questions: %w", err)
	}
	return ids, nil
}

// GetQuestionsWithChoices loads full question records for the given IDs. The
// result order follows the input order.
func (r *questionRepository) GetQuestionsWithChoices(ctx context.Context, ids []string) ([]*domain.Question, error) {
	if len(ids) == 0 {
		return []*domain.Question{}, nil
	}

	questionQuery, qArgs, err := sqlx.In(
		`SELECT id, sub_topic_id, question_text, explanation, image_url, created_at FROM questions WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build question query: %w", err)
	}
	questionQuery = r.db.Rebind(questionQuery)

	var questionRows []models.Question
	if err := r.db.SelectContext(ctx, &questionRows, questionQuery, qArgs...); err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	choiceQuery, cArgs, err := sqlx.In(
		`SELECT id, question_id, choice_text, is_correct FROM choices WHERE question_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build choice query: %w", err)
	}
	choiceQuery = r.db.Rebind(choiceQuery)

	var choiceRows []models.Choice
	if err := r.db.SelectContext(ctx, &choiceRows, choiceQuery, cArgs...); err != nil {
		return nil, fmt.Errorf("failed to load choices: %w", err)
	}

	byID := make(map[string]*domain.Question, len(questionRows))
	for i := range questionRows {
		q := toDomainQuestion(&questionRows[i])
		byID[q.ID] = q
	}
	for i := range choiceRows {
		c := choiceRows[i]
		if q, ok := byID[c.QuestionID]; ok {
			q.Choices = append(q.Choices, toDomainChoice(&c))
		}
	}

	result := make([]*domain.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			result = append(result, q)
		}
	}
	return result, nil
}

// GetChoices loads the choices of one question.
func (r *questionRepository) GetChoices(ctx context.Context, questionID string) ([]*domain.Choice, error) {
	query := `SELECT id, question_id, choice_text, is_correct FROM choices WHERE question_id = $1 ORDER BY id`

	var rows []models.Choice
	if err := r.db.SelectContext(ctx, &rows, query, questionID); err != nil {
		return nil, fmt.Errorf("failed to load choices of %s: %w", questionID, err)
	}

	choices := make([]*domain.Choice, len(rows))
	for i := range rows {
		choices[i] = toDomainChoice(&rows[i])
	}
	return choices, nil
}

func toDomainQuestion(q *models.Question) *domain.Question {
	return &domain.Question{
		ID:           q.ID,
		SubTopicID:   q.SubTopicID,
		QuestionText: q.QuestionText,
		Explanation:  util.NullStringToString(q.Explanation),
		ImageURL:     util.NullStringToString(q.ImageURL),
		CreatedAt:    q.CreatedAt,
	}
}

func toDomainChoice(c *models.Choice) *domain.Choice {
	return &domain.Choice{
		ID:         c.ID,
		QuestionID: c.QuestionID,
		ChoiceText: c.ChoiceText,
		IsCorrect:  c.IsCorrect,
	}
}
