package repository

import (
	"context"
	"fmt"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/util"

	"github.com/jmoiron/sqlx"
)

// answerRepository implements domain.AnswerRepository using sqlx. The table
// is append-only; there are no update or delete paths.
type answerRepository struct {
	db *sqlx.DB
}

// NewAnswerRepository creates a new instance of answerRepository.
func NewAnswerRepository(db *sqlx.DB) domain.AnswerRepository {
	return &answerRepository{db: db}
}

// SaveAnswer appends one row to the practice log.
func (r *answerRepository) SaveAnswer(ctx context.Context, answer *domain.UserAnswer) error {
	if answer.ID == "" {
		answer.ID = util.NewULID()
	}
	if answer.AnsweredAt.IsZero() {
		answer.AnsweredAt = time.Now()
	}

	query := `INSERT INTO user_answers (id, user_id, question_id, choice_id, is_correct, answered_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		answer.ID,
		answer.UserID,
		answer.QuestionID,
		util.StringToNullString(answer.ChoiceID),
		answer.IsCorrect,
		answer.AnsweredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append answer log: %w", err)
	}
	return nil
}

// AnswerTimesSince returns the raw answer timestamps for one user from the
// given instant onward, oldest first.
func (r *answerRepository) AnswerTimesSince(ctx context.Context, userID string, since time.Time) ([]time.Time, error) {
	query := `SELECT answered_at FROM user_answers WHERE user_id = $1 AND answered_at >= $2 ORDER BY answered_at ASC`

	var times []time.Time
	if err := r.db.SelectContext(ctx, &times, query, userID, since); err != nil {
		return nil, fmt.Errorf("failed to load answer times: %w", err)
	}
	return times, nil
}
