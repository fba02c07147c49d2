package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestSaveAnswer_AppendsRow(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewAnswerRepository(db)

	answer := domain.NewUserAnswer("default", "q1", "c1", true)

	mock.ExpectExec(`INSERT INTO user_answers`).
		WithArgs(sqlmock.AnyArg(), "default", "q1", sqlmock.AnyArg(), true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveAnswer(context.Background(), answer)

	assert.NoError(t, err)
	assert.NotEmpty(t, answer.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAnswer_KeepsProvidedID(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewAnswerRepository(db)

	id := util.NewULID()
	answer := &domain.UserAnswer{
		ID:         id,
		UserID:     "default",
		QuestionID: "q1",
		IsCorrect:  false,
		AnsweredAt: time.Now(),
	}

	mock.ExpectExec(`INSERT INTO user_answers`).
		WithArgs(id, "default", "q1", sqlmock.AnyArg(), false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveAnswer(context.Background(), answer)

	assert.NoError(t, err)
	assert.Equal(t, id, answer.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnswerTimesSince(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewAnswerRepository(db)

	since := time.Now().AddDate(-1, 0, 0)
	t1 := time.Now().Add(-48 * time.Hour)
	t2 := time.Now().Add(-2 * time.Hour)

	query := `SELECT answered_at FROM user_answers WHERE user_id = $1 AND answered_at >= $2 ORDER BY answered_at ASC`
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("default", since).
		WillReturnRows(sqlmock.NewRows([]string{"answered_at"}).AddRow(t1).AddRow(t2))

	times, err := repo.AnswerTimesSince(context.Background(), "default", since)

	assert.NoError(t, err)
	assert.Len(t, times, 2)
	assert.True(t, times[0].Before(times[1]))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnswerTimesSince_Empty(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewAnswerRepository(db)

	since := time.Now().AddDate(-1, 0, 0)
	query := `SELECT answered_at FROM user_answers WHERE user_id = $1 AND answered_at >= $2 ORDER BY answered_at ASC`
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("nobody", since).
		WillReturnRows(sqlmock.NewRows([]string{"answered_at"}))

	times, err := repo.AnswerTimesSince(context.Background(), "nobody", since)

	assert.NoError(t, err)
	assert.Empty(t, times)
	assert.NoError(t, mock.ExpectationsWereMet())
}
