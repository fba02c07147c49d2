package models

import (
	"database/sql"
	"time"
)

// Topic is the database model for the topics table.
type Topic struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SubTopic is the database model for the sub_topics table.
type SubTopic struct {
	ID        string    `db:"id"`
	TopicID   string    `db:"topic_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Question is the database model for the questions table.
type Question struct {
	ID           string         `db:"id"`
	SubTopicID   string         `db:"sub_topic_id"`
	QuestionText string         `db:"question_text"`
	Explanation  sql.NullString `db:"explanation"`
	ImageURL     sql.NullString `db:"image_url"`
	CreatedAt    time.Time      `db:"created_at"`
}

// Choice is the database model for the choices table.
type Choice struct {
	ID         string `db:"id"`
	QuestionID string `db:"question_id"`
	ChoiceText string `db:"choice_text"`
	IsCorrect  bool   `db:"is_correct"`
}

// UserAnswer is the database model for the append-only user_answers table.
type UserAnswer struct {
	ID         string         `db:"id"`
	UserID     string         `db:"user_id"`
	QuestionID string         `db:"question_id"`
	ChoiceID   sql.NullString `db:"choice_id"`
	IsCorrect  bool           `db:"is_correct"`
	AnsweredAt time.Time      `db:"answered_at"`
}
