package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/repository/models"
	"quizforge/internal/util"

	"github.com/jmoiron/sqlx"
)

// topicRepository implements domain.TopicRepository using sqlx.
type topicRepository struct {
	db *sqlx.DB
}

// NewTopicRepository creates a new instance of topicRepository.
func NewTopicRepository(db *sqlx.DB) domain.TopicRepository {
	return &topicRepository{db: db}
}

// UpsertTopic finds a topic by name or creates it. The lookup is exact by
// default; with caseInsensitive it folds case, so "Neuroscience" and
// "neuroscience" land on the same row.
func (r *topicRepository) UpsertTopic(ctx context.Context, name string, caseInsensitive bool) (*domain.Topic, error) {
	name = domain.NormalizeName(name)
	if name == "" {
		name = domain.DefaultTopicName
	}

	lookup := `SELECT id, name, created_at, updated_at FROM topics WHERE name = $1`
	if caseInsensitive {
		lookup = `SELECT id, name, created_at, updated_at FROM topics WHERE LOWER(name) = LOWER($1)`
	}

	var existing models.Topic
	err := r.db.GetContext(ctx, &existing, lookup, name)
	if err == nil {
		return toDomainTopic(&existing), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up topic %q: %w", name, err)
	}

	// ON CONFLICT covers the race with a concurrent generation inserting the
	// same exact name.
	insert := `INSERT INTO topics (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (name) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id, name, created_at, updated_at`

	var created models.Topic
	if err := r.db.GetContext(ctx, &created, insert, util.NewULID(), name, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to upsert topic %q: %w", name, err)
	}
	return toDomainTopic(&created), nil
}

// UpsertSubTopic finds or creates a sub-topic under the given topic.
func (r *topicRepository) UpsertSubTopic(ctx context.Context, topicID, name string) (*domain.SubTopic, error) {
	name = domain.NormalizeName(name)
	if name == "" {
		name = domain.DefaultSubTopicName
	}

	lookup := `SELECT id, topic_id, name, created_at, updated_at FROM sub_topics WHERE topic_id = $1 AND name = $2`

	var existing models.SubTopic
	err := r.db.GetContext(ctx, &existing, lookup, topicID, name)
	if err == nil {
		return toDomainSubTopic(&existing), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up sub-topic %q: %w", name, err)
	}

	insert := `INSERT INTO sub_topics (id, topic_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (topic_id, name) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id, topic_id, name, created_at, updated_at`

	var created models.SubTopic
	if err := r.db.GetContext(ctx, &created, insert, util.NewULID(), topicID, name, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to upsert sub-topic %q: %w", name, err)
	}
	return toDomainSubTopic(&created), nil
}

// ListTopics returns all topics sorted by name.
func (r *topicRepository) ListTopics(ctx context.Context) ([]*domain.Topic, error) {
	query := `SELECT id, name, created_at, updated_at FROM topics ORDER BY name ASC`

	var rows []models.Topic
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}

	topics := make([]*domain.Topic, len(rows))
	for i := range rows {
		topics[i] = toDomainTopic(&rows[i])
	}
	return topics, nil
}

// ListSubTopics returns the sub-topics of one topic sorted by name.
func (r *topicRepository) ListSubTopics(ctx context.Context, topicID string) ([]*domain.SubTopic, error) {
	query := `SELECT id, topic_id, name, created_at, updated_at FROM sub_topics WHERE topic_id = $1 ORDER BY name ASC`

	var rows []models.SubTopic
	if err := r.db.SelectContext(ctx, &rows, query, topicID); err != nil {
		return nil, fmt.Errorf("failed to list sub-topics of %s: %w", topicID, err)
	}

	subTopics := make([]*domain.SubTopic, len(rows))
	for i := range rows {
		subTopics[i] = toDomainSubTopic(&rows[i])
	}
	return subTopics, nil
}

func toDomainTopic(t *models.Topic) *domain.Topic {
	return &domain.Topic{
		ID:        t.ID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toDomainSubTopic(s *models.SubTopic) *domain.SubTopic {
	return &domain.SubTopic{
		ID:        s.ID,
		TopicID:   s.TopicID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
