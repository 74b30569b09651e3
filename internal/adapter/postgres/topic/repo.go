// Package topic implements the Topic repository using PostgreSQL.
// Topics are append-only: there is no update path, and deleting a topic
// cascades to its explanations at the schema level.
package topic

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/explainlike5/explainlike5-backend/internal/adapter/postgres"
	"github.com/explainlike5/explainlike5-backend/internal/domain"
)

// Repo provides topic persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new topic repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const (
	table = "topics"

	// explanationCountsJoin aggregates explanation counts per topic for the
	// history listing. COALESCE turns missing groups into 0.
	explanationCountsJoin = "(SELECT topic_id, count(*) AS cnt FROM explanations GROUP BY topic_id) ec ON ec.topic_id = t.id"
)

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new topic and returns the persisted domain.Topic with its
// storage-assigned id and creation timestamp.
func (r *Repo) Create(ctx context.Context, topic *domain.Topic) (*domain.Topic, error) {
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("title", "content").
		Values(topic.Title, topic.Content).
		Suffix("RETURNING id, title, content, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert topic: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	created, err := scanTopic(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "topic", 0)
	}

	return created, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a topic by primary key.
// Returns domain.ErrNotFound if the topic does not exist.
func (r *Repo) GetByID(ctx context.Context, topicID int64) (*domain.Topic, error) {
	sql, args, err := postgres.Builder().
		Select("id", "title", "content", "created_at").
		From(table).
		Where(squirrel.Eq{"id": topicID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get topic: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	topic, err := scanTopic(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "topic", topicID)
	}

	return topic, nil
}

// List returns one history page of topic summaries ordered newest-first
// (created_at DESC, id DESC), each annotated with its explanation count.
// Returns an empty slice (not nil) when the page is empty.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]domain.TopicSummary, error) {
	sql, args, err := postgres.Builder().
		Select("t.id", "t.title", "t.created_at", "COALESCE(ec.cnt, 0) AS explanations_count").
		From(table + " t").
		LeftJoin(explanationCountsJoin).
		OrderBy("t.created_at DESC", "t.id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list topics: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	result, err := scanSummaries(rows)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}

	return result, nil
}

// Count returns the total number of topics across all pages.
func (r *Repo) Count(ctx context.Context) (int, error) {
	sql, args, err := postgres.Builder().
		Select("count(*)").
		From(table).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count topics: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count topics: %w", err)
	}

	return count, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// scanTopic scans a single topic row.
func scanTopic(row pgx.Row) (*domain.Topic, error) {
	var (
		id        int64
		title     string
		content   string
		createdAt time.Time
	)

	if err := row.Scan(&id, &title, &content, &createdAt); err != nil {
		return nil, err
	}

	return &domain.Topic{
		ID:        id,
		Title:     title,
		Content:   content,
		CreatedAt: createdAt,
	}, nil
}

// scanSummaries scans history listing rows into TopicSummary slices.
func scanSummaries(rows pgx.Rows) ([]domain.TopicSummary, error) {
	var result []domain.TopicSummary
	for rows.Next() {
		var s domain.TopicSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.CreatedAt, &s.ExplanationsCount); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.TopicSummary{}
	}

	return result, nil
}
