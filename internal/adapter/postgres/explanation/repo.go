// Package explanation implements the Explanation repository using PostgreSQL.
// Explanation rows are append-only versions: inserts only, no update or
// delete path, removal happens solely through the topic cascade.
package explanation

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

// Repo provides explanation persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new explanation repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const table = "explanations"

// Create inserts a new explanation row and returns it with the
// storage-assigned id and creation timestamp.
// Returns domain.ErrNotFound if the referenced topic does not exist
// (foreign key violation).
func (r *Repo) Create(ctx context.Context, exp *domain.Explanation) (*domain.Explanation, error) {
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("topic_id", "level", "text").
		Values(exp.TopicID, exp.Level.String(), exp.Text).
		Suffix("RETURNING id, topic_id, level, text, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert explanation: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	created, err := scanExplanation(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "explanation", exp.TopicID)
	}

	return created, nil
}

// ListByTopicID returns the full explanation history for a topic ordered
// oldest-first (created_at ASC, id ASC) — a stable total order even when
// timestamps collide. Returns an empty slice (not nil) when the topic has
// no explanations.
func (r *Repo) ListByTopicID(ctx context.Context, topicID int64) ([]domain.Explanation, error) {
	sql, args, err := postgres.Builder().
		Select("id", "topic_id", "level", "text", "created_at").
		From(table).
		Where(squirrel.Eq{"topic_id": topicID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list explanations: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list explanations: %w", err)
	}
	defer rows.Close()

	result, err := scanExplanations(rows)
	if err != nil {
		return nil, fmt.Errorf("list explanations: %w", err)
	}

	return result, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// scanExplanation scans a single explanation row.
func scanExplanation(row pgx.Row) (*domain.Explanation, error) {
	var (
		id        int64
		topicID   int64
		level     string
		text      string
		createdAt time.Time
	)

	if err := row.Scan(&id, &topicID, &level, &text, &createdAt); err != nil {
		return nil, err
	}

	return &domain.Explanation{
		ID:        id,
		TopicID:   topicID,
		Level:     domain.Level(level),
		Text:      text,
		CreatedAt: createdAt,
	}, nil
}

// scanExplanations scans multiple explanation rows.
func scanExplanations(rows pgx.Rows) ([]domain.Explanation, error) {
	var result []domain.Explanation
	for rows.Next() {
		exp, err := scanExplanationFromRows(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.Explanation{}
	}

	return result, nil
}

func scanExplanationFromRows(rows pgx.Rows) (domain.Explanation, error) {
	var (
		id        int64
		topicID   int64
		level     string
		text      string
		createdAt time.Time
	)

	if err := rows.Scan(&id, &topicID, &level, &text, &createdAt); err != nil {
		return domain.Explanation{}, err
	}

	return domain.Explanation{
		ID:        id,
		TopicID:   topicID,
		Level:     domain.Level(level),
		Text:      text,
		CreatedAt: createdAt,
	}, nil
}
