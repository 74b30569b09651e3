// Package explanation implements the explanation-generation service:
// creating topics with simplified explanations, retrieving them with full
// history, listing paginated history, and regenerating explanation versions.
package explanation

import (
	"context"
	"log/slog"

	"github.com/explainlike5/explainlike5-backend/internal/domain"
)

type topicRepo interface {
	Create(ctx context.Context, topic *domain.Topic) (*domain.Topic, error)
	GetByID(ctx context.Context, topicID int64) (*domain.Topic, error)
	List(ctx context.Context, limit, offset int) ([]domain.TopicSummary, error)
	Count(ctx context.Context) (int, error)
}

type explanationRepo interface {
	Create(ctx context.Context, exp *domain.Explanation) (*domain.Explanation, error)
	ListByTopicID(ctx context.Context, topicID int64) ([]domain.Explanation, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

const (
	// MaxTitleLength bounds topic titles.
	MaxTitleLength = 255

	// Pagination bounds for history listing.
	MinLimit     = 1
	MaxLimit     = 100
	DefaultLimit = 10
)

// Service provides explanation generation and retrieval operations.
type Service struct {
	topics       topicRepo
	explanations explanationRepo
	tx           txManager
	log          *slog.Logger
}

// NewService creates a new explanation Service.
func NewService(
	log *slog.Logger,
	topics topicRepo,
	explanations explanationRepo,
	tx txManager,
) *Service {
	return &Service{
		topics:       topics,
		explanations: explanations,
		tx:           tx,
		log:          log.With("service", "explanation"),
	}
}

// dedupeLevels removes duplicate levels preserving first-occurrence order.
func dedupeLevels(levels []domain.Level) []domain.Level {
	seen := make(map[domain.Level]struct{}, len(levels))
	result := make([]domain.Level, 0, len(levels))
	for _, l := range levels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		result = append(result, l)
	}
	return result
}
