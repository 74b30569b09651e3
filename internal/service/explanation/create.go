package explanation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/explainlike5/explainlike5-backend/internal/domain"
	"github.com/explainlike5/explainlike5-backend/internal/service/explanation/simplify"
)

// CreateExplanations creates a topic and one explanation per requested level.
// Duplicate levels are collapsed preserving first-occurrence order; an empty
// deduplicated set is a validation error. The topic and all explanation rows
// are persisted in a single transaction: either all of them exist afterwards
// or none do.
func (s *Service) CreateExplanations(ctx context.Context, input CreateInput) (*CreateResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	levels := dedupeLevels(input.Levels)
	if len(levels) == 0 {
		return nil, domain.NewValidationError("levels", "at least one level required")
	}

	var result CreateResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// Title and content are stored as submitted; the simplifier
		// normalizes its own inputs.
		topic, createErr := s.topics.Create(txCtx, &domain.Topic{
			Title:   input.Title,
			Content: input.Content,
		})
		if createErr != nil {
			return fmt.Errorf("create topic: %w", createErr)
		}
		result.Topic = topic

		result.Explanations = make([]domain.Explanation, 0, len(levels))
		for _, level := range levels {
			exp, expErr := s.explanations.Create(txCtx, &domain.Explanation{
				TopicID: topic.ID,
				Level:   level,
				Text:    simplify.Text(input.Title, input.Content, level),
			})
			if expErr != nil {
				return fmt.Errorf("create %s explanation: %w", level, expErr)
			}
			result.Explanations = append(result.Explanations, *exp)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "explanations created",
		slog.Int64("topic_id", result.Topic.ID),
		slog.Int("count", len(result.Explanations)),
	)

	return &result, nil
}
