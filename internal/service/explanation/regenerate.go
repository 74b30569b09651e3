package explanation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/explainlike5/explainlike5-backend/internal/domain"
	"github.com/explainlike5/explainlike5-backend/internal/service/explanation/simplify"
)

// RegenerateExplanation appends one new explanation version for an existing
// topic at the requested level, generated from the topic's stored title and
// content. Prior rows at that level are never touched.
// Returns domain.ErrNotFound if the topic does not exist.
func (s *Service) RegenerateExplanation(ctx context.Context, input RegenerateInput) (*domain.Explanation, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	topic, err := s.topics.GetByID(ctx, input.TopicID)
	if err != nil {
		return nil, fmt.Errorf("get topic: %w", err)
	}

	exp, err := s.explanations.Create(ctx, &domain.Explanation{
		TopicID: topic.ID,
		Level:   input.Level,
		Text:    simplify.Text(topic.Title, topic.Content, input.Level),
	})
	if err != nil {
		return nil, fmt.Errorf("create explanation: %w", err)
	}

	s.log.InfoContext(ctx, "explanation regenerated",
		slog.Int64("topic_id", topic.ID),
		slog.String("level", input.Level.String()),
	)

	return exp, nil
}
