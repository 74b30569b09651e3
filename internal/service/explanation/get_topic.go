package explanation

import (
	"context"
	"fmt"

	"github.com/explainlike5/explainlike5-backend/internal/domain"
)

// GetTopic returns a single topic together with its full explanation
// history ordered oldest-first (created_at ASC, id ASC).
// Returns domain.ErrNotFound if the topic does not exist.
func (s *Service) GetTopic(ctx context.Context, topicID int64) (*domain.Topic, error) {
	if topicID <= 0 {
		return nil, domain.NewValidationError("topic_id", "required")
	}

	topic, err := s.topics.GetByID(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("get topic: %w", err)
	}

	explanations, err := s.explanations.ListByTopicID(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("list explanations: %w", err)
	}
	topic.Explanations = explanations

	return topic, nil
}
