package explanation

import (
	"context"
	"fmt"
)

// ListHistory returns one page of the topic history, newest first
// (created_at DESC, id DESC), with each topic annotated by its explanation
// count. Total is the topic count across all pages. Two concurrent calls
// may observe different totals when a create lands between them; within a
// single call no row is duplicated or skipped.
func (s *Service) ListHistory(ctx context.Context, input ListInput) (*HistoryPage, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	total, err := s.topics.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count topics: %w", err)
	}

	items, err := s.topics.List(ctx, input.Limit, input.Offset)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}

	return &HistoryPage{
		Items:  items,
		Total:  total,
		Limit:  input.Limit,
		Offset: input.Offset,
	}, nil
}
