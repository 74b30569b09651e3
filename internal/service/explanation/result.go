package explanation

import "github.com/explainlike5/explainlike5-backend/internal/domain"

// CreateResult holds the created topic together with its generated
// explanations, in the deduplicated input level order.
type CreateResult struct {
	Topic        *domain.Topic
	Explanations []domain.Explanation
}

// HistoryPage is one page of the newest-first topic history.
// Total counts topics across all pages; Limit and Offset echo the request.
type HistoryPage struct {
	Items  []domain.TopicSummary
	Total  int
	Limit  int
	Offset int
}
