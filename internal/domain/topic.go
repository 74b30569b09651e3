package domain

import "time"

// Topic is a submitted piece of content to be explained.
// Topics are immutable after creation; a topic owns its explanations,
// so deleting a topic removes all of them in the same unit of work.
type Topic struct {
	ID        int64
	Title     string
	Content   string
	CreatedAt time.Time

	// Explanations is populated only by reads that request the full
	// history, ordered by (created_at ASC, id ASC).
	Explanations []Explanation
}

// Explanation is one generated simplification of a topic at a specific level.
// Explanation history is append-only: regeneration inserts a new row and
// never touches prior rows, so a topic may hold several rows at one level.
type Explanation struct {
	ID        int64
	TopicID   int64
	Level     Level
	Text      string
	CreatedAt time.Time
}

// TopicSummary is a history listing item: topic metadata without the full
// content, annotated with the number of explanations accumulated so far.
type TopicSummary struct {
	ID                int64
	Title             string
	CreatedAt         time.Time
	ExplanationsCount int
}
