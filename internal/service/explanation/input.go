package explanation

import (
	"strings"
	"unicode/utf8"

	"github.com/explainlike5/explainlike5-backend/internal/domain"
)

// CreateInput holds the parameters for generating explanations for a new topic.
type CreateInput struct {
	Title   string
	Content string
	Levels  []domain.Level
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Title) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	// The 255 bound counts characters, matching varchar(255).
	if utf8.RuneCountInString(i.Title) > MaxTitleLength {
		errs = append(errs, domain.FieldError{Field: "title", Message: "max 255 characters"})
	}

	if strings.TrimSpace(i.Content) == "" {
		errs = append(errs, domain.FieldError{Field: "content", Message: "required"})
	}

	for _, l := range i.Levels {
		if !l.IsValid() {
			errs = append(errs, domain.FieldError{Field: "levels", Message: "invalid level " + string(l)})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ListInput holds the pagination parameters for history listing.
type ListInput struct {
	Limit  int
	Offset int
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError

	if i.Limit < MinLimit || i.Limit > MaxLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 1 and 100"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be >= 0"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// RegenerateInput holds the parameters for regenerating an explanation.
type RegenerateInput struct {
	TopicID int64
	Level   domain.Level
}

// Validate checks all fields and collects all errors.
func (i RegenerateInput) Validate() error {
	var errs []domain.FieldError

	if i.TopicID <= 0 {
		errs = append(errs, domain.FieldError{Field: "topic_id", Message: "required"})
	}
	if !i.Level.IsValid() {
		errs = append(errs, domain.FieldError{Field: "level", Message: "must be one of ELI5, ELI15, EXPERT"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
