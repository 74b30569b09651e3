package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/explainlike5/explainlike5-backend/internal/domain"
	"github.com/explainlike5/explainlike5-backend/internal/service/explanation"
)

// explanationService defines the minimal interface needed by ExplanationHandler.
type explanationService interface {
	CreateExplanations(ctx context.Context, input explanation.CreateInput) (*explanation.CreateResult, error)
	GetTopic(ctx context.Context, topicID int64) (*domain.Topic, error)
	ListHistory(ctx context.Context, input explanation.ListInput) (*explanation.HistoryPage, error)
	RegenerateExplanation(ctx context.Context, input explanation.RegenerateInput) (*domain.Explanation, error)
}

// ExplanationHandler serves the topic and explanation REST endpoints.
type ExplanationHandler struct {
	svc explanationService
	log *slog.Logger
}

// NewExplanationHandler creates an ExplanationHandler.
func NewExplanationHandler(svc explanationService, logger *slog.Logger) *ExplanationHandler {
	return &ExplanationHandler{svc: svc, log: logger.With("handler", "explanation")}
}

type createRequest struct {
	TopicTitle   string   `json:"topic_title"`
	TopicContent string   `json:"topic_content"`
	Levels       []string `json:"levels"`
}

type topicResponse struct {
	ID           int64                 `json:"id"`
	Title        string                `json:"title"`
	Content      string                `json:"content"`
	CreatedAt    time.Time             `json:"created_at"`
	Explanations []explanationResponse `json:"explanations"`
}

type explanationResponse struct {
	ID        int64     `json:"id"`
	TopicID   int64     `json:"topic_id"`
	Level     string    `json:"level"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type historyItemResponse struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	CreatedAt         time.Time `json:"created_at"`
	ExplanationsCount int       `json:"explanations_count"`
}

type historyResponse struct {
	Items  []historyItemResponse `json:"items"`
	Total  int                   `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// Create handles POST /explanations. Omitted levels default to all three.
func (h *ExplanationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// A nil slice means the key was absent: default to all levels. An
	// explicit empty list is passed through and rejected by the service.
	levels := make([]domain.Level, 0, len(req.Levels))
	for _, l := range req.Levels {
		levels = append(levels, domain.Level(l))
	}
	if req.Levels == nil {
		levels = domain.AllLevels()
	}

	result, err := h.svc.CreateExplanations(r.Context(), explanation.CreateInput{
		Title:   req.TopicTitle,
		Content: req.TopicContent,
		Levels:  levels,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	topic := *result.Topic
	topic.Explanations = result.Explanations

	writeJSON(w, http.StatusCreated, toTopicResponse(&topic))
}

// GetTopic handles GET /topics/{id}.
func (h *ExplanationHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid topic id")
		return
	}

	topic, err := h.svc.GetTopic(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTopicResponse(topic))
}

// ListHistory handles GET /history.
func (h *ExplanationHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := explanation.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		offset = n
	}

	page, err := h.svc.ListHistory(r.Context(), explanation.ListInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	items := make([]historyItemResponse, 0, len(page.Items))
	for _, it := range page.Items {
		items = append(items, historyItemResponse{
			ID:                it.ID,
			Title:             it.Title,
			CreatedAt:         it.CreatedAt,
			ExplanationsCount: it.ExplanationsCount,
		})
	}

	writeJSON(w, http.StatusOK, historyResponse{
		Items:  items,
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// Regenerate handles POST /explanations/{id}/regenerate.
func (h *ExplanationHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid topic id")
		return
	}

	level, err := domain.ParseLevel(r.URL.Query().Get("level"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	exp, err := h.svc.RegenerateExplanation(r.Context(), explanation.RegenerateInput{
		TopicID: id,
		Level:   level,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toExplanationResponse(exp))
}

func (h *ExplanationHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func toTopicResponse(topic *domain.Topic) topicResponse {
	explanations := make([]explanationResponse, 0, len(topic.Explanations))
	for i := range topic.Explanations {
		explanations = append(explanations, toExplanationResponse(&topic.Explanations[i]))
	}
	return topicResponse{
		ID:           topic.ID,
		Title:        topic.Title,
		Content:      topic.Content,
		CreatedAt:    topic.CreatedAt,
		Explanations: explanations,
	}
}

func toExplanationResponse(exp *domain.Explanation) explanationResponse {
	return explanationResponse{
		ID:        exp.ID,
		TopicID:   exp.TopicID,
		Level:     exp.Level.String(),
		Text:      exp.Text,
		CreatedAt: exp.CreatedAt,
	}
}
