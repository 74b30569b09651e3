package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/explainlike5/explainlike5-backend/internal/domain"
	"github.com/explainlike5/explainlike5-backend/internal/service/explanation"
)

type explanationServiceMock struct {
	CreateExplanationsFunc    func(ctx context.Context, input explanation.CreateInput) (*explanation.CreateResult, error)
	GetTopicFunc              func(ctx context.Context, topicID int64) (*domain.Topic, error)
	ListHistoryFunc           func(ctx context.Context, input explanation.ListInput) (*explanation.HistoryPage, error)
	RegenerateExplanationFunc func(ctx context.Context, input explanation.RegenerateInput) (*domain.Explanation, error)
}

func (m *explanationServiceMock) CreateExplanations(ctx context.Context, input explanation.CreateInput) (*explanation.CreateResult, error) {
	return m.CreateExplanationsFunc(ctx, input)
}

func (m *explanationServiceMock) GetTopic(ctx context.Context, topicID int64) (*domain.Topic, error) {
	return m.GetTopicFunc(ctx, topicID)
}

func (m *explanationServiceMock) ListHistory(ctx context.Context, input explanation.ListInput) (*explanation.HistoryPage, error) {
	return m.ListHistoryFunc(ctx, input)
}

func (m *explanationServiceMock) RegenerateExplanation(ctx context.Context, input explanation.RegenerateInput) (*domain.Explanation, error) {
	return m.RegenerateExplanationFunc(ctx, input)
}

func newTestHandler(svc explanationService) *ExplanationHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewExplanationHandler(svc, logger)
}

func TestCreate_Success(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	svc := &explanationServiceMock{
		CreateExplanationsFunc: func(_ context.Context, input explanation.CreateInput) (*explanation.CreateResult, error) {
			if input.Title != "Gravity" {
				t.Errorf("expected title 'Gravity', got %q", input.Title)
			}
			if len(input.Levels) != 2 {
				t.Errorf("expected 2 levels, got %d", len(input.Levels))
			}
			return &explanation.CreateResult{
				Topic: &domain.Topic{ID: 1, Title: input.Title, Content: input.Content, CreatedAt: now},
				Explanations: []domain.Explanation{
					{ID: 10, TopicID: 1, Level: domain.LevelELI5, Text: "simple", CreatedAt: now},
					{ID: 11, TopicID: 1, Level: domain.LevelExpert, Text: "dense", CreatedAt: now},
				},
			}, nil
		},
	}
	h := newTestHandler(svc)

	body := bytes.NewBufferString(`{"topic_title":"Gravity","topic_content":"Things fall.","levels":["ELI5","EXPERT"]}`)
	req := httptest.NewRequest(http.MethodPost, "/explanations", body)
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp topicResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.ID != 1 {
		t.Errorf("expected topic id 1, got %d", resp.ID)
	}
	if len(resp.Explanations) != 2 {
		t.Fatalf("expected 2 explanations, got %d", len(resp.Explanations))
	}
	if resp.Explanations[0].Level != "ELI5" {
		t.Errorf("expected first level ELI5, got %q", resp.Explanations[0].Level)
	}
	if resp.Explanations[1].Level != "EXPERT" {
		t.Errorf("expected second level EXPERT, got %q", resp.Explanations[1].Level)
	}
}

func TestCreate_DefaultLevels(t *testing.T) {
	t.Parallel()

	svc := &explanationServiceMock{
		CreateExplanationsFunc: func(_ context.Context, input explanation.CreateInput) (*explanation.CreateResult, error) {
			want := domain.AllLevels()
			if len(input.Levels) != len(want) {
				t.Fatalf("expected %d levels, got %d", len(want), len(input.Levels))
			}
			for i, l := range want {
				if input.Levels[i] != l {
					t.Errorf("levels[%d] = %s, want %s", i, input.Levels[i], l)
				}
			}
			return &explanation.CreateResult{
				Topic: &domain.Topic{ID: 1, Title: input.Title, Content: input.Content},
			}, nil
		},
	}
	h := newTestHandler(svc)

	body := bytes.NewBufferString(`{"topic_title":"Gravity","topic_content":"Things fall."}`)
	req := httptest.NewRequest(http.MethodPost, "/explanations", body)
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreate_ExplicitEmptyLevels(t *testing.T) {
	t.Parallel()

	svc := &explanationServiceMock{
		CreateExplanationsFunc: func(_ context.Context, input explanation.CreateInput) (*explanation.CreateResult, error) {
			if len(input.Levels) != 0 {
				t.Fatalf("expected empty levels to pass through, got %d", len(input.Levels))
			}
			return nil, domain.NewValidationError("levels", "at least one level required")
		},
	}
	h := newTestHandler(svc)

	// An explicit empty list must not be defaulted like an omitted key.
	body := bytes.NewBufferString(`{"topic_title":"Gravity","topic_content":"Things fall.","levels":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/explanations", body)
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	t.Parallel()

	h := newTestHandler(&explanationServiceMock{})

	req := httptest.NewRequest(http.MethodPost, "/explanations", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestCreate_ValidationError(t *testing.T) {
	t.Parallel()

	svc := &explanationServiceMock{
		CreateExplanationsFunc: func(_ context.Context, _ explanation.CreateInput) (*explanation.CreateResult, error) {
			return nil, domain.NewValidationError("title", "required")
		},
	}
	h := newTestHandler(svc)

	body := bytes.NewBufferString(`{"topic_title":"","topic_content":"x"}`)
	req := httptest.NewRequest(http.MethodPost, "/explanations", body)
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["error"] == "" {
		t.Error("expected non-empty error message")
	}
}

func TestCreate_InternalError(t *testing.T) {
	t.Parallel()

	svc := &explanationServiceMock{
		CreateExplanationsFunc: func(_ context.Context, _ explanation.CreateInput) (*explanation.CreateResult, error) {
			return nil, errors.New("db down")
		},
	}
	h := newTestHandler(svc)

	body := bytes.NewBufferString(`{"topic_title":"Gravity","topic_content":"Things fall."}`)
	req := httptest.NewRequest(http.MethodPost, "/explanations", body)
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

func TestGetTopic_Success(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	svc := &explanationServiceMock{
		GetTopicFunc: func(_ context.Context, topicID int64) (*domain.Topic, error) {
			if topicID != 42 {
				t.Errorf("expected topic id 42, got %d", topicID)
			}
			return &domain.Topic{
				ID:      42,
				Title:   "Gravity",
				Content: "Things fall.",
				Explanations: []domain.Explanation{
					{ID: 1, TopicID: 42, Level: domain.LevelELI5, Text: "simple", CreatedAt: now},
				},
			}, nil
		},
	}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/topics/42", nil)
	req.SetPathValue("id", "42")
	rec := httptest.NewRecorder()

	h.GetTopic(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp topicResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 42 {
		t.Errorf("expected id 42, got %d", resp.ID)
	}
	if len(resp.Explanations) != 1 {
		t.Errorf("expected 1 explanation, got %d", len(resp.Explanations))
	}
}

func TestGetTopic_InvalidID(t *testing.T) {
	t.Parallel()

	h := newTestHandler(&explanationServiceMock{})

	req := httptest.NewRequest(http.MethodGet, "/topics/abc", nil)
	req.SetPathValue("id", "abc")
	rec := httptest.NewRecorder()

	h.GetTopic(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestGetTopic_NotFound(t *testing.T) {
	t.Parallel()

	svc := &explanationServiceMock{
		GetTopicFunc: func(_ context.Context, _ int64) (*domain.Topic, error) {
			return nil, domain.ErrNotFound
		},
	}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/topics/999", nil)
	req.SetPathValue("id", "999")
	rec := httptest.NewRecorder()

	h.GetTopic(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestListHistory_Defaults(t *testing.T) {
	t.Parallel()

	svc := &explanationServiceMock{
		ListHistoryFunc: func(_ context.Context, input explanation.ListInput) (*explanation.HistoryPage, error) {
			if input.Limit != explanation.DefaultLimit {
				t.Errorf("expected default limit %d, got %d", explanation.DefaultLimit, input.Limit)
			}
			if input.Offset != 0 {
				t.Errorf("expected default offset 0, got %d", input.Offset)
			}
			return &explanation.HistoryPage{
				Items:  []domain.TopicSummary{{ID: 2, Title: "B", ExplanationsCount: 3}, {ID: 1, Title: "A"}},
				Total:  2,
				Limit:  input.Limit,
				Offset: input.Offset,
			}, nil
		},
	}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	rec := httptest.NewRecorder()

	h.ListHistory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp historyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("expected total 2, got %d", resp.Total)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
	if resp.Items[0].ExplanationsCount != 3 {
		t.Errorf("expected explanations_count 3, got %d", resp.Items[0].ExplanationsCount)
	}
}

func TestListHistory_ExplicitParams(t *testing.T) {
	t.Parallel()

	svc := &explanationServiceMock{
		ListHistoryFunc: func(_ context.Context, input explanation.ListInput) (*explanation.HistoryPage, error) {
			if input.Limit != 5 {
				t.Errorf("expected limit 5, got %d", input.Limit)
			}
			if input.Offset != 20 {
				t.Errorf("expected offset 20, got %d", input.Offset)
			}
			return &explanation.HistoryPage{Items: []domain.TopicSummary{}, Limit: 5, Offset: 20}, nil
		},
	}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/history?limit=5&offset=20", nil)
	rec := httptest.NewRecorder()

	h.ListHistory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestListHistory_InvalidParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
	}{
		{"non-numeric limit", "?limit=abc"},
		{"non-numeric offset", "?offset=xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newTestHandler(&explanationServiceMock{})

			req := httptest.NewRequest(http.MethodGet, "/history"+tt.query, nil)
			rec := httptest.NewRecorder()

			h.ListHistory(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestListHistory_OutOfRange(t *testing.T) {
	t.Parallel()

	svc := &explanationServiceMock{
		ListHistoryFunc: func(_ context.Context, input explanation.ListInput) (*explanation.HistoryPage, error) {
			return nil, domain.NewValidationError("limit", "must be between 1 and 100")
		},
	}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/history?limit=500", nil)
	rec := httptest.NewRecorder()

	h.ListHistory(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRegenerate_Success(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	svc := &explanationServiceMock{
		RegenerateExplanationFunc: func(_ context.Context, input explanation.RegenerateInput) (*domain.Explanation, error) {
			if input.TopicID != 7 {
				t.Errorf("expected topic id 7, got %d", input.TopicID)
			}
			if input.Level != domain.LevelELI15 {
				t.Errorf("expected level ELI15, got %s", input.Level)
			}
			return &domain.Explanation{ID: 99, TopicID: 7, Level: input.Level, Text: "again", CreatedAt: now}, nil
		},
	}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/explanations/7/regenerate?level=ELI15", nil)
	req.SetPathValue("id", "7")
	rec := httptest.NewRecorder()

	h.Regenerate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp explanationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 99 {
		t.Errorf("expected id 99, got %d", resp.ID)
	}
	if resp.Level != "ELI15" {
		t.Errorf("expected level ELI15, got %q", resp.Level)
	}
}

func TestRegenerate_InvalidLevel(t *testing.T) {
	t.Parallel()

	h := newTestHandler(&explanationServiceMock{})

	req := httptest.NewRequest(http.MethodPost, "/explanations/7/regenerate?level=WRONG", nil)
	req.SetPathValue("id", "7")
	rec := httptest.NewRecorder()

	h.Regenerate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRegenerate_TopicNotFound(t *testing.T) {
	t.Parallel()

	svc := &explanationServiceMock{
		RegenerateExplanationFunc: func(_ context.Context, _ explanation.RegenerateInput) (*domain.Explanation, error) {
			return nil, domain.ErrNotFound
		},
	}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/explanations/999/regenerate?level=ELI5", nil)
	req.SetPathValue("id", "999")
	rec := httptest.NewRecorder()

	h.Regenerate(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}
