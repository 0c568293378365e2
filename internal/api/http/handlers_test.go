package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	api "github.com/vnexam/autograde/internal/api/http"
	"github.com/vnexam/autograde/internal/grading"
	"github.com/vnexam/autograde/internal/grading/pattern"
)

// The exact-match path never reaches the model, so a failing stub is
// enough for handler tests.
type downEmbedder struct{}

func (downEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("model down")
}

type downEntailer struct{}

func (downEntailer) Entail(context.Context, string, string) ([]float64, error) {
	return nil, errors.New("model down")
}

func newEngine() *grading.Engine {
	return grading.NewEngine(downEmbedder{}, downEntailer{})
}

func TestGradeHandlerOK(t *testing.T) {
	h := api.GradeHandler(newEngine())
	body := `{"student_answer":"Hà Nội","model_answer":"Hà Nội","max_points":10}`
	req := httptest.NewRequest(http.MethodPost, "/grade", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var res grading.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Score != 10 {
		t.Fatalf("expected full marks, got %v", res.Score)
	}
}

func TestGradeHandlerBadJSON(t *testing.T) {
	h := api.GradeHandler(newEngine())
	req := httptest.NewRequest(http.MethodPost, "/grade", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestGradeHandlerInvalidPointCap(t *testing.T) {
	h := api.GradeHandler(newEngine())
	body := `{"student_answer":"a","model_answer":"b","max_points":0}`
	req := httptest.NewRequest(http.MethodPost, "/grade", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestGradeHandlerModelFailure(t *testing.T) {
	h := api.GradeHandler(newEngine())
	body := `{"student_answer":"hai câu hoàn toàn khác nhau","model_answer":"quang hợp cần ánh sáng","max_points":10}`
	req := httptest.NewRequest(http.MethodPost, "/grade", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
}

func newStore(t *testing.T) (*pattern.Store, func(string) string) {
	t.Helper()
	keyFn := grading.NewNormalizer(grading.DefaultLexicon()).NormalizeKey
	s := pattern.NewStore(filepath.Join(t.TempDir(), "patterns.json"), keyFn)
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s, keyFn
}

func TestRecordCorrectionHandler(t *testing.T) {
	store, keyFn := newStore(t)
	h := api.RecordCorrectionHandler(store, keyFn, nil)

	body := `{"student_answer":"thủ đô là Hà Nội","model_answer":"Hà Nội","confirmed_score":8,"max_points":10}`
	req := httptest.NewRequest(http.MethodPost, "/corrections", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := store.Lookup("thủ đô là Hà Nội", "Hà Nội", 10); !ok {
		t.Fatalf("correction should be in the store")
	}
}

func TestRecordCorrectionHandlerRejectsBadCap(t *testing.T) {
	store, keyFn := newStore(t)
	h := api.RecordCorrectionHandler(store, keyFn, nil)

	body := `{"student_answer":"a","model_answer":"b","confirmed_score":8,"max_points":0}`
	req := httptest.NewRequest(http.MethodPost, "/corrections", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestRecordCorrectionHandlerRejectsBlank(t *testing.T) {
	store, keyFn := newStore(t)
	h := api.RecordCorrectionHandler(store, keyFn, nil)

	body := `{"student_answer":"  ","model_answer":"b","confirmed_score":8,"max_points":10}`
	req := httptest.NewRequest(http.MethodPost, "/corrections", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestLearningStatsAndClear(t *testing.T) {
	store, keyFn := newStore(t)
	store.RecordCorrection("thủ đô là Hà Nội", "Hà Nội", 8, 10, "")
	_ = keyFn

	rec := httptest.NewRecorder()
	api.LearningStatsHandler(store)(rec, httptest.NewRequest(http.MethodGet, "/learning/stats", nil))
	var stats pattern.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Total != 1 {
		t.Fatalf("got total %d", stats.Total)
	}

	rec = httptest.NewRecorder()
	api.ClearPatternsHandler(store)(rec, httptest.NewRequest(http.MethodDelete, "/learning/patterns", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if st := store.Stats(); st.Total != 0 {
		t.Fatalf("store should be empty, got %d", st.Total)
	}
}
