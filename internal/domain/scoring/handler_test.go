package scoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinscan/clinscan/internal/domain/screening"
)

type stubScorer struct {
	prediction Prediction
	err        error
	got        Features
}

func (s *stubScorer) Score(ctx context.Context, f Features) (Prediction, error) {
	s.got = f
	return s.prediction, s.err
}

func seedAnalysis(t *testing.T, repo screening.AnalysisRepository, a *screening.Analysis) *screening.Analysis {
	t.Helper()
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return a
}

func TestScoreAnalysis(t *testing.T) {
	repo := screening.NewMemoryRepository()
	a := seedAnalysis(t, repo, fullAnalysis())

	scorer := &stubScorer{prediction: Labeled(0.7)}
	h := NewHandler(repo, scorer)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	if err := h.ScoreAnalysis(c); err != nil {
		t.Fatalf("ScoreAnalysis: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp scoreResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Label != "Diabetes" || resp.Probability != 0.7 {
		t.Errorf("got (%q, %v), want (Diabetes, 0.7)", resp.Label, resp.Probability)
	}
	if resp.BestEffort {
		t.Error("best_effort should be false by default")
	}
	if scorer.got.Gender != "Female" {
		t.Errorf("scorer saw gender %q, want Female", scorer.got.Gender)
	}
	if len(resp.Notes) == 0 {
		t.Error("expected explanation notes")
	}
}

func TestScoreAnalysisInsufficientData(t *testing.T) {
	repo := screening.NewMemoryRepository()
	a := seedAnalysis(t, repo, &screening.Analysis{Record: screening.DiagnosisRecord{}})

	h := NewHandler(repo, &stubScorer{prediction: Labeled(0.1)})
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	err := h.ScoreAnalysis(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got %v, want 422", err)
	}
}

func TestScoreAnalysisBestEffort(t *testing.T) {
	repo := screening.NewMemoryRepository()
	a := seedAnalysis(t, repo, &screening.Analysis{Record: screening.DiagnosisRecord{}})

	scorer := &stubScorer{prediction: Labeled(0.2)}
	h := NewHandler(repo, scorer)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/?best_effort=true", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	if err := h.ScoreAnalysis(c); err != nil {
		t.Fatalf("ScoreAnalysis: %v", err)
	}

	var resp scoreResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.BestEffort {
		t.Error("best_effort flag not reflected in response")
	}
	if scorer.got.Age != 30 || scorer.got.Gender != "Male" {
		t.Errorf("scorer saw %v/%q, want population defaults 30/Male", scorer.got.Age, scorer.got.Gender)
	}
}

func TestScoreAnalysisNotFound(t *testing.T) {
	repo := screening.NewMemoryRepository()
	h := NewHandler(repo, &stubScorer{})
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("3b241101-e2bb-4255-8caf-4136c566a962")

	err := h.ScoreAnalysis(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("got %v, want 404", err)
	}
}

func TestScoreAnalysisScorerDown(t *testing.T) {
	repo := screening.NewMemoryRepository()
	a := seedAnalysis(t, repo, fullAnalysis())

	h := NewHandler(repo, &stubScorer{err: ErrScorerUnavailable})
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	err := h.ScoreAnalysis(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadGateway {
		t.Fatalf("got %v, want 502", err)
	}
}
