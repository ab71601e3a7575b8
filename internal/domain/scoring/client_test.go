package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestClientScore(t *testing.T) {
	var got Features
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			t.Errorf("path = %q, want /predict", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode features: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]float64{"probability": 0.82})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zerolog.Nop())
	p, err := c.Score(context.Background(), Features{Gender: "Male", Age: 50, GlucoseMgDL: 180})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if p.Probability != 0.82 || p.Label != "Diabetes" {
		t.Errorf("got (%v, %q), want (0.82, Diabetes)", p.Probability, p.Label)
	}
	if got.Gender != "Male" || got.Age != 50 || got.GlucoseMgDL != 180 {
		t.Errorf("server saw %+v", got)
	}
}

func TestClientScoreServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zerolog.Nop())
	_, err := c.Score(context.Background(), Features{})
	if !errors.Is(err, ErrScorerUnavailable) {
		t.Fatalf("got %v, want ErrScorerUnavailable", err)
	}
}

func TestClientScoreUnreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", time.Second, zerolog.Nop())
	_, err := c.Score(context.Background(), Features{})
	if !errors.Is(err, ErrScorerUnavailable) {
		t.Fatalf("got %v, want ErrScorerUnavailable", err)
	}
}

func TestLabeled(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{0.0, "Normal"},
		{0.49, "Normal"},
		{0.5, "Diabetes"},
		{0.93, "Diabetes"},
	}
	for _, tt := range tests {
		if got := Labeled(tt.p).Label; got != tt.want {
			t.Errorf("Labeled(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}
