package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ErrScorerUnavailable means the risk model endpoint could not be reached
// or returned a non-success response.
var ErrScorerUnavailable = errors.New("scoring: risk model unavailable")

// Prediction is the model's answer for one feature vector.
type Prediction struct {
	Probability float64 `json:"probability"`
	Label       string  `json:"label"`
}

// Scorer asks an external model for a diabetes risk probability.
type Scorer interface {
	Score(ctx context.Context, f Features) (Prediction, error)
}

// Client talks to the risk model over HTTP. The endpoint accepts the
// Features JSON and answers {"probability": p}; the label is derived here
// so every caller applies the same threshold.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// decisionThreshold is the probability at or above which the model's
// answer is reported as Diabetes.
const decisionThreshold = 0.5

func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) Score(ctx context.Context, f Features) (Prediction, error) {
	body, err := json.Marshal(f)
	if err != nil {
		return Prediction{}, fmt.Errorf("marshal features: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return Prediction{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("risk model request failed")
		return Prediction{}, fmt.Errorf("%w: %v", ErrScorerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("risk model returned error")
		return Prediction{}, fmt.Errorf("%w: status %d", ErrScorerUnavailable, resp.StatusCode)
	}

	var out struct {
		Probability float64 `json:"probability"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Prediction{}, fmt.Errorf("%w: decode response: %v", ErrScorerUnavailable, err)
	}

	return Labeled(out.Probability), nil
}

// Labeled applies the decision threshold to a raw probability.
func Labeled(p float64) Prediction {
	label := "Normal"
	if p >= decisionThreshold {
		label = "Diabetes"
	}
	return Prediction{Probability: p, Label: label}
}
