package scoring

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinscan/clinscan/internal/domain/screening"
)

type Handler struct {
	repo   screening.AnalysisRepository
	scorer Scorer
}

func NewHandler(repo screening.AnalysisRepository, scorer Scorer) *Handler {
	return &Handler{repo: repo, scorer: scorer}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/analyses/:id/score", h.ScoreAnalysis)
}

type scoreResponse struct {
	AnalysisID  uuid.UUID `json:"analysis_id"`
	Features    Features  `json:"features"`
	Probability float64   `json:"probability"`
	Label       string    `json:"label"`
	BestEffort  bool      `json:"best_effort"`
	Notes       []string  `json:"notes"`
}

// ScoreAnalysis runs the external risk model over a stored analysis. By
// default every model input must have been extracted; ?best_effort=true
// substitutes population defaults for absent fields instead.
func (h *Handler) ScoreAnalysis(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid analysis id")
	}

	analysis, err := h.repo.GetByID(c.Request().Context(), id)
	if errors.Is(err, screening.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "analysis not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}

	bestEffort := c.QueryParam("best_effort") == "true"

	var features Features
	if bestEffort {
		features = DeriveBestEffort(analysis)
	} else {
		features, err = Derive(analysis)
		if errors.Is(err, ErrInsufficientData) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "feature derivation failed")
		}
	}

	prediction, err := h.scorer.Score(c.Request().Context(), features)
	if errors.Is(err, ErrScorerUnavailable) {
		return echo.NewHTTPError(http.StatusBadGateway, "risk model unavailable")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "scoring failed")
	}

	return c.JSON(http.StatusOK, scoreResponse{
		AnalysisID:  analysis.ID,
		Features:    features,
		Probability: prediction.Probability,
		Label:       prediction.Label,
		BestEffort:  bestEffort,
		Notes:       Explain(features, prediction),
	})
}
