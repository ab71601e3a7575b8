package screening

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinscan/clinscan/internal/platform/textextract"
)

type Handler struct {
	analyzer  *Analyzer
	repo      AnalysisRepository
	extractor textextract.Extractor
}

func NewHandler(analyzer *Analyzer, repo AnalysisRepository, extractor textextract.Extractor) *Handler {
	return &Handler{analyzer: analyzer, repo: repo, extractor: extractor}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/analyses", h.CreateAnalysis)
	api.GET("/analyses", h.ListAnalyses)
	api.GET("/analyses/:id", h.GetAnalysis)
}

type analyzeRequest struct {
	Text           string `json:"text"`
	HeartDisease   string `json:"heart_disease"`
	SmokingHistory string `json:"smoking_history"`
}

// analysisResponse wraps an Analysis with the explicit reason a verdict is
// missing, so the client can tell "insufficient data" from a lost field.
type analysisResponse struct {
	*Analysis
	VerdictReason string `json:"verdict_reason,omitempty"`
}

func toResponse(a *Analysis) analysisResponse {
	resp := analysisResponse{Analysis: a}
	if a.Verdict == nil {
		resp.VerdictReason = "insufficient data: none of glucose, hba1c or blood pressure found"
	}
	return resp
}

// CreateAnalysis accepts either a JSON body with the extracted text or a
// multipart upload with a "file" part, runs the pipeline and returns the
// diagnosis record plus the overall verdict.
func (h *Handler) CreateAnalysis(c echo.Context) error {
	req, err := h.bindAnalyzeRequest(c)
	if err != nil {
		return err
	}

	in := DeclaredInputs{HeartDisease: req.HeartDisease, SmokingHistory: req.SmokingHistory}
	analysis, err := h.analyzer.Analyze(c.Request().Context(), req.Text, in)
	switch {
	case errors.Is(err, ErrEmptyDocument):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "no extractable text in document")
	case errors.Is(err, ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, "analysis failed")
	}

	return c.JSON(http.StatusCreated, toResponse(analysis))
}

func (h *Handler) bindAnalyzeRequest(c echo.Context) (*analyzeRequest, error) {
	// Multipart: file part holds the document, form fields the answers.
	if file, err := c.FormFile("file"); err == nil {
		src, err := file.Open()
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
		}
		defer src.Close()

		text, err := h.extractor.Extract(c.Request().Context(), src, file.Header.Get("Content-Type"))
		switch {
		case errors.Is(err, textextract.ErrNoText):
			return nil, echo.NewHTTPError(http.StatusUnprocessableEntity, "no extractable text in document")
		case errors.Is(err, textextract.ErrUnsupportedType):
			return nil, echo.NewHTTPError(http.StatusUnsupportedMediaType, err.Error())
		case err != nil:
			return nil, echo.NewHTTPError(http.StatusBadRequest, "text extraction failed")
		}

		return &analyzeRequest{
			Text:           text,
			HeartDisease:   c.FormValue("heart_disease"),
			SmokingHistory: c.FormValue("smoking_history"),
		}, nil
	}

	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return &req, nil
}

func (h *Handler) GetAnalysis(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid analysis id")
	}

	analysis, err := h.repo.GetByID(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "analysis not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, toResponse(analysis))
}

func (h *Handler) ListAnalyses(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	analyses, total, err := h.repo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "list failed")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"analyses": analyses,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}
