package screening

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type analysisRepoPG struct{ pool *pgxpool.Pool }

// NewAnalysisRepoPG returns an AnalysisRepository backed by the analysis
// table. The diagnosis record is stored as JSONB so the read path returns
// exactly what the analyzer produced.
func NewAnalysisRepoPG(pool *pgxpool.Pool) AnalysisRepository {
	return &analysisRepoPG{pool: pool}
}

func (r *analysisRepoPG) Create(ctx context.Context, a *Analysis) error {
	a.ID = uuid.New()

	record, err := json.Marshal(a.Record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	var verdictLabel, verdictSeverity *string
	if a.Verdict != nil {
		verdictLabel = &a.Verdict.Label
		s := string(a.Verdict.Severity)
		verdictSeverity = &s
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO analysis (id, heart_disease, smoking_history, record, verdict_label, verdict_severity)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at`,
		a.ID, a.HeartDisease, a.SmokingHistory, record, verdictLabel, verdictSeverity)
	if err := row.Scan(&a.CreatedAt); err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

const analysisCols = `id, heart_disease, smoking_history, record, verdict_label, verdict_severity, created_at`

func (r *analysisRepoPG) scan(row pgx.Row) (*Analysis, error) {
	var (
		a               Analysis
		record          []byte
		verdictLabel    *string
		verdictSeverity *string
	)
	err := row.Scan(&a.ID, &a.HeartDisease, &a.SmokingHistory, &record, &verdictLabel, &verdictSeverity, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(record, &a.Record); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	if verdictLabel != nil {
		a.Verdict = &OverallVerdict{Label: *verdictLabel}
		if verdictSeverity != nil {
			a.Verdict.Severity = Severity(*verdictSeverity)
		}
	}
	return &a, nil
}

func (r *analysisRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	a, err := r.scan(r.pool.QueryRow(ctx,
		`SELECT `+analysisCols+` FROM analysis WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	return a, nil
}

func (r *analysisRepoPG) List(ctx context.Context, limit, offset int) ([]*Analysis, int, error) {
	if limit <= 0 {
		limit = 50
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM analysis`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count analyses: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+analysisCols+` FROM analysis
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var out []*Analysis
	for rows.Next() {
		a, err := r.scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan analysis: %w", err)
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}
