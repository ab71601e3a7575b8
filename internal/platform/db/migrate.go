package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// migration is a single schema change applied in order.
type migration struct {
	version int
	name    string
	sql     string
}

// migrations is the ordered schema history. Versions are append-only;
// never edit an applied entry.
var migrations = []migration{
	{
		version: 1,
		name:    "analysis",
		sql: `CREATE TABLE IF NOT EXISTS analysis (
    id UUID PRIMARY KEY,
    heart_disease TEXT NOT NULL DEFAULT '',
    smoking_history TEXT NOT NULL DEFAULT '',
    record JSONB NOT NULL,
    verdict_label TEXT,
    verdict_severity TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_analysis_created_at ON analysis (created_at DESC)`,
	},
}

// Migrate applies every pending migration. Applied versions are tracked in
// a _migrations table so reruns are no-ops.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS _migrations (
    version INTEGER PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    applied_at TIMESTAMPTZ DEFAULT NOW()
)`)
	if err != nil {
		return fmt.Errorf("create _migrations table: %w", err)
	}

	for _, m := range migrations {
		var applied bool
		err := pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM _migrations WHERE version = $1)`, m.version).Scan(&applied)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.version, err)
		}
		if applied {
			continue
		}

		if _, err := pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %d (%s): %w", m.version, m.name, err)
		}
		if _, err := pool.Exec(ctx,
			`INSERT INTO _migrations (version, name) VALUES ($1, $2)`, m.version, m.name); err != nil {
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
	}
	return nil
}
