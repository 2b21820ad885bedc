package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
)

// ChecklistRepository persists checked-state rows keyed by
// (owner_id, property_id, item_id). Batches arrive pre-coalesced from the
// sync layer; the upsert makes replays harmless.
type ChecklistRepository struct {
	db *sql.DB
}

func NewChecklistRepository(db *sql.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

func (r *ChecklistRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082102)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS checklist_state (
	owner_id TEXT NOT NULL,
	property_id TEXT NOT NULL,
	item_id TEXT NOT NULL,
	phase_id INTEGER NOT NULL,
	checked BOOLEAN NOT NULL,
	checked_at TIMESTAMPTZ,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (owner_id, property_id, item_id)
);

CREATE INDEX IF NOT EXISTS idx_checklist_state_scope ON checklist_state(owner_id, property_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ChecklistRepository) LoadCheckedState(ctx context.Context, ownerID, propertyID string) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT item_id, checked
FROM checklist_state
WHERE owner_id = $1 AND property_id = $2
`, ownerID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("query checklist state: %w", err)
	}
	defer rows.Close()

	state := make(map[string]bool)
	for rows.Next() {
		var itemID string
		var checked bool
		if err := rows.Scan(&itemID, &checked); err != nil {
			return nil, fmt.Errorf("scan checklist row: %w", err)
		}
		state[itemID] = checked
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checklist rows: %w", err)
	}
	return state, nil
}

func (r *ChecklistRepository) UpsertEntries(ctx context.Context, ownerID, propertyID string, entries []domain.ChecklistEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `
INSERT INTO checklist_state (owner_id, property_id, item_id, phase_id, checked, checked_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
ON CONFLICT (owner_id, property_id, item_id)
DO UPDATE SET checked = EXCLUDED.checked, checked_at = EXCLUDED.checked_at, updated_at = now()
`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		if _, err := stmt.ExecContext(ctx, ownerID, propertyID, entry.ItemID, entry.PhaseID, entry.Checked, entry.CheckedAt); err != nil {
			return fmt.Errorf("upsert item %s: %w", entry.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert tx: %w", err)
	}
	return nil
}
