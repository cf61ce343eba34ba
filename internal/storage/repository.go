package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ore/internal/core"

	_ "modernc.org/sqlite"
)

type (
	// SQLiteRepository persists allocation plans for the history view
	// and the sheet sync worker.
	SQLiteRepository struct {
		db *sql.DB
	}

	// StoredPlan is a plan plus its persistence metadata.
	StoredPlan struct {
		ID        int64
		CreatedAt time.Time
		SyncedAt  *time.Time
		Plan      *core.Plan
	}

	// PlanSummary is the compact listing used by `ore history`.
	PlanSummary struct {
		ID         int64
		CreatedAt  time.Time
		Strategy   core.Strategy
		Days       int
		Categories int
		TotalHours float64
		Synced     bool
	}
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SavePlan stores a full plan and returns its id.
func (r *SQLiteRepository) SavePlan(ctx context.Context, p *core.Plan) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt := time.Now().UTC().Format(time.RFC3339)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO plans (created_at, strategy, resolution, normalized, remainder_hours)
		 VALUES (?, ?, ?, ?, ?)`,
		createdAt, string(p.Strategy), float64(p.Resolution), p.Normalized, p.Remainder)
	if err != nil {
		return 0, fmt.Errorf("insert plan: %w", err)
	}
	planID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("plan id: %w", err)
	}

	for j, w := range p.Weights {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO plan_weights (plan_id, position, weight, target_hours) VALUES (?, ?, ?, ?)`,
			planID, j, w, p.Targets[j]); err != nil {
			return 0, fmt.Errorf("insert weight %d: %w", j, err)
		}
	}

	for i, row := range p.Rows {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO plan_rows (plan_id, position, day, total_hours) VALUES (?, ?, ?, ?)`,
			planID, i, row.Day, row.Total); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", i, err)
		}
		for j, h := range row.Hours {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO plan_cells (plan_id, row_position, category_position, hours) VALUES (?, ?, ?, ?)`,
				planID, i, j, h); err != nil {
				return 0, fmt.Errorf("insert cell %d/%d: %w", i, j, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Plan saved",
		"plan_id", planID,
		"strategy", p.Strategy,
		"days", len(p.Rows),
		"categories", len(p.Weights))

	return planID, nil
}

// GetPlan loads a stored plan by id, reconstructing the full matrix.
func (r *SQLiteRepository) GetPlan(ctx context.Context, id int64) (*StoredPlan, error) {
	var (
		createdAt string
		syncedAt  sql.NullString
		strategy  string
		p         core.Plan
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT created_at, synced_at, strategy, resolution, normalized, remainder_hours
		 FROM plans WHERE id = ?`, id).
		Scan(&createdAt, &syncedAt, &strategy, &p.Resolution, &p.Normalized, &p.Remainder)
	if err != nil {
		return nil, fmt.Errorf("load plan %d: %w", id, err)
	}
	p.Strategy = core.Strategy(strategy)

	rows, err := r.db.QueryContext(ctx,
		`SELECT weight, target_hours FROM plan_weights WHERE plan_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var w, target float64
		if err := rows.Scan(&w, &target); err != nil {
			return nil, fmt.Errorf("scan weight: %w", err)
		}
		p.Weights = append(p.Weights, w)
		p.Targets = append(p.Targets, target)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weights: %w", err)
	}

	dayRows, err := r.db.QueryContext(ctx,
		`SELECT position, day, total_hours FROM plan_rows WHERE plan_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load rows: %w", err)
	}
	defer dayRows.Close()
	for dayRows.Next() {
		var (
			pos   int
			day   string
			total float64
		)
		if err := dayRows.Scan(&pos, &day, &total); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		p.Rows = append(p.Rows, core.Row{Day: day, Total: total, Hours: make([]float64, len(p.Weights))})
	}
	if err := dayRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	cells, err := r.db.QueryContext(ctx,
		`SELECT row_position, category_position, hours FROM plan_cells
		 WHERE plan_id = ? ORDER BY row_position, category_position`, id)
	if err != nil {
		return nil, fmt.Errorf("load cells: %w", err)
	}
	defer cells.Close()
	for cells.Next() {
		var (
			ri, cj int
			h      float64
		)
		if err := cells.Scan(&ri, &cj, &h); err != nil {
			return nil, fmt.Errorf("scan cell: %w", err)
		}
		if ri < len(p.Rows) && cj < len(p.Rows[ri].Hours) {
			p.Rows[ri].Hours[cj] = h
		}
	}
	if err := cells.Err(); err != nil {
		return nil, fmt.Errorf("iterate cells: %w", err)
	}

	sp := &StoredPlan{ID: id, Plan: &p}
	sp.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if syncedAt.Valid {
		ts, err := time.Parse(time.RFC3339, syncedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse synced_at: %w", err)
		}
		sp.SyncedAt = &ts
	}
	return sp, nil
}

// ListPlans returns the most recent plan summaries, newest first.
func (r *SQLiteRepository) ListPlans(ctx context.Context, limit int) ([]PlanSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.created_at, p.strategy, p.synced_at,
		        (SELECT COUNT(*) FROM plan_rows pr WHERE pr.plan_id = p.id),
		        (SELECT COUNT(*) FROM plan_weights pw WHERE pw.plan_id = p.id),
		        COALESCE((SELECT SUM(pr.total_hours) FROM plan_rows pr WHERE pr.plan_id = p.id), 0)
		 FROM plans p ORDER BY p.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var out []PlanSummary
	for rows.Next() {
		var (
			s         PlanSummary
			createdAt string
			syncedAt  sql.NullString
			strategy  string
		)
		if err := rows.Scan(&s.ID, &createdAt, &strategy, &syncedAt, &s.Days, &s.Categories, &s.TotalHours); err != nil {
			return nil, fmt.Errorf("scan plan summary: %w", err)
		}
		s.Strategy = core.Strategy(strategy)
		s.Synced = syncedAt.Valid
		if s.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListUnsynced returns ids of plans not yet pushed to the sheet,
// oldest first.
func (r *SQLiteRepository) ListUnsynced(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM plans WHERE synced_at IS NULL ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unsynced: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MarkSynced records that a plan reached the sheet.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE plans SET synced_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("plan %d not found", id)
	}
	return nil
}
