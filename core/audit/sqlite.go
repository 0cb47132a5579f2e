package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/railops/inductd/core/model"
)

// SQLiteStore persists runs in a SQLite database. The full run is stored as
// a JSON document alongside indexed columns for the common query axes; the
// UNIQUE constraint on run_id backs the atomic-insert guarantee.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS induction_runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id TEXT UNIQUE NOT NULL,
        created_at INTEGER NOT NULL,
        depot TEXT,
        rule_set_id TEXT,
        record TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_induction_runs_created ON induction_runs(created_at);`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, run model.InductionRun) error {
	b, err := json.Marshal(run)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO induction_runs (run_id, created_at, depot, rule_set_id, record) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Unix(), run.Depot, run.RuleSetID, string(b))
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicateRun
	}
	return err
}

func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]model.InductionRun, error) {
	var args []any
	query := `SELECT record FROM induction_runs WHERE 1=1`
	if !q.Start.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, q.Start.Unix())
	}
	if !q.End.IsZero() {
		query += ` AND created_at <= ?`
		args = append(args, q.End.Unix())
	}
	if q.Depot != "" {
		query += ` AND depot = ?`
		args = append(args, q.Depot)
	}
	if q.RuleSetID != "" {
		query += ` AND rule_set_id = ?`
		args = append(args, q.RuleSetID)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if q.Limit > 0 && q.TrainsetID == "" {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []model.InductionRun
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r model.InductionRun
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("unmarshal run: %w", err)
		}
		// Trainset membership lives inside the JSON document, so that
		// filter is applied after decoding.
		if !matches(r, Query{TrainsetID: q.TrainsetID}) {
			continue
		}
		res = append(res, r)
		if q.Limit > 0 && len(res) == q.Limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
