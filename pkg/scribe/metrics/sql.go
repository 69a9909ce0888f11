package metrics

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver
)

const sqlSchema = `
CREATE TABLE IF NOT EXISTS updates (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	path_label      TEXT NOT NULL,
	wall_ns         INTEGER NOT NULL,
	plan_ns         INTEGER NOT NULL,
	apply_ns        INTEGER NOT NULL,
	deletes         INTEGER NOT NULL,
	inserts         INTEGER NOT NULL,
	set_attributes  INTEGER NOT NULL,
	fix_attributes  INTEGER NOT NULL,
	chars_added     INTEGER NOT NULL,
	chars_deleted   INTEGER NOT NULL,
	moved_children  INTEGER NOT NULL,
	ranges_added    INTEGER NOT NULL,
	ranges_deleted  INTEGER NOT NULL,
	rebuild_subtree INTEGER NOT NULL,
	recorded_at     DATETIME NOT NULL
);
`

// SQLRecorder persists every recorded Update to a SQLite database, the same
// queryable-history role BoltRecorder fills with bbolt: a process can
// accumulate scribe bench runs across invocations and later query them with
// SQL instead of a sequential bucket walk.
type SQLRecorder struct {
	db *sql.DB
}

// OpenSQLRecorder opens (creating if absent) a SQLite database at path and
// applies the updates table schema.
func OpenSQLRecorder(path string) (*SQLRecorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("metrics: open %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("metrics: enable WAL: %w", err)
	}
	if _, err := db.Exec(sqlSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("metrics: apply schema: %w", err)
	}
	return &SQLRecorder{db: db}, nil
}

// Record inserts u as a new row. A write failure is swallowed rather than
// propagated: Recorder.Record has no error return, since observability must
// never perturb the reconcile it is measuring.
func (r *SQLRecorder) Record(u Update) {
	_, _ = r.db.Exec(`
		INSERT INTO updates (
			path_label, wall_ns, plan_ns, apply_ns, deletes, inserts,
			set_attributes, fix_attributes, chars_added, chars_deleted,
			moved_children, ranges_added, ranges_deleted, rebuild_subtree,
			recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.PathLabel, u.WallNs, u.PlanNs, u.ApplyNs, u.Deletes, u.Inserts,
		u.SetAttributes, u.FixAttributes, u.CharsAdded, u.CharsDeleted,
		u.MovedChildren, u.RangesAdded, u.RangesDeleted, u.RebuildSubtree,
		u.RecordedAt,
	)
}

// Recent returns up to limit of the most recently recorded Updates, newest
// first.
func (r *SQLRecorder) Recent(limit int) ([]Update, error) {
	rows, err := r.db.Query(`
		SELECT path_label, wall_ns, plan_ns, apply_ns, deletes, inserts,
			set_attributes, fix_attributes, chars_added, chars_deleted,
			moved_children, ranges_added, ranges_deleted, rebuild_subtree,
			recorded_at
		FROM updates ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("metrics: query recent: %w", err)
	}
	defer rows.Close()

	var out []Update
	for rows.Next() {
		var u Update
		if err := rows.Scan(
			&u.PathLabel, &u.WallNs, &u.PlanNs, &u.ApplyNs, &u.Deletes, &u.Inserts,
			&u.SetAttributes, &u.FixAttributes, &u.CharsAdded, &u.CharsDeleted,
			&u.MovedChildren, &u.RangesAdded, &u.RangesDeleted, &u.RebuildSubtree,
			&u.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("metrics: scan row: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (r *SQLRecorder) Close() error {
	return r.db.Close()
}
