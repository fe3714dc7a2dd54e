package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sw33tLie/genscope/pkg/scope"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a program has never been archived.
var ErrNotFound = errors.New("program not found")

type DB struct {
	sql *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS programs (
  slug              TEXT PRIMARY KEY,
  platform          TEXT NOT NULL,
  program_url       TEXT NOT NULL,
  program_json      TEXT NOT NULL,
  first_seen_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  last_seen_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS assets (
  id                INTEGER PRIMARY KEY,
  slug              TEXT NOT NULL,
  target_normalized TEXT NOT NULL,
  target_raw        TEXT,
  category          TEXT NOT NULL,
  name              TEXT,
  run_id            INTEGER NOT NULL DEFAULT 0,
  first_seen_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  last_seen_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(slug, target_normalized, category)
);
CREATE INDEX IF NOT EXISTS idx_assets_slug ON assets(slug);
CREATE TABLE IF NOT EXISTS payouts (
  id                INTEGER PRIMARY KEY,
  slug              TEXT NOT NULL,
  level             TEXT NOT NULL,
  level_raw         TEXT NOT NULL,
  category          TEXT NOT NULL,
  amount            TEXT NOT NULL,
  occurrence        INTEGER NOT NULL DEFAULT 0,
  sort              INTEGER NOT NULL,
  run_id            INTEGER NOT NULL DEFAULT 0,
  first_seen_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  last_seen_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(slug, level, category, occurrence)
);
CREATE INDEX IF NOT EXISTS idx_payouts_slug ON payouts(slug);
CREATE TABLE IF NOT EXISTS scope_changes (
  id                INTEGER PRIMARY KEY,
  occurred_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  slug              TEXT NOT NULL,
  platform          TEXT NOT NULL,
  program_url       TEXT NOT NULL,
  kind              TEXT NOT NULL CHECK (kind IN ('asset','payout')),
  subject           TEXT NOT NULL,
  category          TEXT NOT NULL,
  detail            TEXT,
  change_type       TEXT NOT NULL CHECK (change_type IN ('added','updated','removed'))
);
CREATE INDEX IF NOT EXISTS idx_changes_time ON scope_changes(occurred_at);
CREATE INDEX IF NOT EXISTS idx_changes_slug ON scope_changes(slug, occurred_at);
`

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// ProgramExists reports whether a slug has been archived before.
func (d *DB) ProgramExists(ctx context.Context, slug string) (bool, error) {
	var n int
	if err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM programs WHERE slug = ?", slug).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// SaveProgram archives one extraction run of a program. Assets and payouts
// missing from the run are removed. Every difference with the previous run is
// logged to scope_changes and returned.
func (d *DB) SaveProgram(ctx context.Context, platform, slug, programURL string, p scope.Program) ([]Change, error) {
	now := time.Now().UTC()
	runID := now.UnixNano()
	programURL = NormalizeProgramURL(programURL)

	data, err := p.JSON()
	if err != nil {
		return nil, err
	}

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	base := Change{OccurredAt: now, Slug: slug, Platform: platform, ProgramURL: programURL}

	assetChanges, err := saveAssets(ctx, tx, base, runID, p.Assets)
	if err != nil {
		return nil, err
	}
	payoutChanges, err := savePayouts(ctx, tx, base, runID, p.Payouts)
	if err != nil {
		return nil, err
	}
	changes := append(assetChanges, payoutChanges...)

	for _, c := range changes {
		if _, err := tx.ExecContext(ctx, `INSERT INTO scope_changes(occurred_at, slug, platform, program_url, kind, subject, category, detail, change_type) VALUES(CURRENT_TIMESTAMP,?,?,?,?,?,?,?,?)`,
			c.Slug, c.Platform, c.ProgramURL, c.Kind, c.Subject, c.Category, nullIfEmpty(c.Detail), c.ChangeType); err != nil {
			return nil, err
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO programs(slug, platform, program_url, program_json) VALUES(?,?,?,?)
ON CONFLICT(slug) DO UPDATE SET platform = excluded.platform, program_url = excluded.program_url, program_json = excluded.program_json, last_seen_at = CURRENT_TIMESTAMP`,
		slug, platform, programURL, data); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return changes, nil
}

func saveAssets(ctx context.Context, tx *sql.Tx, base Change, runID int64, assets []scope.Asset) ([]Change, error) {
	rows, err := tx.QueryContext(ctx, "SELECT target_normalized, category, target_raw, name FROM assets WHERE slug = ?", base.Slug)
	if err != nil {
		return nil, err
	}

	type existing struct{ Raw, Name string }
	existingMap := make(map[string]existing)
	for rows.Next() {
		var (
			tn, cat   string
			raw, name sql.NullString
		)
		if err := rows.Scan(&tn, &cat, &raw, &name); err != nil {
			rows.Close()
			return nil, err
		}
		existingMap[identityKey(tn, cat)] = existing{Raw: raw.String, Name: name.String}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	var changes []Change
	seen := make(map[string]bool)
	for _, a := range assets {
		tn := NormalizeTarget(a.Target)
		cat := a.Category.String()
		key := identityKey(tn, cat)
		if seen[key] {
			continue
		}
		seen[key] = true

		change := base
		change.Kind, change.Subject, change.Category, change.Detail = KindAsset, tn, cat, a.Name

		ex, existed := existingMap[key]
		switch {
		case !existed:
			if _, err := tx.ExecContext(ctx, `INSERT INTO assets(slug, target_normalized, target_raw, category, name, run_id) VALUES(?,?,?,?,?,?)`,
				base.Slug, tn, nullIfEmpty(a.Target), cat, nullIfEmpty(a.Name), runID); err != nil {
				return nil, err
			}
			change.ChangeType = ChangeAdded
			changes = append(changes, change)
		case ex.Raw != a.Target || ex.Name != a.Name:
			if _, err := tx.ExecContext(ctx, `UPDATE assets SET target_raw = ?, name = ?, run_id = ?, last_seen_at = CURRENT_TIMESTAMP WHERE slug = ? AND target_normalized = ? AND category = ?`,
				nullIfEmpty(a.Target), nullIfEmpty(a.Name), runID, base.Slug, tn, cat); err != nil {
				return nil, err
			}
			change.ChangeType = ChangeUpdated
			changes = append(changes, change)
		default:
			if _, err := tx.ExecContext(ctx, `UPDATE assets SET run_id = ?, last_seen_at = CURRENT_TIMESTAMP WHERE slug = ? AND target_normalized = ? AND category = ?`,
				runID, base.Slug, tn, cat); err != nil {
				return nil, err
			}
		}
	}

	// Sweep: entries not touched in this run are gone from the page
	stale, err := tx.QueryContext(ctx, "SELECT target_normalized, category, name FROM assets WHERE slug = ? AND run_id != ?", base.Slug, runID)
	if err != nil {
		return nil, err
	}
	for stale.Next() {
		var name sql.NullString
		change := base
		change.Kind, change.ChangeType = KindAsset, ChangeRemoved
		if err := stale.Scan(&change.Subject, &change.Category, &name); err != nil {
			stale.Close()
			return nil, err
		}
		change.Detail = name.String
		changes = append(changes, change)
	}
	if err := stale.Err(); err != nil {
		stale.Close()
		return nil, err
	}
	if err := stale.Close(); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM assets WHERE slug = ? AND run_id != ?", base.Slug, runID); err != nil {
		return nil, err
	}

	return changes, nil
}

func savePayouts(ctx context.Context, tx *sql.Tx, base Change, runID int64, payouts []scope.Payout) ([]Change, error) {
	rows, err := tx.QueryContext(ctx, "SELECT level, category, occurrence, amount FROM payouts WHERE slug = ?", base.Slug)
	if err != nil {
		return nil, err
	}

	existingMap := make(map[string]string)
	for rows.Next() {
		var (
			level, cat, amount string
			occurrence         int
		)
		if err := rows.Scan(&level, &cat, &occurrence, &amount); err != nil {
			rows.Close()
			return nil, err
		}
		existingMap[payoutKey(level, cat, occurrence)] = amount
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	var changes []Change
	// A category may hold several tier tables, so the same level can repeat.
	occurrences := make(map[string]int)
	for _, p := range payouts {
		level := payoutSubject(p.Level)
		cat := p.Category.String()
		occurrence := occurrences[identityKey(level, cat)]
		occurrences[identityKey(level, cat)]++
		key := payoutKey(level, cat, occurrence)

		change := base
		change.Kind, change.Subject, change.Category, change.Detail = KindPayout, p.Level, cat, p.Amount

		amount, existed := existingMap[key]
		switch {
		case !existed:
			if _, err := tx.ExecContext(ctx, `INSERT INTO payouts(slug, level, level_raw, category, occurrence, amount, sort, run_id) VALUES(?,?,?,?,?,?,?,?)`,
				base.Slug, level, p.Level, cat, occurrence, p.Amount, p.Order, runID); err != nil {
				return nil, err
			}
			change.ChangeType = ChangeAdded
			changes = append(changes, change)
		default:
			if _, err := tx.ExecContext(ctx, `UPDATE payouts SET level_raw = ?, amount = ?, sort = ?, run_id = ?, last_seen_at = CURRENT_TIMESTAMP WHERE slug = ? AND level = ? AND category = ? AND occurrence = ?`,
				p.Level, p.Amount, p.Order, runID, base.Slug, level, cat, occurrence); err != nil {
				return nil, err
			}
			if amount != p.Amount {
				change.ChangeType = ChangeUpdated
				changes = append(changes, change)
			}
		}
	}

	stale, err := tx.QueryContext(ctx, "SELECT level_raw, category, amount FROM payouts WHERE slug = ? AND run_id != ?", base.Slug, runID)
	if err != nil {
		return nil, err
	}
	for stale.Next() {
		change := base
		change.Kind, change.ChangeType = KindPayout, ChangeRemoved
		if err := stale.Scan(&change.Subject, &change.Category, &change.Detail); err != nil {
			stale.Close()
			return nil, err
		}
		changes = append(changes, change)
	}
	if err := stale.Err(); err != nil {
		stale.Close()
		return nil, err
	}
	if err := stale.Close(); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM payouts WHERE slug = ? AND run_id != ?", base.Slug, runID); err != nil {
		return nil, err
	}

	return changes, nil
}

// LoadProgram returns the program as it was saved by the last run.
func (d *DB) LoadProgram(ctx context.Context, slug string) (scope.Program, error) {
	var data string
	err := d.sql.QueryRowContext(ctx, "SELECT program_json FROM programs WHERE slug = ?", slug).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return scope.Program{}, ErrNotFound
	}
	if err != nil {
		return scope.Program{}, err
	}
	return scope.ParseProgram(data)
}

// ListOptions controls selection when listing assets.
type ListOptions struct {
	Slug     string
	Category string
}

// ListAssets returns archived assets matching filters.
func (d *DB) ListAssets(ctx context.Context, opts ListOptions) ([]AssetEntry, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if opts.Slug != "" {
		where += " AND a.slug = ?"
		args = append(args, opts.Slug)
	}
	if opts.Category != "" {
		where += " AND a.category = ?"
		args = append(args, opts.Category)
	}

	q := "SELECT a.slug, p.platform, p.program_url, a.target_normalized, a.target_raw, a.category, a.name FROM assets a JOIN programs p ON p.slug = a.slug " + where + " ORDER BY a.slug, a.target_normalized"
	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AssetEntry
	for rows.Next() {
		var e AssetEntry
		var rawNS, nameNS sql.NullString
		if err := rows.Scan(&e.Slug, &e.Platform, &e.ProgramURL, &e.TargetNormalized, &rawNS, &e.Category, &nameNS); err != nil {
			return nil, err
		}
		e.TargetRaw = rawNS.String
		e.Name = nameNS.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRecentChanges returns the most recent N changes across all programs.
func (d *DB) ListRecentChanges(ctx context.Context, limit int) ([]Change, error) {
	if limit <= 0 {
		limit = 50
	}
	q := "SELECT occurred_at, slug, platform, program_url, kind, subject, category, detail, change_type FROM scope_changes ORDER BY occurred_at DESC, id DESC LIMIT ?"
	rows, err := d.sql.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := []Change{}
	for rows.Next() {
		var c Change
		var occurredAt string
		var detail sql.NullString
		if err := rows.Scan(&occurredAt, &c.Slug, &c.Platform, &c.ProgramURL, &c.Kind, &c.Subject, &c.Category, &detail, &c.ChangeType); err != nil {
			return nil, err
		}
		c.OccurredAt = parseTimestamp(occurredAt)
		c.Detail = detail.String
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return changes, nil
}

func (d *DB) GetStats(ctx context.Context) ([]PlatformStats, error) {
	query := `
		SELECT
			p.platform,
			COUNT(DISTINCT p.slug),
			(SELECT COUNT(*) FROM assets a JOIN programs pa ON pa.slug = a.slug WHERE pa.platform = p.platform),
			(SELECT COUNT(*) FROM payouts y JOIN programs py ON py.slug = y.slug WHERE py.platform = p.platform)
		FROM
			programs p
		GROUP BY
			p.platform
		ORDER BY
			p.platform;
	`
	rows, err := d.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []PlatformStats
	for rows.Next() {
		var s PlatformStats
		if err := rows.Scan(&s.Platform, &s.ProgramCount, &s.AssetCount, &s.PayoutCount); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// parseTimestamp reads SQLite CURRENT_TIMESTAMP values, which the driver may
// hand back in either layout.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
