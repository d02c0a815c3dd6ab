package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// ScanFilters narrows List.
type ScanFilters struct {
	Status ScanStatus
	Since  time.Time
	Limit  int
}

// ScanRepo handles the scan journal.
type ScanRepo struct {
	db *sql.DB
}

func NewScanRepo(db *sql.DB) *ScanRepo { return &ScanRepo{db: db} }

// Upsert inserts a scan or updates its mutable columns; started_at is kept from the first insert.
func (r *ScanRepo) Upsert(ctx context.Context, s Scan) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO scans(id, status, image_count, fingerprints, asset_url, started_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 status=excluded.status,
	 image_count=excluded.image_count,
	 fingerprints=excluded.fingerprints,
	 asset_url=COALESCE(excluded.asset_url, scans.asset_url),
	 updated_at=excluded.updated_at;
	`, s.ID, string(s.Status), s.ImageCount, strings.Join(s.Fingerprints, ","), s.AssetURL, s.StartedAt.UTC(), s.UpdatedAt.UTC())
	return err
}

func (r *ScanRepo) UpdateStatus(ctx context.Context, id string, status ScanStatus, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE scans SET status = ?, updated_at = ? WHERE id = ?`, string(status), at.UTC(), id)
	return err
}

func (r *ScanRepo) Get(ctx context.Context, id string) (*Scan, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, status, image_count, fingerprints, asset_url, started_at, updated_at
	FROM scans WHERE id = ?`, id)
	s, err := scanRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// List returns scans newest first.
func (r *ScanRepo) List(ctx context.Context, f ScanFilters) ([]Scan, error) {
	var where []string
	var args []interface{}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if !f.Since.IsZero() {
		where = append(where, "started_at >= ?")
		args = append(args, f.Since.UTC())
	}
	q := `SELECT id, status, image_count, fingerprints, asset_url, started_at, updated_at FROM scans`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY started_at DESC, id"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Scan
	for rows.Next() {
		s, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Count reports journal size per status.
func (r *ScanRepo) Count(ctx context.Context) (map[ScanStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM scans GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[ScanStatus]int{}
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		out[ScanStatus(st)] = n
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (Scan, error) {
	var s Scan
	var status, fps string
	var asset sql.NullString
	if err := row.Scan(&s.ID, &status, &s.ImageCount, &fps, &asset, &s.StartedAt, &s.UpdatedAt); err != nil {
		return Scan{}, err
	}
	s.Status = ScanStatus(status)
	if fps != "" {
		s.Fingerprints = strings.Split(fps, ",")
	}
	if asset.Valid {
		v := asset.String
		s.AssetURL = &v
	}
	return s, nil
}
