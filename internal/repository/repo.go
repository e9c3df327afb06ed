package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sonroyaalmerol/tubevoice/internal/stream"
)

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db, now: time.Now} }

// RecordResolution stores a finished resolution. It satisfies stream.Recorder.
func (r *Repo) RecordResolution(ctx context.Context, rep stream.Report) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO resolutions(request_id, video_id, source, url, ok, attempts, elapsed_ms, created_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		rep.RequestID, rep.VideoID, rep.Source, rep.URL, boolToInt(rep.OK),
		rep.Attempts, rep.Elapsed.Milliseconds(), r.now().Unix(),
	)
	return err
}

// RecentResolutions returns the newest rows first.
func (r *Repo) RecentResolutions(ctx context.Context, limit int) ([]Resolution, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, request_id, video_id, source, url, ok, attempts, elapsed_ms, created_at
		FROM resolutions ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resolution
	for rows.Next() {
		var (
			res       Resolution
			ok        int
			elapsedMs int64
			created   int64
		)
		if err := rows.Scan(&res.ID, &res.RequestID, &res.VideoID, &res.Source, &res.URL,
			&ok, &res.Attempts, &elapsedMs, &created); err != nil {
			return nil, err
		}
		res.OK = ok != 0
		res.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		res.CreatedAt = time.Unix(created, 0)
		out = append(out, res)
	}
	return out, rows.Err()
}

// LastResolution returns the newest row for videoID, or sql.ErrNoRows.
func (r *Repo) LastResolution(ctx context.Context, videoID string) (*Resolution, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, request_id, video_id, source, url, ok, attempts, elapsed_ms, created_at
		FROM resolutions WHERE video_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`, videoID)

	var (
		res       Resolution
		ok        int
		elapsedMs int64
		created   int64
	)
	if err := row.Scan(&res.ID, &res.RequestID, &res.VideoID, &res.Source, &res.URL,
		&ok, &res.Attempts, &elapsedMs, &created); err != nil {
		return nil, err
	}
	res.OK = ok != 0
	res.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	res.CreatedAt = time.Unix(created, 0)
	return &res, nil
}

// SourceStats groups rows created at or after since by winning source.
func (r *Repo) SourceStats(ctx context.Context, since time.Time) ([]SourceStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT source, COUNT(*), COALESCE(AVG(elapsed_ms), 0)
		FROM resolutions WHERE created_at >= ?
		GROUP BY source ORDER BY COUNT(*) DESC, source ASC`, since.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SourceStat
	for rows.Next() {
		var s SourceStat
		if err := rows.Scan(&s.Source, &s.Count, &s.AvgMs); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// PruneBefore deletes rows older than t.
func (r *Repo) PruneBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM resolutions WHERE created_at < ?`, t.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
