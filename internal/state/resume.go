package state

import (
	"context"
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/playctl/internal/db"
)

const (
	// Positions this close to either end are not worth resuming.
	resumeMargin = 5 * time.Second
	// Only the most recently updated positions are kept.
	maxResumeEntries = 200
)

// ResumePosition is where playback of a media reference was left.
type ResumePosition struct {
	URI       string
	Position  time.Duration
	Duration  time.Duration
	Title     string
	UpdatedAt time.Time
}

// Worth returns true if the position is far enough from both ends to be
// restored. An unknown duration only checks the start.
func (p ResumePosition) Worth() bool {
	if p.Position < resumeMargin {
		return false
	}
	return p.Duration <= 0 || p.Position <= p.Duration-resumeMargin
}

func getResume(db *sql.DB, uri string) (*ResumePosition, error) {
	var positionMS int64
	var durationMS sql.NullInt64
	var title sql.NullString
	var updatedAt int64

	row := db.QueryRow(`
		SELECT position_ms, duration_ms, title, updated_at
		FROM resume_positions WHERE uri = ?
	`, uri)
	err := row.Scan(&positionMS, &durationMS, &title, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &ResumePosition{
		URI:       uri,
		Position:  dbutil.FromMillis(positionMS),
		Duration:  dbutil.FromMillis(dbutil.NullInt64Value(durationMS)),
		Title:     dbutil.NullStringValue(title),
		UpdatedAt: time.Unix(updatedAt, 0),
	}, nil
}

// saveResume stores p, or forgets the reference when p is not worth
// resuming, and trims the table to the newest entries.
func saveResume(ctx context.Context, db *sql.DB, p ResumePosition) error {
	return dbutil.WithTx(ctx, db, func(tx *sql.Tx) error {
		if !p.Worth() {
			_, err := tx.Exec(`DELETE FROM resume_positions WHERE uri = ?`, p.URI)
			return err
		}

		var duration, title any
		if p.Duration > 0 {
			duration = dbutil.Millis(p.Duration)
		}
		if p.Title != "" {
			title = p.Title
		}
		updated := p.UpdatedAt
		if updated.IsZero() {
			updated = time.Now()
		}

		_, err := tx.Exec(`
			INSERT INTO resume_positions (uri, position_ms, duration_ms, title, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(uri) DO UPDATE SET
				position_ms = excluded.position_ms,
				duration_ms = excluded.duration_ms,
				title = excluded.title,
				updated_at = excluded.updated_at
		`, p.URI, dbutil.Millis(p.Position), duration, title, updated.Unix())
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			DELETE FROM resume_positions WHERE uri NOT IN (
				SELECT uri FROM resume_positions
				ORDER BY updated_at DESC, uri
				LIMIT ?
			)
		`, maxResumeEntries)
		return err
	})
}

func deleteResume(db *sql.DB, uri string) error {
	_, err := db.Exec(`DELETE FROM resume_positions WHERE uri = ?`, uri)
	return err
}

func recentResumes(db *sql.DB, limit int) ([]ResumePosition, error) {
	rows, err := db.Query(`
		SELECT uri, position_ms, duration_ms, title, updated_at
		FROM resume_positions
		ORDER BY updated_at DESC, uri
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ResumePosition
	for rows.Next() {
		var p ResumePosition
		var positionMS, updatedAt int64
		var durationMS sql.NullInt64
		var title sql.NullString

		if err := rows.Scan(&p.URI, &positionMS, &durationMS, &title, &updatedAt); err != nil {
			return nil, err
		}
		p.Position = dbutil.FromMillis(positionMS)
		p.Duration = dbutil.FromMillis(dbutil.NullInt64Value(durationMS))
		p.Title = dbutil.NullStringValue(title)
		p.UpdatedAt = time.Unix(updatedAt, 0)
		result = append(result, p)
	}
	return result, rows.Err()
}
