package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
)

// SQLiteSignalRepo is the default append-only signal log.
type SQLiteSignalRepo struct {
	db db.DBTX
}

func NewSQLiteSignalRepo(conn db.DBTX) *SQLiteSignalRepo {
	return &SQLiteSignalRepo{db: conn}
}

func (r *SQLiteSignalRepo) Append(ctx context.Context, s *domain.ActivitySignal) error {
	concepts, err := encodeStrings(s.Concepts)
	if err != nil {
		return err
	}
	query := `INSERT INTO activity_signals (id, user_id, kind, raw_text, concepts_json, observed_at,
		duration_sec, detected_due_date, title) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		s.UserID,
		string(s.Kind),
		s.RawText,
		concepts,
		formatTime(s.ObservedAt),
		nullableIntToValue(s.DurationSec),
		nullableTimeToString(s.DetectedDueDate),
		s.Title,
	)
	if err != nil {
		return fmt.Errorf("inserting activity signal: %w", err)
	}
	return nil
}

func (r *SQLiteSignalRepo) FetchRecentSignals(ctx context.Context, userID string, since time.Time, limit int) ([]domain.ActivitySignal, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	query := `SELECT id, user_id, kind, raw_text, concepts_json, observed_at, duration_sec, detected_due_date, title
		FROM activity_signals WHERE user_id = ? AND observed_at >= ?
		ORDER BY observed_at DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, userID, formatTime(since), limit)
	if err != nil {
		return nil, fmt.Errorf("fetching recent signals: %w", err)
	}
	defer rows.Close()

	var signals []domain.ActivitySignal
	for rows.Next() {
		var s domain.ActivitySignal
		var kindStr, conceptsStr, observedStr string
		var duration sql.NullInt64
		var dueStr sql.NullString
		if err := rows.Scan(&s.ID, &s.UserID, &kindStr, &s.RawText, &conceptsStr, &observedStr,
			&duration, &dueStr, &s.Title); err != nil {
			return nil, fmt.Errorf("scanning activity signal: %w", err)
		}
		s.Kind = domain.ActivityKind(kindStr)
		if s.Concepts, err = decodeStrings(conceptsStr); err != nil {
			return nil, err
		}
		if s.ObservedAt, err = parseTime(observedStr); err != nil {
			return nil, fmt.Errorf("parsing observed_at: %w", err)
		}
		if duration.Valid {
			d := int(duration.Int64)
			s.DurationSec = &d
		}
		s.DetectedDueDate = parseNullableTime(dueStr)
		signals = append(signals, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity signals: %w", err)
	}
	return signals, nil
}

func (r *SQLiteSignalRepo) FetchUpcomingDeadlines(ctx context.Context, userID string, from, to time.Time) ([]domain.Deadline, error) {
	query := `SELECT DISTINCT CASE WHEN title != '' THEN title ELSE kind END, detected_due_date
		FROM activity_signals
		WHERE user_id = ? AND detected_due_date IS NOT NULL AND detected_due_date >= ? AND detected_due_date <= ?
		ORDER BY detected_due_date, 1`
	rows, err := r.db.QueryContext(ctx, query, userID, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("fetching upcoming deadlines: %w", err)
	}
	defer rows.Close()

	var deadlines []domain.Deadline
	for rows.Next() {
		var d domain.Deadline
		var dueStr string
		if err := rows.Scan(&d.Label, &dueStr); err != nil {
			return nil, fmt.Errorf("scanning deadline: %w", err)
		}
		if d.DueDate, err = parseTime(dueStr); err != nil {
			return nil, fmt.Errorf("parsing detected_due_date: %w", err)
		}
		deadlines = append(deadlines, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deadlines: %w", err)
	}
	return deadlines, nil
}
