package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
)

// SQLiteUserProfileRepo implements UserProfileRepo using a SQLite database.
type SQLiteUserProfileRepo struct {
	db db.DBTX
}

// NewSQLiteUserProfileRepo creates a new SQLiteUserProfileRepo.
func NewSQLiteUserProfileRepo(conn db.DBTX) *SQLiteUserProfileRepo {
	return &SQLiteUserProfileRepo{db: conn}
}

func (r *SQLiteUserProfileRepo) Get(ctx context.Context, id string) (*domain.UserProfile, error) {
	query := `SELECT id, weekly_hours_available, max_project_hours_per_week FROM user_profile WHERE id = ?`
	var p domain.UserProfile
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.WeeklyHoursAvailable, &p.MaxProjectHoursPerWeek)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user profile %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user profile: %w", err)
	}
	return &p, nil
}

func (r *SQLiteUserProfileRepo) Upsert(ctx context.Context, p *domain.UserProfile) error {
	query := `INSERT INTO user_profile (id, weekly_hours_available, max_project_hours_per_week) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			weekly_hours_available = excluded.weekly_hours_available,
			max_project_hours_per_week = excluded.max_project_hours_per_week`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.WeeklyHoursAvailable, p.MaxProjectHoursPerWeek)
	if err != nil {
		return fmt.Errorf("upserting user profile: %w", err)
	}
	return nil
}
