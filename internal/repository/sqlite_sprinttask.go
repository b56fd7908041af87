package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
)

// SQLiteSprintTaskRepo implements SprintTaskRepo using a SQLite database.
type SQLiteSprintTaskRepo struct {
	db db.DBTX
}

func NewSQLiteSprintTaskRepo(conn db.DBTX) *SQLiteSprintTaskRepo {
	return &SQLiteSprintTaskRepo{db: conn}
}

const taskColumns = `t.id, t.project_id, t.title, t.description, t.priority, t.estimated_hours, t.due_date,
	t.sprint_week, t.sprint_year, t.status, t.order_in_sprint, t.created_at, t.updated_at`

func (r *SQLiteSprintTaskRepo) Create(ctx context.Context, t *domain.SprintTask) error {
	query := `INSERT INTO sprint_tasks (id, project_id, title, description, priority, estimated_hours, due_date,
		sprint_week, sprint_year, status, order_in_sprint, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		t.Title,
		t.Description,
		string(t.Priority),
		t.EstimatedHours,
		formatTime(t.DueDate),
		t.SprintWeek,
		t.SprintYear,
		string(t.Status),
		t.OrderInSprint,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting sprint task: %w", err)
	}
	return nil
}

func (r *SQLiteSprintTaskRepo) GetByID(ctx context.Context, id string) (*domain.SprintTask, error) {
	query := `SELECT ` + taskColumns + ` FROM sprint_tasks t WHERE t.id = ?`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sprint task %s: %w", id, ErrNotFound)
	}
	return task, err
}

func (r *SQLiteSprintTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.SprintTask, error) {
	query := `SELECT ` + taskColumns + ` FROM sprint_tasks t WHERE t.project_id = ?
		ORDER BY t.order_in_sprint, t.created_at`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing sprint tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.SprintTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sprint tasks: %w", err)
	}
	return tasks, nil
}

// FetchActiveTasks returns the user's non-completed tasks across all
// projects, optionally limited to one ISO week.
func (r *SQLiteSprintTaskRepo) FetchActiveTasks(ctx context.Context, userID string, week *WeekFilter) ([]domain.SprintTask, error) {
	query := `SELECT ` + taskColumns + ` FROM sprint_tasks t
		JOIN projects p ON p.id = t.project_id
		WHERE p.user_id = ? AND t.status != 'completed'`
	args := []any{userID}
	if week != nil {
		query += ` AND t.sprint_week = ? AND t.sprint_year = ?`
		args = append(args, week.Week, week.Year)
	}
	query += ` ORDER BY t.sprint_year, t.sprint_week, t.order_in_sprint, t.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching active tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.SprintTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating active tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteSprintTaskRepo) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE sprint_tasks SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating sprint task status: %w", err)
	}
	return requireAffected(res, "sprint task", id)
}

// DeleteOpenByProject removes a project's tasks that have not been
// completed, so a re-plan replaces rather than stacks drafts.
func (r *SQLiteSprintTaskRepo) DeleteOpenByProject(ctx context.Context, projectID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sprint_tasks WHERE project_id = ? AND status != 'completed'`, projectID)
	if err != nil {
		return 0, fmt.Errorf("deleting open sprint tasks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking affected rows: %w", err)
	}
	return n, nil
}

func scanTask(row rowScanner) (*domain.SprintTask, error) {
	var t domain.SprintTask
	var priorityStr, dueStr, statusStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&t.ID, &t.ProjectID, &t.Title, &t.Description, &priorityStr, &t.EstimatedHours, &dueStr,
		&t.SprintWeek, &t.SprintYear, &statusStr, &t.OrderInSprint, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning sprint task: %w", err)
	}

	t.Priority = domain.TaskPriority(priorityStr)
	t.Status = domain.TaskStatus(statusStr)
	if t.DueDate, err = parseTime(dueStr); err != nil {
		return nil, fmt.Errorf("parsing due_date: %w", err)
	}
	if t.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &t, nil
}
