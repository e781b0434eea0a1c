// Package taskspgxstore persists tasks in PostgreSQL.
package taskspgxstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/taskboard/core/repositories"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/infrastructure/postgresdb"
	"github.com/jrazmi/taskboard/sdk/logger"
)

const taskColumns = `task_id, title, done, deadline, priority, category, user_id::text AS user_id, position`

// Store provides database access for tasks.
type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool
}

// NewStore creates a new task store
func NewStore(log *logger.Logger, pool *postgresdb.Pool) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

// taskRow mirrors the tasks table.
type taskRow struct {
	TaskID   int64      `db:"task_id"`
	Title    string     `db:"title"`
	Done     bool       `db:"done"`
	Deadline *time.Time `db:"deadline"`
	Priority string     `db:"priority"`
	Category *string    `db:"category"`
	UserID   string     `db:"user_id"`
	Position int64      `db:"position"`
}

func (r taskRow) toTask() tasksrepo.Task {
	t := tasksrepo.Task{
		ID:       r.TaskID,
		Title:    r.Title,
		Done:     r.Done,
		Priority: tasksrepo.Priority(r.Priority),
		Category: r.Category,
		Owner:    r.UserID,
		Position: r.Position,
	}
	if r.Deadline != nil {
		d := tasksrepo.DateOf(*r.Deadline)
		t.Deadline = &d
	}
	return t
}

func deadlineArg(d *tasksrepo.Date) any {
	if d == nil {
		return nil
	}
	return d.Time()
}

// Insert appends the task to the end of owner's manual order.
func (s *Store) Insert(ctx context.Context, owner string, task tasksrepo.NewTask) (tasksrepo.Task, error) {
	query := `
		INSERT INTO tasks (title, done, deadline, priority, category, user_id, position)
		VALUES (@title, FALSE, @deadline, @priority, @category, @user_id,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM tasks WHERE user_id = @user_id))
		RETURNING ` + taskColumns

	args := pgx.NamedArgs{
		"title":    task.Title,
		"deadline": deadlineArg(task.Deadline),
		"priority": string(task.Priority),
		"category": task.Category,
		"user_id":  owner,
	}

	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[taskRow])
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}
	return row.toTask(), nil
}

// Get returns the task with id when owner owns it.
func (s *Store) Get(ctx context.Context, id int64, owner string) (tasksrepo.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE task_id = @task_id AND user_id = @user_id`

	args := pgx.NamedArgs{
		"task_id": id,
		"user_id": owner,
	}

	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[taskRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tasksrepo.Task{}, repositories.ErrNotFound
		}
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}
	return row.toTask(), nil
}

// ListByOwner returns every task of owner.
func (s *Store) ListByOwner(ctx context.Context, owner string) ([]tasksrepo.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = @user_id
		ORDER BY position, task_id`

	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{"user_id": owner})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	taskRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[taskRow])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	tasks := make([]tasksrepo.Task, len(taskRows))
	for i, r := range taskRows {
		tasks[i] = r.toTask()
	}
	return tasks, nil
}

// Update writes the supplied columns only.
func (s *Store) Update(ctx context.Context, id int64, owner string, changes tasksrepo.TaskChanges) error {
	args := pgx.NamedArgs{
		"task_id": id,
		"user_id": owner,
	}
	set := []string{"updated_at = NOW()"}

	if v, ok := changes.Title.Get(); ok {
		set = append(set, "title = @title")
		args["title"] = v
	}
	if v, ok := changes.Done.Get(); ok {
		set = append(set, "done = @done")
		args["done"] = v
	}
	if v, ok := changes.Deadline.Get(); ok {
		set = append(set, "deadline = @deadline")
		args["deadline"] = deadlineArg(v)
	}
	if v, ok := changes.Priority.Get(); ok {
		set = append(set, "priority = @priority")
		args["priority"] = string(v)
	}
	if v, ok := changes.Category.Get(); ok {
		set = append(set, "category = @category")
		args["category"] = v
	}

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE task_id = @task_id AND user_id = @user_id`, strings.Join(set, ", "))

	tag, err := s.pool.Exec(ctx, query, args)
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Delete removes the task when owner owns it.
func (s *Store) Delete(ctx context.Context, id int64, owner string) error {
	query := `DELETE FROM tasks WHERE task_id = @task_id AND user_id = @user_id`

	tag, err := s.pool.Exec(ctx, query, pgx.NamedArgs{
		"task_id": id,
		"user_id": owner,
	})
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// SetPositions numbers ids from 1 in a single transaction.
func (s *Store) SetPositions(ctx context.Context, owner string, ids []int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	defer tx.Rollback(ctx)

	query := `UPDATE tasks SET position = @position, updated_at = NOW()
		WHERE task_id = @task_id AND user_id = @user_id`

	batch := &pgx.Batch{}
	for i, id := range ids {
		batch.Queue(query, pgx.NamedArgs{
			"position": int64(i + 1),
			"task_id":  id,
			"user_id":  owner,
		})
	}

	results := tx.SendBatch(ctx, batch)
	for _, id := range ids {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return postgresdb.HandlePgError(err)
		}
		if tag.RowsAffected() == 0 {
			results.Close()
			return fmt.Errorf("task %d: %w", id, repositories.ErrNotFound)
		}
	}
	if err := results.Close(); err != nil {
		return postgresdb.HandlePgError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return postgresdb.HandlePgError(err)
	}
	return nil
}
