// Package taskssqlitestore persists tasks in an embedded SQLite database.
package taskssqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jrazmi/taskboard/core/repositories"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/infrastructure/sqlitedb"
	"github.com/jrazmi/taskboard/sdk/logger"
)

const taskColumns = `task_id, title, done, deadline, priority, category, user_id, position`

// Store provides database access for tasks.
type Store struct {
	log *logger.Logger
	db  *sql.DB
}

// NewStore creates a new task store
func NewStore(log *logger.Logger, db *sql.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(sc scanner) (tasksrepo.Task, error) {
	var (
		t        tasksrepo.Task
		deadline sql.NullString
		category sql.NullString
		priority string
	)
	err := sc.Scan(&t.ID, &t.Title, &t.Done, &deadline, &priority, &category, &t.Owner, &t.Position)
	if err != nil {
		return tasksrepo.Task{}, err
	}

	t.Priority = tasksrepo.Priority(priority)
	if deadline.Valid {
		d, err := tasksrepo.ParseDate(deadline.String)
		if err != nil {
			return tasksrepo.Task{}, fmt.Errorf("task %d: stored deadline %q: %w", t.ID, deadline.String, err)
		}
		t.Deadline = &d
	}
	if category.Valid {
		c := category.String
		t.Category = &c
	}
	return t, nil
}

func deadlineArg(d *tasksrepo.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

// Insert appends the task to the end of owner's manual order.
func (s *Store) Insert(ctx context.Context, owner string, task tasksrepo.NewTask) (tasksrepo.Task, error) {
	query := `
		INSERT INTO tasks (title, done, deadline, priority, category, user_id, position)
		VALUES (?, 0, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM tasks WHERE user_id = ?))`

	res, err := s.db.ExecContext(ctx, query,
		task.Title, deadlineArg(task.Deadline), string(task.Priority), task.Category, owner, owner)
	if err != nil {
		return tasksrepo.Task{}, sqlitedb.HandleSQLiteError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return tasksrepo.Task{}, fmt.Errorf("last insert id: %w", err)
	}
	return s.Get(ctx, id, owner)
}

// Get returns the task with id when owner owns it.
func (s *Store) Get(ctx context.Context, id int64, owner string) (tasksrepo.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE task_id = ? AND user_id = ?`

	t, err := scanTask(s.db.QueryRowContext(ctx, query, id, owner))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tasksrepo.Task{}, repositories.ErrNotFound
		}
		return tasksrepo.Task{}, sqlitedb.HandleSQLiteError(err)
	}
	return t, nil
}

// ListByOwner returns every task of owner.
func (s *Store) ListByOwner(ctx context.Context, owner string) ([]tasksrepo.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ? ORDER BY position, task_id`

	rows, err := s.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, sqlitedb.HandleSQLiteError(err)
	}
	defer rows.Close()

	var tasks []tasksrepo.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlitedb.HandleSQLiteError(err)
	}
	return tasks, nil
}

// Update writes the supplied columns only.
func (s *Store) Update(ctx context.Context, id int64, owner string, changes tasksrepo.TaskChanges) error {
	set := []string{"updated_at = CURRENT_TIMESTAMP"}
	var args []any

	if v, ok := changes.Title.Get(); ok {
		set = append(set, "title = ?")
		args = append(args, v)
	}
	if v, ok := changes.Done.Get(); ok {
		set = append(set, "done = ?")
		args = append(args, v)
	}
	if v, ok := changes.Deadline.Get(); ok {
		set = append(set, "deadline = ?")
		args = append(args, deadlineArg(v))
	}
	if v, ok := changes.Priority.Get(); ok {
		set = append(set, "priority = ?")
		args = append(args, string(v))
	}
	if v, ok := changes.Category.Get(); ok {
		set = append(set, "category = ?")
		args = append(args, v)
	}
	args = append(args, id, owner)

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE task_id = ? AND user_id = ?`, strings.Join(set, ", "))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return sqlitedb.HandleSQLiteError(err)
	}
	return affectedOne(res)
}

// Delete removes the task when owner owns it.
func (s *Store) Delete(ctx context.Context, id int64, owner string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE task_id = ? AND user_id = ?`, id, owner)
	if err != nil {
		return sqlitedb.HandleSQLiteError(err)
	}
	return affectedOne(res)
}

// SetPositions numbers ids from 1 in a single transaction.
func (s *Store) SetPositions(ctx context.Context, owner string, ids []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return sqlitedb.HandleSQLiteError(err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE tasks SET position = ?, updated_at = CURRENT_TIMESTAMP WHERE task_id = ? AND user_id = ?`)
	if err != nil {
		return sqlitedb.HandleSQLiteError(err)
	}
	defer stmt.Close()

	for i, id := range ids {
		res, err := stmt.ExecContext(ctx, int64(i+1), id, owner)
		if err != nil {
			return sqlitedb.HandleSQLiteError(err)
		}
		if err := affectedOne(res); err != nil {
			return fmt.Errorf("task %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return sqlitedb.HandleSQLiteError(err)
	}
	return nil
}

func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
