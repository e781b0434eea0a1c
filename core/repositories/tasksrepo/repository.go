// Package tasksrepo owns the task model and the rules applied to it: the
// Storer contract for owner-scoped persistence, the Repository that validates
// and applies mutations, and the query engine that builds views.
package tasksrepo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jrazmi/taskboard/core/repositories"
	"github.com/jrazmi/taskboard/sdk/logger"
	"github.com/jrazmi/taskboard/sdk/validation"
)

// Set of error values for task operations. A task owned by someone else is
// reported as ErrNotFound.
var (
	ErrNotFound     = errors.New("task not found")
	ErrInvalidInput = errors.New("invalid task input")
	ErrPartialClear = errors.New("clear completed stopped early")
)

// Storer is the owner-scoped task persistence contract. Every method that
// takes an id must behave as if the task does not exist when owner does not
// match, returning repositories.ErrNotFound.
type Storer interface {
	// Insert assigns a fresh id, never reused, and appends the task to the
	// end of the owner's manual order.
	Insert(ctx context.Context, owner string, task NewTask) (Task, error)
	Get(ctx context.Context, id int64, owner string) (Task, error)
	// ListByOwner returns the owner's tasks in no particular order.
	ListByOwner(ctx context.Context, owner string) ([]Task, error)
	// Update writes only the supplied fields.
	Update(ctx context.Context, id int64, owner string, changes TaskChanges) error
	Delete(ctx context.Context, id int64, owner string) error
	// SetPositions stores ids' order as the owner's manual order.
	SetPositions(ctx context.Context, owner string, ids []int64) error
}

// Repository validates and orchestrates task operations against a Storer.
type Repository struct {
	log    *logger.Logger
	storer Storer
	engine Engine
	now    func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithEngine sets the query engine, which decides the title collation.
func WithEngine(e Engine) Option {
	return func(r *Repository) {
		r.engine = e
	}
}

// WithClock replaces time.Now for overdue calculations.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// NewRepository creates a new Task repository
func NewRepository(log *logger.Logger, storer Storer, opts ...Option) *Repository {
	r := &Repository{
		log:    log,
		storer: storer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create validates input and persists a new open task for owner.
func (r *Repository) Create(ctx context.Context, owner string, input CreateTask) (Task, error) {
	if validation.IsBlank(input.Title) {
		return Task{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	priority := input.Priority
	if priority == "" {
		priority = DefaultPriority
	}
	if !priority.Valid() {
		return Task{}, fmt.Errorf("%w: priority must be low, medium or high", ErrInvalidInput)
	}

	deadline, err := parseDeadline(input.Deadline)
	if err != nil {
		return Task{}, err
	}

	task, err := r.storer.Insert(ctx, owner, NewTask{
		Title:    input.Title,
		Deadline: deadline,
		Priority: priority,
		Category: validation.NonBlankPtr(input.Category),
	})
	if err != nil {
		return Task{}, fmt.Errorf("task repository create: %w", err)
	}

	r.log.InfoContext(ctx, "task created", "task_id", task.ID, "owner", owner)
	return task, nil
}

// Get returns owner's task id.
func (r *Repository) Get(ctx context.Context, owner string, id int64) (Task, error) {
	task, err := r.storer.Get(ctx, id, owner)
	if err != nil {
		return Task{}, r.storeErr("get", err)
	}
	return task, nil
}

// Update applies the supplied fields of input to owner's task id.
func (r *Repository) Update(ctx context.Context, owner string, id int64, input UpdateTask) error {
	changes, err := validateUpdate(input)
	if err != nil {
		return err
	}

	if changes.Empty() {
		if _, err := r.storer.Get(ctx, id, owner); err != nil {
			return r.storeErr("update", err)
		}
		return nil
	}

	if err := r.storer.Update(ctx, id, owner, changes); err != nil {
		return r.storeErr("update", err)
	}

	r.log.InfoContext(ctx, "task updated", "task_id", id, "owner", owner)
	return nil
}

// Delete removes owner's task id.
func (r *Repository) Delete(ctx context.Context, owner string, id int64) error {
	if err := r.storer.Delete(ctx, id, owner); err != nil {
		return r.storeErr("delete", err)
	}

	r.log.InfoContext(ctx, "task deleted", "task_id", id, "owner", owner)
	return nil
}

// ClearCompleted deletes owner's completed tasks one at a time. It stops at
// the first storage failure and returns the partial count together with an
// error wrapping ErrPartialClear.
func (r *Repository) ClearCompleted(ctx context.Context, owner string) (ClearResult, error) {
	tasks, err := r.list(ctx, owner)
	if err != nil {
		return ClearResult{}, fmt.Errorf("task repository clear completed: %w", err)
	}

	var res ClearResult
	for _, t := range tasks {
		if t.Done {
			res.Total++
		}
	}

	for _, t := range tasks {
		if !t.Done {
			continue
		}
		err := r.storer.Delete(ctx, t.ID, owner)
		switch {
		case err == nil:
			res.Deleted++
		case errors.Is(err, repositories.ErrNotFound):
			// removed concurrently, nothing left to do for it
			res.Total--
		default:
			r.log.ErrorContext(ctx, "clear completed stopped", "owner", owner, "task_id", t.ID, "deleted", res.Deleted, "total", res.Total, "err", err)
			return res, fmt.Errorf("%w after %d of %d: %w", ErrPartialClear, res.Deleted, res.Total, err)
		}
	}

	r.log.InfoContext(ctx, "completed tasks cleared", "owner", owner, "deleted", res.Deleted)
	return res, nil
}

// Reorder stores ids as owner's manual order. ids must list every task of
// owner exactly once.
func (r *Repository) Reorder(ctx context.Context, owner string, ids []int64) error {
	tasks, err := r.list(ctx, owner)
	if err != nil {
		return fmt.Errorf("task repository reorder: %w", err)
	}

	owned := make(map[int64]bool, len(tasks))
	for _, t := range tasks {
		owned[t.ID] = false
	}
	for _, id := range ids {
		seen, ok := owned[id]
		if !ok {
			return fmt.Errorf("%w: task %d", ErrNotFound, id)
		}
		if seen {
			return fmt.Errorf("%w: task %d listed twice", ErrInvalidInput, id)
		}
		owned[id] = true
	}
	if len(ids) != len(tasks) {
		return fmt.Errorf("%w: order must list all %d tasks, got %d", ErrInvalidInput, len(tasks), len(ids))
	}

	if err := r.storer.SetPositions(ctx, owner, ids); err != nil {
		return r.storeErr("reorder", err)
	}

	r.log.InfoContext(ctx, "tasks reordered", "owner", owner, "count", len(ids))
	return nil
}

// Query returns owner's tasks as seen through v.
func (r *Repository) Query(ctx context.Context, owner string, v View) ([]Task, error) {
	tasks, err := r.list(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("task repository query: %w", err)
	}
	return r.engine.Apply(tasks, v), nil
}

// Categories returns the distinct categories in use by owner.
func (r *Repository) Categories(ctx context.Context, owner string) ([]string, error) {
	tasks, err := r.list(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("task repository categories: %w", err)
	}
	return Categories(tasks), nil
}

// Summary counts owner's tasks.
func (r *Repository) Summary(ctx context.Context, owner string) (Summary, error) {
	tasks, err := r.list(ctx, owner)
	if err != nil {
		return Summary{}, fmt.Errorf("task repository summary: %w", err)
	}
	return Summarize(tasks, DateOf(r.now().UTC())), nil
}

// list returns owner's tasks in manual order.
func (r *Repository) list(ctx context.Context, owner string) ([]Task, error) {
	tasks, err := r.storer.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	tasks = slices.Clone(tasks)
	ManualOrder(tasks)
	return tasks, nil
}

func (r *Repository) storeErr(op string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("task repository %s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("task repository %s: %w", op, err)
}

func validateUpdate(input UpdateTask) (TaskChanges, error) {
	var c TaskChanges

	if input.Title.Set {
		if input.Title.Null || validation.IsBlank(input.Title.Value) {
			return TaskChanges{}, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
		}
		c.Title = input.Title
	}

	if input.Done.Set {
		if input.Done.Null {
			return TaskChanges{}, fmt.Errorf("%w: done must be a boolean", ErrInvalidInput)
		}
		c.Done = input.Done
	}

	if input.Priority.Set {
		if input.Priority.Null || !input.Priority.Value.Valid() {
			return TaskChanges{}, fmt.Errorf("%w: priority must be low, medium or high", ErrInvalidInput)
		}
		c.Priority = input.Priority
	}

	if input.Deadline.Set {
		deadline, err := parseDeadline(input.Deadline.Value)
		if err != nil {
			return TaskChanges{}, err
		}
		c.Deadline = validation.Some(deadline)
	}

	if input.Category.Set {
		c.Category = validation.Some(validation.NonBlankPtr(input.Category.Value))
	}

	return c, nil
}

func parseDeadline(s *string) (*Date, error) {
	if s == nil || validation.IsBlank(*s) {
		return nil, nil
	}
	d, err := ParseDate(*s)
	if err != nil {
		return nil, fmt.Errorf("%w: deadline: %w", ErrInvalidInput, err)
	}
	return &d, nil
}
