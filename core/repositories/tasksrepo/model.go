package tasksrepo

import (
	"fmt"
	"time"

	"github.com/jrazmi/taskboard/sdk/validation"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is applied when a task is created without one.
const DefaultPriority = PriorityMedium

// Valid reports whether p is one of the enumerated priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// rank orders priorities for sorting, high first.
func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// Date is a calendar date without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := validation.ParseDateOnly(s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d falls on an earlier day than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// Task is a single to-do item owned by exactly one user.
type Task struct {
	ID       int64
	Title    string
	Done     bool
	Deadline *Date
	Priority Priority
	Category *string
	Owner    string
	// Position is the owner's manual order; lower comes first.
	Position int64
}

// Overdue reports whether the task is still open past its deadline.
func (t Task) Overdue(today Date) bool {
	return !t.Done && t.Deadline != nil && t.Deadline.Before(today)
}

// CreateTask is the client input for a new task. Values are validated by
// the repository before anything reaches the store.
type CreateTask struct {
	Title    string
	Deadline *string
	Priority Priority
	Category *string
}

// UpdateTask is the client input for a partial update. Only fields with Set
// are applied; a Null deadline or category clears it.
type UpdateTask struct {
	Title    validation.Optional[string]
	Done     validation.Optional[bool]
	Deadline validation.Optional[*string]
	Priority validation.Optional[Priority]
	Category validation.Optional[*string]
}

// NewTask is a validated task ready to be inserted.
type NewTask struct {
	Title    string
	Deadline *Date
	Priority Priority
	Category *string
}

// TaskChanges is a validated partial update handed to the store.
type TaskChanges struct {
	Title    validation.Optional[string]
	Done     validation.Optional[bool]
	Deadline validation.Optional[*Date]
	Priority validation.Optional[Priority]
	Category validation.Optional[*string]
}

// Empty reports whether no field is supplied.
func (c TaskChanges) Empty() bool {
	return !c.Title.Set && !c.Done.Set && !c.Deadline.Set && !c.Priority.Set && !c.Category.Set
}

// Apply returns t with the supplied fields replaced. Stores without partial
// update support in their query language use it to merge changes.
func (c TaskChanges) Apply(t Task) Task {
	if c.Title.Set {
		t.Title = c.Title.Value
	}
	if c.Done.Set {
		t.Done = c.Done.Value
	}
	if c.Deadline.Set {
		t.Deadline = c.Deadline.Value
	}
	if c.Priority.Set {
		t.Priority = c.Priority.Value
	}
	if c.Category.Set {
		t.Category = c.Category.Value
	}
	return t
}

// ClearResult reports the outcome of clearing completed tasks.
type ClearResult struct {
	// Deleted is the number of tasks removed.
	Deleted int
	// Total is the number of completed tasks found when the clear started.
	Total int
}

// Partial reports whether some completed tasks were left behind.
func (r ClearResult) Partial() bool {
	return r.Deleted < r.Total
}

// Summary counts an owner's tasks.
type Summary struct {
	Active    int
	Completed int
	Total     int
	Overdue   int
}
