package tasksrepo

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Status restricts a view by completion state.
type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// ParseStatus maps the query value to a Status; empty means all.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusActive, StatusCompleted:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
}

// SortMode selects the single active ordering of a view.
type SortMode string

const (
	SortDefault  SortMode = "default"
	SortTitle    SortMode = "title"
	SortDate     SortMode = "date"
	SortPriority SortMode = "priority"
)

// ParseSortMode maps the query value to a SortMode; empty means default.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case "", SortDefault:
		return SortDefault, nil
	case SortTitle, SortDate, SortPriority:
		return SortMode(s), nil
	}
	return "", fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, s)
}

// QueryFilter holds the predicates of a view. All of them must hold.
type QueryFilter struct {
	Status Status
	// Category restricts to an exact, case-sensitive category when non-nil.
	Category *string
	// Search is matched case-insensitively against the title.
	Search string
}

// View is the explicit view state a client asks for.
type View struct {
	Filter QueryFilter
	Sort   SortMode
}

// DefaultView shows everything in manual order.
var DefaultView = View{Filter: QueryFilter{Status: StatusAll}, Sort: SortDefault}

// AfterManualReorder returns the view a client lands on after dragging a
// task: manual order is only visible in the default sort.
func (v View) AfterManualReorder() View {
	v.Sort = SortDefault
	return v
}

// Engine evaluates views. The zero value compares titles with the
// root collation.
type Engine struct {
	Locale language.Tag
}

// NewEngine creates an engine whose title sort follows locale.
func NewEngine(locale language.Tag) Engine {
	return Engine{Locale: locale}
}

// Apply returns the tasks matching v in v's order. The input is neither
// modified nor retained, and its order is the "incoming" order the default
// sort and all tie-breaks preserve.
func (e Engine) Apply(tasks []Task, v View) []Task {
	out := e.filter(tasks, v.Filter)

	switch v.Sort {
	case SortTitle:
		col := collate.New(e.Locale)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Title, out[j].Title) < 0
		})

	case SortDate:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].Deadline, out[j].Deadline
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			}
			return a.Before(*b)
		})

	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.rank() < out[j].Priority.rank()
		})
	}

	return out
}

func (e Engine) filter(tasks []Task, f QueryFilter) []Task {
	fold := cases.Fold()
	needle := fold.String(f.Search)

	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		switch f.Status {
		case StatusActive:
			if t.Done {
				continue
			}
		case StatusCompleted:
			if !t.Done {
				continue
			}
		}

		if f.Category != nil && (t.Category == nil || *t.Category != *f.Category) {
			continue
		}

		if needle != "" && !strings.Contains(fold.String(t.Title), needle) {
			continue
		}

		out = append(out, t)
	}
	return out
}

// Categories returns the distinct non-empty categories of tasks in
// ascending order.
func Categories(tasks []Task) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, t := range tasks {
		if t.Category == nil || *t.Category == "" {
			continue
		}
		if _, ok := seen[*t.Category]; ok {
			continue
		}
		seen[*t.Category] = struct{}{}
		out = append(out, *t.Category)
	}
	slices.Sort(out)
	return out
}

// ManualOrder sorts tasks by position, oldest first on ties. This is the
// incoming order for a user's collection.
func ManualOrder(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Position != tasks[j].Position {
			return tasks[i].Position < tasks[j].Position
		}
		return tasks[i].ID < tasks[j].ID
	})
}

// Move returns the ids of tasks after moving the task with id to index to,
// the full sequence a drag and drop produces. to is clamped to the bounds.
func Move(tasks []Task, id int64, to int) ([]int64, error) {
	ids := make([]int64, 0, len(tasks))
	from := -1
	for i, t := range tasks {
		if t.ID == id {
			from = i
		}
		ids = append(ids, t.ID)
	}
	if from < 0 {
		return nil, fmt.Errorf("%w: task %d", ErrNotFound, id)
	}

	to = max(0, min(to, len(ids)-1))
	ids = slices.Delete(ids, from, from+1)
	ids = slices.Insert(ids, to, id)
	return ids, nil
}

// Summarize counts tasks; overdue is judged against today.
func Summarize(tasks []Task, today Date) Summary {
	var s Summary
	for _, t := range tasks {
		s.Total++
		if t.Done {
			s.Completed++
		} else {
			s.Active++
		}
		if t.Overdue(today) {
			s.Overdue++
		}
	}
	return s
}
