package tasksrepo_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"golang.org/x/text/language"
)

func mustDate(t *testing.T, s string) *tasksrepo.Date {
	t.Helper()
	d, err := tasksrepo.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return &d
}

func ids(tasks []tasksrepo.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func strp(s string) *string { return &s }

func sample(t *testing.T) []tasksrepo.Task {
	return []tasksrepo.Task{
		{ID: 1, Title: "buy milk", Priority: tasksrepo.PriorityLow, Category: strp("home")},
		{ID: 2, Title: "Write report", Priority: tasksrepo.PriorityHigh, Deadline: mustDate(t, "2024-03-01"), Category: strp("work")},
		{ID: 3, Title: "call Bob", Priority: tasksrepo.PriorityMedium, Done: true},
		{ID: 4, Title: "Ändern Milk order", Priority: tasksrepo.PriorityHigh, Deadline: mustDate(t, "2024-01-15"), Category: strp("home")},
		{ID: 5, Title: "archive mail", Priority: tasksrepo.PriorityMedium, Done: true, Category: strp("Home")},
		{ID: 6, Title: "plan trip", Priority: tasksrepo.PriorityLow, Deadline: mustDate(t, "2024-03-01")},
	}
}

func TestApplySort(t *testing.T) {
	engine := tasksrepo.NewEngine(language.English)

	tests := []struct {
		name string
		sort tasksrepo.SortMode
		want []int64
	}{
		{name: "default keeps incoming order", sort: tasksrepo.SortDefault, want: []int64{1, 2, 3, 4, 5, 6}},
		{name: "title is locale aware", sort: tasksrepo.SortTitle, want: []int64{4, 5, 1, 3, 6, 2}},
		{name: "date puts undated last", sort: tasksrepo.SortDate, want: []int64{4, 2, 6, 1, 3, 5}},
		{name: "priority high to low and stable", sort: tasksrepo.SortPriority, want: []int64{2, 4, 3, 5, 1, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := sample(t)
			got := engine.Apply(tasks, tasksrepo.View{Filter: tasksrepo.QueryFilter{Status: tasksrepo.StatusAll}, Sort: tt.sort})
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]int64{1, 2, 3, 4, 5, 6}, ids(tasks)); diff != "" {
				t.Errorf("input was modified (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyFilter(t *testing.T) {
	engine := tasksrepo.Engine{}

	tests := []struct {
		name   string
		filter tasksrepo.QueryFilter
		want   []int64
	}{
		{name: "all", filter: tasksrepo.QueryFilter{Status: tasksrepo.StatusAll}, want: []int64{1, 2, 3, 4, 5, 6}},
		{name: "active", filter: tasksrepo.QueryFilter{Status: tasksrepo.StatusActive}, want: []int64{1, 2, 4, 6}},
		{name: "completed", filter: tasksrepo.QueryFilter{Status: tasksrepo.StatusCompleted}, want: []int64{3, 5}},
		{name: "category is case sensitive", filter: tasksrepo.QueryFilter{Category: strp("home")}, want: []int64{1, 4}},
		{name: "search ignores case", filter: tasksrepo.QueryFilter{Search: "MILK"}, want: []int64{1, 4}},
		{name: "search and status combine", filter: tasksrepo.QueryFilter{Status: tasksrepo.StatusActive, Search: "r"}, want: []int64{2, 4, 6}},
		{name: "everything combined", filter: tasksrepo.QueryFilter{Status: tasksrepo.StatusActive, Category: strp("home"), Search: "milk"}, want: []int64{1, 4}},
		{name: "no match", filter: tasksrepo.QueryFilter{Search: "zebra"}, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Apply(sample(t), tasksrepo.View{Filter: tt.filter})
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterThenSort(t *testing.T) {
	engine := tasksrepo.NewEngine(language.English)
	v := tasksrepo.View{
		Filter: tasksrepo.QueryFilter{Status: tasksrepo.StatusActive},
		Sort:   tasksrepo.SortPriority,
	}

	got := engine.Apply(sample(t), v)
	if diff := cmp.Diff([]int64{2, 4, 1, 6}, ids(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseViewValues(t *testing.T) {
	if s, err := tasksrepo.ParseStatus(""); err != nil || s != tasksrepo.StatusAll {
		t.Errorf("ParseStatus(\"\") = %q, %v", s, err)
	}
	if _, err := tasksrepo.ParseStatus("open"); !errors.Is(err, tasksrepo.ErrInvalidInput) {
		t.Errorf("ParseStatus(open) error = %v, want ErrInvalidInput", err)
	}
	if m, err := tasksrepo.ParseSortMode("priority"); err != nil || m != tasksrepo.SortPriority {
		t.Errorf("ParseSortMode(priority) = %q, %v", m, err)
	}
	if _, err := tasksrepo.ParseSortMode("random"); !errors.Is(err, tasksrepo.ErrInvalidInput) {
		t.Errorf("ParseSortMode(random) error = %v, want ErrInvalidInput", err)
	}
}

func TestCategories(t *testing.T) {
	tasks := append(sample(t), tasksrepo.Task{ID: 7, Title: "x", Category: strp("")})

	got := tasksrepo.Categories(tasks)
	if diff := cmp.Diff([]string{"Home", "home", "work"}, got); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
}

func TestMove(t *testing.T) {
	tasks := sample(t)

	got, err := tasksrepo.Move(tasks, 5, 0)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if diff := cmp.Diff([]int64{5, 1, 2, 3, 4, 6}, got); diff != "" {
		t.Errorf("move to front (-want +got):\n%s", diff)
	}

	got, err = tasksrepo.Move(tasks, 1, 99)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if diff := cmp.Diff([]int64{2, 3, 4, 5, 6, 1}, got); diff != "" {
		t.Errorf("move past end (-want +got):\n%s", diff)
	}

	if _, err := tasksrepo.Move(tasks, 42, 0); !errors.Is(err, tasksrepo.ErrNotFound) {
		t.Errorf("move unknown id error = %v, want ErrNotFound", err)
	}

	v := tasksrepo.View{Sort: tasksrepo.SortTitle, Filter: tasksrepo.QueryFilter{Search: "milk"}}
	after := v.AfterManualReorder()
	if after.Sort != tasksrepo.SortDefault || after.Filter.Search != "milk" {
		t.Errorf("AfterManualReorder = %+v, want default sort with filter kept", after)
	}
}

func TestSummarize(t *testing.T) {
	today := *mustDate(t, "2024-02-01")

	got := tasksrepo.Summarize(sample(t), today)
	want := tasksrepo.Summary{Active: 4, Completed: 2, Total: 6, Overdue: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}
