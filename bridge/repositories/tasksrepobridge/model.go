package tasksrepobridge

import (
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/sdk/validation"
)

// Task is the JSON shape of a task. The owner and the manual position stay
// server side.
type Task struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Done     bool    `json:"done"`
	Deadline *string `json:"deadline"`
	Priority string  `json:"priority"`
	Category *string `json:"category"`
}

// CreateTaskInput is the POST /tasks body.
type CreateTaskInput struct {
	Title    string  `json:"title"`
	Deadline *string `json:"deadline"`
	Priority string  `json:"priority"`
	Category *string `json:"category"`
}

// UpdateTaskInput is the PATCH /tasks/{task_id} body. Keys left out of the
// document are not touched; null clears deadline and category.
type UpdateTaskInput struct {
	Title    validation.Optional[string]             `json:"title"`
	Done     validation.Optional[bool]               `json:"done"`
	Deadline validation.Optional[*string]            `json:"deadline"`
	Priority validation.Optional[tasksrepo.Priority] `json:"priority"`
	Category validation.Optional[*string]            `json:"category"`
}

// ReorderInput is the PUT /tasks/order body: every task id of the caller in
// the new order.
type ReorderInput struct {
	IDs []int64 `json:"ids"`
}

// ClearResult is the POST /tasks/clear-completed response.
type ClearResult struct {
	Deleted int `json:"deleted"`
	Total   int `json:"total"`
}

// Summary is the GET /tasks/summary response.
type Summary struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Overdue   int `json:"overdue"`
}
