package tasksrepobridge

import (
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
)

// MarshalToBridge converts a core task to its JSON shape.
func MarshalToBridge(task tasksrepo.Task) Task {
	t := Task{
		ID:       task.ID,
		Title:    task.Title,
		Done:     task.Done,
		Priority: string(task.Priority),
		Category: task.Category,
	}
	if task.Deadline != nil {
		d := task.Deadline.String()
		t.Deadline = &d
	}
	return t
}

// MarshalListToBridge converts a list of core models to bridge models. The
// result is never nil so an empty list encodes as [].
func MarshalListToBridge(tasks []tasksrepo.Task) []Task {
	out := make([]Task, len(tasks))
	for i, task := range tasks {
		out[i] = MarshalToBridge(task)
	}
	return out
}

// MarshalCreateToRepository converts bridge create input to repository input
func MarshalCreateToRepository(input CreateTaskInput) tasksrepo.CreateTask {
	return tasksrepo.CreateTask{
		Title:    input.Title,
		Deadline: input.Deadline,
		Priority: tasksrepo.Priority(input.Priority),
		Category: input.Category,
	}
}

// MarshalUpdateToRepository converts bridge update input to repository input
func MarshalUpdateToRepository(input UpdateTaskInput) tasksrepo.UpdateTask {
	return tasksrepo.UpdateTask{
		Title:    input.Title,
		Done:     input.Done,
		Deadline: input.Deadline,
		Priority: input.Priority,
		Category: input.Category,
	}
}

func marshalClearResult(res tasksrepo.ClearResult) ClearResult {
	return ClearResult{Deleted: res.Deleted, Total: res.Total}
}

func marshalSummary(s tasksrepo.Summary) Summary {
	return Summary{
		Active:    s.Active,
		Completed: s.Completed,
		Total:     s.Total,
		Overdue:   s.Overdue,
	}
}
