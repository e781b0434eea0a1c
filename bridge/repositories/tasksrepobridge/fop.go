package tasksrepobridge

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/jrazmi/taskboard/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/infrastructure/web"
)

// parseView reads ?status=&category=&search=&sort= into a view. Missing
// parameters leave the default view in place.
func parseView(r *http.Request) (tasksrepo.View, error) {
	v := tasksrepo.DefaultView

	status, _ := fopbridge.QueryString(r, "status")
	s, err := tasksrepo.ParseStatus(status)
	if err != nil {
		return tasksrepo.View{}, err
	}
	v.Filter.Status = s

	order, _ := fopbridge.QueryString(r, "sort")
	mode, err := tasksrepo.ParseSortMode(order)
	if err != nil {
		return tasksrepo.View{}, err
	}
	v.Sort = mode

	// Category and search are matched against stored text as sent.
	v.Filter.Category = fopbridge.QueryValuePtr(r, "category")
	v.Filter.Search, _ = fopbridge.QueryValue(r, "search")

	return v, nil
}

// parseTaskID reads the {task_id} path value.
func parseTaskID(r *http.Request) (int64, error) {
	raw := web.Param(r, "task_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", raw)
	}
	return id, nil
}
