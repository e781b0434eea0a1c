package tasksrepobridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/jrazmi/taskboard/bridge/scaffolding/errs"
	"github.com/jrazmi/taskboard/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/taskboard/bridge/scaffolding/mid"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/infrastructure/web"
)

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	owner, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.Newf(errs.Unauthenticated, "authorization token required")
	}

	view, err := parseView(r)
	if err != nil {
		return errs.Newf(errs.InvalidArgument, "%s", err)
	}

	tasks, err := b.tasksRepository.Query(ctx, owner, view)
	if err != nil {
		return repoError(err)
	}

	return web.NewJSONResponse(MarshalListToBridge(tasks))
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	owner, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.Newf(errs.Unauthenticated, "authorization token required")
	}

	var input CreateTaskInput
	if err := web.Decode(r, &input); err != nil {
		return errs.Newf(errs.InvalidArgument, "decode: %s", err)
	}

	task, err := b.tasksRepository.Create(ctx, owner, MarshalCreateToRepository(input))
	if err != nil {
		return repoError(err)
	}

	return web.NewJSONResponse(MarshalToBridge(task))
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	owner, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.Newf(errs.Unauthenticated, "authorization token required")
	}

	id, err := parseTaskID(r)
	if err != nil {
		return errs.Newf(errs.NotFound, "task not found")
	}

	task, err := b.tasksRepository.Get(ctx, owner, id)
	if err != nil {
		return repoError(err)
	}

	return web.NewJSONResponse(MarshalToBridge(task))
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	owner, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.Newf(errs.Unauthenticated, "authorization token required")
	}

	id, err := parseTaskID(r)
	if err != nil {
		return errs.Newf(errs.NotFound, "task not found")
	}

	var input UpdateTaskInput
	if err := web.Decode(r, &input); err != nil {
		return errs.Newf(errs.InvalidArgument, "decode: %s", err)
	}

	if err := b.tasksRepository.Update(ctx, owner, id, MarshalUpdateToRepository(input)); err != nil {
		return repoError(err)
	}

	return fopbridge.NewSuccessResponse()
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	owner, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.Newf(errs.Unauthenticated, "authorization token required")
	}

	id, err := parseTaskID(r)
	if err != nil {
		return errs.Newf(errs.NotFound, "task not found")
	}

	if err := b.tasksRepository.Delete(ctx, owner, id); err != nil {
		return repoError(err)
	}

	return fopbridge.NewSuccessResponse()
}

func (b *bridge) httpCategories(ctx context.Context, r *http.Request) web.Encoder {
	owner, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.Newf(errs.Unauthenticated, "authorization token required")
	}

	cats, err := b.tasksRepository.Categories(ctx, owner)
	if err != nil {
		return repoError(err)
	}

	return web.NewJSONResponse(cats)
}

func (b *bridge) httpSummary(ctx context.Context, r *http.Request) web.Encoder {
	owner, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.Newf(errs.Unauthenticated, "authorization token required")
	}

	sum, err := b.tasksRepository.Summary(ctx, owner)
	if err != nil {
		return repoError(err)
	}

	return web.NewJSONResponse(marshalSummary(sum))
}

func (b *bridge) httpClearCompleted(ctx context.Context, r *http.Request) web.Encoder {
	owner, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.Newf(errs.Unauthenticated, "authorization token required")
	}

	res, err := b.tasksRepository.ClearCompleted(ctx, owner)
	if err != nil {
		if errors.Is(err, tasksrepo.ErrPartialClear) {
			return errs.Newf(errs.Internal, "cleared %d of %d completed tasks", res.Deleted, res.Total).
				WithFields(map[string]any{"deleted": res.Deleted, "total": res.Total})
		}
		return repoError(err)
	}

	return web.NewJSONResponse(marshalClearResult(res))
}

func (b *bridge) httpReorder(ctx context.Context, r *http.Request) web.Encoder {
	owner, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.Newf(errs.Unauthenticated, "authorization token required")
	}

	var input ReorderInput
	if err := web.Decode(r, &input); err != nil {
		return errs.Newf(errs.InvalidArgument, "decode: %s", err)
	}

	if err := b.tasksRepository.Reorder(ctx, owner, input.IDs); err != nil {
		return repoError(err)
	}

	return fopbridge.NewSuccessResponse()
}

// repoError maps repository errors onto the HTTP taxonomy.
func repoError(err error) *errs.Error {
	switch {
	case errors.Is(err, tasksrepo.ErrNotFound):
		return errs.Newf(errs.NotFound, "task not found")
	case errors.Is(err, tasksrepo.ErrInvalidInput):
		return errs.Newf(errs.InvalidArgument, "%s", err)
	}
	return errs.New(errs.InternalOnlyLog, err)
}
