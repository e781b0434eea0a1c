package credentialsbridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/jrazmi/taskboard/bridge/scaffolding/errs"
	"github.com/jrazmi/taskboard/core/services/credentials"
	"github.com/jrazmi/taskboard/infrastructure/web"
	"github.com/jrazmi/taskboard/sdk/logger"
)

type bridge struct {
	log     *logger.Logger
	service Service
}

func newBridge(log *logger.Logger, service Service) *bridge {
	return &bridge{
		log:     log,
		service: service,
	}
}

func (b *bridge) httpSignup(ctx context.Context, r *http.Request) web.Encoder {
	var input CredentialsInput
	if err := web.Decode(r, &input); err != nil {
		return errs.Newf(errs.InvalidArgument, "decode: %s", err)
	}

	cred, err := b.service.Register(ctx, input.Username, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, credentials.ErrConflict):
			return errs.Newf(errs.AlreadyExists, "username already taken")
		case errors.Is(err, credentials.ErrInvalidInput):
			return errs.Newf(errs.InvalidArgument, "%s", err)
		}
		return errs.New(errs.InternalOnlyLog, err)
	}

	b.log.InfoContext(ctx, "user signed up", "user_id", cred.UserID)
	return web.NewJSONResponse(MarshalToBridge(cred))
}

func (b *bridge) httpSignin(ctx context.Context, r *http.Request) web.Encoder {
	var input CredentialsInput
	if err := web.Decode(r, &input); err != nil {
		return errs.Newf(errs.InvalidArgument, "decode: %s", err)
	}

	cred, err := b.service.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		if errors.Is(err, credentials.ErrUnauthorized) {
			return errs.Newf(errs.Unauthenticated, "invalid username or password")
		}
		return errs.New(errs.InternalOnlyLog, err)
	}

	return web.NewJSONResponse(MarshalToBridge(cred))
}
