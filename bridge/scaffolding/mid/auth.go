package mid

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrazmi/taskboard/bridge/scaffolding/errs"
	"github.com/jrazmi/taskboard/infrastructure/web"
)

// TokenVerifier resolves a bearer token to the user id it was issued to.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Authenticate requires an "Authorization: Bearer <token>" header that v
// accepts and stores the resulting user id for GetUserID.
func Authenticate(v TokenVerifier) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			token, ok := bearerToken(r)
			if !ok {
				return errs.Newf(errs.Unauthenticated, "authorization token required")
			}

			userID, err := v.Verify(ctx, token)
			if err != nil {
				return errs.Newf(errs.Unauthenticated, "invalid or expired token")
			}

			return next(setUserID(ctx, userID), r)
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
