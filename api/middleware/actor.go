package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/feriavirtual/marketplace-backend/api/responses"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
	"github.com/feriavirtual/marketplace-backend/pkg/logger"
)

const (
	actorIDHeader    = "X-User-Id"
	actorEmailHeader = "X-User-Email"
	actorRoleHeader  = "X-User-Role"

	roleSeller = "seller"
)

type actorKey struct{}

// Actor is the authenticated identity injected by the edge proxy. The proxy
// terminates auth; this service only trusts its identity headers.
type Actor struct {
	ID       uuid.UUID
	Email    string
	IsSeller bool
}

// ActorContext extracts the proxy identity headers and rejects requests that
// arrive without them.
func ActorContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			id, err := uuid.Parse(r.Header.Get(actorIDHeader))
			if err != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.New(pkgerrors.CodePermission, "missing or invalid user identity"))
				return
			}

			actor := Actor{
				ID:       id,
				Email:    r.Header.Get(actorEmailHeader),
				IsSeller: r.Header.Get(actorRoleHeader) == roleSeller,
			}

			if logg != nil {
				ctx = logg.WithField(ctx, "user_id", actor.ID.String())
			}
			ctx = context.WithValue(ctx, actorKey{}, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFrom returns the actor stored by ActorContext.
func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}
