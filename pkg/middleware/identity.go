package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/workflow"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/composables"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/httpapi"
)

// Identity resolves the acting user and country from the gateway headers.
// Authentication itself happens upstream; these headers arrive already
// verified.
func Identity() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := r.Header.Get("X-Country")
			if country == "" {
				_ = httpapi.WriteError(w, http.StatusBadRequest, "MISSING_COUNTRY", "X-Country header is required", nil)
				return
			}
			role, err := workflow.ParseRole(r.Header.Get("X-Actor-Role"))
			if err != nil {
				_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ROLE", err.Error(), nil)
				return
			}
			actorID, err := uuid.Parse(r.Header.Get("X-Actor-Id"))
			if err != nil {
				_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ACTOR", "X-Actor-Id must be a UUID", nil)
				return
			}
			actor := workflow.Actor{
				ID:   actorID,
				Name: r.Header.Get("X-Actor-Name"),
				Role: role,
			}

			ctx := composables.WithCountry(r.Context(), country)
			ctx = composables.WithActor(ctx, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
