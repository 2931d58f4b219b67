package http

import (
	"net/http"
	"strings"

	"github.com/gofrs/uuid"

	"github.com/toffycaluga/tienda-backend/internal/auth"
)

// ActorMiddleware resolves the request actor from headers set by the
// upstream identity layer. Authentication itself happens outside this
// service; a request without X-Actor-ID is anonymous.
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idParam := r.Header.Get("X-Actor-ID")
		if idParam == "" {
			next.ServeHTTP(w, r)
			return
		}

		actorID, err := uuid.FromString(idParam)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid X-Actor-ID header")
			return
		}

		var caps []auth.Capability
		if rawCaps := r.Header.Get("X-Actor-Caps"); rawCaps != "" {
			for _, c := range strings.Split(rawCaps, ",") {
				if c = strings.TrimSpace(c); c != "" {
					caps = append(caps, auth.Capability(c))
				}
			}
		}

		actor := auth.NewActor(actorID, r.Header.Get("X-Actor-Name"), caps...)
		next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
	})
}
