// Package newspaper serves the newspaper endpoints.
package newspaper

import (
	"net/http"

	"newsfeed-hub/internal/handler/http/auth"
	"newsfeed-hub/internal/handler/http/outcome"
	newspaperUC "newsfeed-hub/internal/usecase/newspaper"
)

// Register adds the newspaper routes to mux.
func Register(mux *http.ServeMux, svc *newspaperUC.Service, v *auth.Verifier) {
	write := func(h http.Handler) http.Handler { return v.Required(outcome.Collect(h)) }

	mux.Handle("GET /api/newspapers", ListHandler{Svc: svc})
	mux.Handle("GET /api/newspapers/mine", v.Optional(MineHandler{Svc: svc}))
	mux.Handle("GET /api/newspapers/{id}", GetHandler{Svc: svc})
	mux.Handle("POST /api/newspapers", write(CreateHandler{Svc: svc}))
	mux.Handle("PUT /api/newspapers/{id}", write(UpdateHandler{Svc: svc}))
	mux.Handle("DELETE /api/newspapers/{id}", write(DeleteHandler{Svc: svc}))
}
