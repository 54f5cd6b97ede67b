// Package country serves the country endpoints.
package country

import (
	"net/http"

	"newsfeed-hub/internal/handler/http/auth"
	"newsfeed-hub/internal/handler/http/outcome"
	countryUC "newsfeed-hub/internal/usecase/country"
)

// Register adds the country routes to mux. Writes require a token.
func Register(mux *http.ServeMux, svc *countryUC.Service, v *auth.Verifier) {
	write := func(h http.Handler) http.Handler { return v.Required(outcome.Collect(h)) }

	mux.Handle("GET /api/countries", ListHandler{Svc: svc})
	mux.Handle("GET /api/countries/options", OptionsHandler{Svc: svc})
	mux.Handle("GET /api/countries/mine", v.Optional(MineHandler{Svc: svc}))
	mux.Handle("GET /api/countries/{id}", GetHandler{Svc: svc})
	mux.Handle("POST /api/countries", write(CreateHandler{Svc: svc}))
	mux.Handle("PUT /api/countries/{id}", write(UpdateHandler{Svc: svc}))
	mux.Handle("DELETE /api/countries/{id}", write(DeleteHandler{Svc: svc}))
}
