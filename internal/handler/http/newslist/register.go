// Package newslist serves the newspaper list endpoints.
package newslist

import (
	"net/http"

	"newsfeed-hub/internal/handler/http/auth"
	"newsfeed-hub/internal/handler/http/outcome"
	listUC "newsfeed-hub/internal/usecase/newslist"
)

// Register adds the list routes to mux.
func Register(mux *http.ServeMux, svc *listUC.Service, v *auth.Verifier) {
	write := func(h http.Handler) http.Handler { return v.Required(outcome.Collect(h)) }

	mux.Handle("GET /api/lists", ListHandler{Svc: svc})
	mux.Handle("GET /api/lists/mine", v.Optional(MineHandler{Svc: svc}))
	mux.Handle("GET /api/lists/{id}", GetHandler{Svc: svc})
	mux.Handle("POST /api/lists", write(CreateHandler{Svc: svc}))
	mux.Handle("PUT /api/lists/{id}", write(UpdateHandler{Svc: svc}))
	mux.Handle("DELETE /api/lists/{id}", write(DeleteHandler{Svc: svc}))
	mux.Handle("PUT /api/lists/{id}/filters/authors", write(AuthorFilterHandler(svc)))
	mux.Handle("PUT /api/lists/{id}/filters/categories", write(CategoryFilterHandler(svc)))
}
