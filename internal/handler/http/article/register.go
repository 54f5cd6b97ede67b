// Package article serves ingested articles and the author and category lookups.
package article

import (
	"net/http"

	artUC "newsfeed-hub/internal/usecase/article"
)

// Register adds the article routes to mux. All of them are public.
func Register(mux *http.ServeMux, svc *artUC.Service) {
	mux.Handle("GET /api/articles/{id}", GetHandler{Svc: svc})
	mux.Handle("GET /api/lookups/authors", AuthorsHandler(svc))
	mux.Handle("GET /api/lookups/categories", CategoriesHandler(svc))
}
