package article

import (
	"context"
	"net/http"

	"newsfeed-hub/internal/handler/http/respond"
	artUC "newsfeed-hub/internal/usecase/article"
)

// LookupHandler serves the distinct author or category values.
type LookupHandler struct {
	load func(ctx context.Context) ([]string, error)
}

// AuthorsHandler serves GET /api/lookups/authors.
func AuthorsHandler(svc *artUC.Service) LookupHandler {
	return LookupHandler{load: svc.Authors}
}

// CategoriesHandler serves GET /api/lookups/categories.
func CategoriesHandler(svc *artUC.Service) LookupHandler {
	return LookupHandler{load: svc.Categories}
}

func (h LookupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	items, err := h.load(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	if items == nil {
		items = []string{}
	}
	respond.JSON(w, http.StatusOK, LookupDTO{Items: items})
}
