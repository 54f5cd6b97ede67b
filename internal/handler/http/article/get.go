package article

import (
	"errors"
	"net/http"

	"newsfeed-hub/internal/handler/http/pathutil"
	"newsfeed-hub/internal/handler/http/respond"
	artUC "newsfeed-hub/internal/usecase/article"
)

// GetHandler serves GET /api/articles/{id}.
type GetHandler struct{ Svc *artUC.Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "A valid numerical article ID is required.")
		return
	}

	a, err := h.Svc.Get(r.Context(), id)
	switch {
	case errors.Is(err, artUC.ErrInvalidArticleID):
		respond.Message(w, http.StatusBadRequest, "A valid numerical article ID is required.")
		return
	case errors.Is(err, artUC.ErrArticleNotFound):
		respond.Message(w, http.StatusNotFound, "Article not found")
		return
	case err != nil:
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTO(a))
}
