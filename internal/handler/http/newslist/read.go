package newslist

import (
	"errors"
	"net/http"

	"newsfeed-hub/internal/handler/http/auth"
	"newsfeed-hub/internal/handler/http/respond"
	listUC "newsfeed-hub/internal/usecase/newslist"
)

const msgNotFound = "Newspaper list not found"

type ListHandler struct{ Svc *listUC.Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	lists, err := h.Svc.List(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTOs(lists))
}

type MineHandler struct{ Svc *listUC.Service }

func (h MineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	lists, err := h.Svc.ListMine(r.Context(), auth.OwnerFromContext(r.Context()))
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTOs(lists))
}

// GetHandler serves GET /api/lists/{id}. Ids that are not UUIDs are reported as missing.
type GetHandler struct{ Svc *listUC.Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, listUC.ErrListNotFound) {
		respond.Message(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(l))
}
