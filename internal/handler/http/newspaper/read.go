package newspaper

import (
	"errors"
	"net/http"

	"newsfeed-hub/internal/domain/entity"
	"newsfeed-hub/internal/handler/http/auth"
	"newsfeed-hub/internal/handler/http/pathutil"
	"newsfeed-hub/internal/handler/http/respond"
	newspaperUC "newsfeed-hub/internal/usecase/newspaper"
)

const msgNotFound = "Newspaper not found"

// ListHandler lists all newspapers, or those of one country with ?country=ID.
type ListHandler struct{ Svc *newspaperUC.Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var (
		newspapers []*entity.Newspaper
		err        error
	)
	if raw := r.URL.Query().Get("country"); raw != "" {
		countryID, perr := pathutil.ParseID(raw)
		if perr != nil {
			respond.Message(w, http.StatusBadRequest, "invalid country id")
			return
		}
		newspapers, err = h.Svc.ListByCountry(r.Context(), countryID)
	} else {
		newspapers, err = h.Svc.List(r.Context())
	}
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTOs(newspapers))
}

type MineHandler struct{ Svc *newspaperUC.Service }

func (h MineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	newspapers, err := h.Svc.ListMine(r.Context(), auth.OwnerFromContext(r.Context()))
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTOs(newspapers))
}

type GetHandler struct{ Svc *newspaperUC.Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	n, err := h.Svc.Get(r.Context(), id)
	if errors.Is(err, newspaperUC.ErrNewspaperNotFound) {
		respond.Message(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(n))
}
