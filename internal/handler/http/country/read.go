package country

import (
	"errors"
	"net/http"

	"newsfeed-hub/internal/handler/http/auth"
	"newsfeed-hub/internal/handler/http/pathutil"
	"newsfeed-hub/internal/handler/http/respond"
	countryUC "newsfeed-hub/internal/usecase/country"
)

const msgNotFound = "Country not found"

type ListHandler struct{ Svc *countryUC.Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	countries, err := h.Svc.List(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTOs(countries))
}

// MineHandler lists the countries of the caller; anonymous callers get [].
type MineHandler struct{ Svc *countryUC.Service }

func (h MineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	countries, err := h.Svc.ListMine(r.Context(), auth.OwnerFromContext(r.Context()))
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTOs(countries))
}

type OptionsHandler struct{ Svc *countryUC.Service }

func (h OptionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	opts, err := h.Svc.Options(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]OptionDTO, 0, len(opts))
	for _, o := range opts {
		out = append(out, OptionDTO{ID: o.ID, Name: o.Name})
	}
	respond.JSON(w, http.StatusOK, out)
}

type GetHandler struct{ Svc *countryUC.Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	c, err := h.Svc.Get(r.Context(), id)
	if errors.Is(err, countryUC.ErrCountryNotFound) {
		respond.Message(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(c))
}
