package newspaper

import (
	"net/http"

	"newsfeed-hub/internal/handler/http/auth"
	"newsfeed-hub/internal/handler/http/outcome"
	"newsfeed-hub/internal/handler/http/pathutil"
	"newsfeed-hub/internal/handler/http/respond"
	newspaperUC "newsfeed-hub/internal/usecase/newspaper"
)

const resource = "newspaper"

var notFound = outcome.NotFound{Err: newspaperUC.ErrNewspaperNotFound, Message: msgNotFound}

type CreateHandler struct{ Svc *newspaperUC.Service }

func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req writeRequest
	if err := outcome.Decode(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	id, err := h.Svc.Create(r.Context(), newspaperUC.CreateInput{
		Name:        req.Name,
		URL:         req.URL,
		RSS:         req.RSS,
		CountryID:   req.Country,
		Description: req.Description,
		Author:      auth.OwnerFromContext(r.Context()),
	})
	if err != nil {
		outcome.Fail(w, r, resource, notFound, err)
		return
	}
	outcome.OK(w, r, http.StatusCreated, map[string]any{"id": id})
}

type UpdateHandler struct{ Svc *newspaperUC.Service }

func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	var req writeRequest
	if err := outcome.Decode(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	err = h.Svc.Update(r.Context(), newspaperUC.UpdateInput{
		ID:          id,
		Name:        req.Name,
		URL:         req.URL,
		RSS:         req.RSS,
		CountryID:   req.Country,
		Description: req.Description,
		Owner:       auth.OwnerFromContext(r.Context()),
	})
	if err != nil {
		outcome.Fail(w, r, resource, notFound, err)
		return
	}
	outcome.OK(w, r, http.StatusOK, map[string]any{"id": id})
}

type DeleteHandler struct{ Svc *newspaperUC.Service }

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id, auth.OwnerFromContext(r.Context())); err != nil {
		outcome.Fail(w, r, resource, notFound, err)
		return
	}
	outcome.OK(w, r, http.StatusOK, nil)
}
