package newslist

import (
	"context"
	"net/http"

	"newsfeed-hub/internal/handler/http/auth"
	"newsfeed-hub/internal/handler/http/outcome"
	"newsfeed-hub/internal/handler/http/respond"
	listUC "newsfeed-hub/internal/usecase/newslist"
)

const resource = "newspaper_list"

var notFound = outcome.NotFound{Err: listUC.ErrListNotFound, Message: msgNotFound}

type CreateHandler struct{ Svc *listUC.Service }

func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req writeRequest
	if err := outcome.Decode(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	id, err := h.Svc.Create(r.Context(), listUC.CreateInput{
		Name:             req.Name,
		NewspaperIDs:     req.Newspapers,
		FilterAuthors:    req.FilterAuthors,
		FilterCategories: req.FilterCategories,
		Author:           auth.OwnerFromContext(r.Context()),
	})
	if err != nil {
		outcome.Fail(w, r, resource, notFound, err)
		return
	}
	outcome.OK(w, r, http.StatusCreated, map[string]any{"id": id})
}

type UpdateHandler struct{ Svc *listUC.Service }

func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req writeRequest
	if err := outcome.Decode(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	id := r.PathValue("id")
	err := h.Svc.Update(r.Context(), listUC.UpdateInput{
		ID:               id,
		Name:             req.Name,
		NewspaperIDs:     req.Newspapers,
		FilterAuthors:    req.FilterAuthors,
		FilterCategories: req.FilterCategories,
		Owner:            auth.OwnerFromContext(r.Context()),
	})
	if err != nil {
		outcome.Fail(w, r, resource, notFound, err)
		return
	}
	outcome.OK(w, r, http.StatusOK, map[string]any{"id": id})
}

type DeleteHandler struct{ Svc *listUC.Service }

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id"), auth.OwnerFromContext(r.Context())); err != nil {
		outcome.Fail(w, r, resource, notFound, err)
		return
	}
	outcome.OK(w, r, http.StatusOK, nil)
}

// FilterHandler replaces only the author or only the category filter.
type FilterHandler struct {
	edit func(ctx context.Context, id, owner string, values []string) error
}

// AuthorFilterHandler serves PUT /api/lists/{id}/filters/authors.
func AuthorFilterHandler(svc *listUC.Service) FilterHandler {
	return FilterHandler{edit: svc.EditAuthorFilter}
}

// CategoryFilterHandler serves PUT /api/lists/{id}/filters/categories.
func CategoryFilterHandler(svc *listUC.Service) FilterHandler {
	return FilterHandler{edit: svc.EditCategoryFilter}
}

func (h FilterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := outcome.Decode(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	id := r.PathValue("id")
	if err := h.edit(r.Context(), id, auth.OwnerFromContext(r.Context()), req.Values); err != nil {
		outcome.Fail(w, r, resource, notFound, err)
		return
	}
	outcome.OK(w, r, http.StatusOK, map[string]any{"id": id})
}
