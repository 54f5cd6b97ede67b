package newslist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"newsfeed-hub/internal/domain/entity"
	"newsfeed-hub/internal/repository"
	"newsfeed-hub/internal/usecase/notify"
)

// CreateInput represents the input parameters for creating a new list.
type CreateInput struct {
	Name             string
	NewspaperIDs     []int64
	FilterAuthors    []string
	FilterCategories []string
	Author           string
}

// UpdateInput replaces name, newspapers and both filters of a list owned by Owner.
type UpdateInput struct {
	ID               string
	Name             string
	NewspaperIDs     []int64
	FilterAuthors    []string
	FilterCategories []string
	Owner            string
}

// Service provides newspaper list use cases.
type Service struct {
	Repo     repository.NewspaperListRepository
	Notifier notify.Notifier
	// NewID generates list ids; uuid.NewString when nil.
	NewID func() string
}

// Get returns the list with the given id or ErrListNotFound.
func (s *Service) Get(ctx context.Context, id string) (*entity.NewspaperList, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrListNotFound
	}
	l, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get newspaper list: %w", err)
	}
	if l == nil {
		return nil, ErrListNotFound
	}
	return l, nil
}

// List returns all lists, newest first.
func (s *Service) List(ctx context.Context) ([]*entity.NewspaperList, error) {
	lists, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list newspaper lists: %w", err)
	}
	return lists, nil
}

// ListMine returns the lists created by owner; empty for anonymous callers.
func (s *Service) ListMine(ctx context.Context, owner string) ([]*entity.NewspaperList, error) {
	if owner == "" {
		return []*entity.NewspaperList{}, nil
	}
	lists, err := s.Repo.ListByAuthor(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list own newspaper lists: %w", err)
	}
	return lists, nil
}

// Create validates the input, stores the list and returns its id.
func (s *Service) Create(ctx context.Context, in CreateInput) (string, error) {
	l := &entity.NewspaperList{
		ID:               s.newID(),
		Name:             strings.TrimSpace(in.Name),
		NewspaperIDs:     in.NewspaperIDs,
		FilterAuthors:    entity.NormalizeFilter(in.FilterAuthors),
		FilterCategories: entity.NormalizeFilter(in.FilterCategories),
		Author:           in.Author,
	}
	if err := entity.ValidateNewspaperList(l); err != nil {
		s.fail(ctx, "", err)
		return "", err
	}

	if err := s.Repo.Create(ctx, l); err != nil {
		s.fail(ctx, "", err)
		return "", fmt.Errorf("create newspaper list: %w", err)
	}
	notify.Send(ctx, s.Notifier, notify.Success("Liste erstellt!", ""))
	return l.ID, nil
}

// Update replaces the editable fields of a list.
func (s *Service) Update(ctx context.Context, in UpdateInput) error {
	l, err := s.owned(ctx, in.ID, in.Owner)
	if err != nil {
		s.fail(ctx, "", err)
		return err
	}

	l.Name = strings.TrimSpace(in.Name)
	l.NewspaperIDs = in.NewspaperIDs
	l.FilterAuthors = entity.NormalizeFilter(in.FilterAuthors)
	l.FilterCategories = entity.NormalizeFilter(in.FilterCategories)
	if err := entity.ValidateNewspaperList(l); err != nil {
		s.fail(ctx, "", err)
		return err
	}

	if err := s.Repo.Update(ctx, l); err != nil {
		err = mapNotFound(err)
		s.fail(ctx, "", err)
		return fmt.Errorf("update newspaper list: %w", err)
	}
	notify.Send(ctx, s.Notifier, notify.Success("Gespeichert!", ""))
	return nil
}

// Delete removes a list owned by owner.
func (s *Service) Delete(ctx context.Context, id, owner string) error {
	if _, err := s.owned(ctx, id, owner); err != nil {
		s.fail(ctx, "Liste konnte nicht gelöscht werden", err)
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		err = mapNotFound(err)
		s.fail(ctx, "Liste konnte nicht gelöscht werden", err)
		return fmt.Errorf("delete newspaper list: %w", err)
	}
	notify.Send(ctx, s.Notifier, notify.Success("Liste gelöscht!", ""))
	return nil
}

// EditAuthorFilter replaces only the author filter. An empty slice removes the filter.
func (s *Service) EditAuthorFilter(ctx context.Context, id, owner string, authors []string) error {
	const failure = "Autorenfilter konnte nicht gespeichert werden"
	if _, err := s.owned(ctx, id, owner); err != nil {
		s.fail(ctx, failure, err)
		return err
	}
	if err := s.Repo.UpdateFilterAuthors(ctx, id, entity.NormalizeFilter(authors)); err != nil {
		err = mapNotFound(err)
		s.fail(ctx, failure, err)
		return fmt.Errorf("edit author filter: %w", err)
	}
	notify.Send(ctx, s.Notifier, notify.Success("Autorenfilter gespeichert!", ""))
	return nil
}

// EditCategoryFilter replaces only the category filter. An empty slice removes the filter.
func (s *Service) EditCategoryFilter(ctx context.Context, id, owner string, categories []string) error {
	const failure = "Kategorienfilter konnte nicht gespeichert werden"
	if _, err := s.owned(ctx, id, owner); err != nil {
		s.fail(ctx, failure, err)
		return err
	}
	if err := s.Repo.UpdateFilterCategories(ctx, id, entity.NormalizeFilter(categories)); err != nil {
		err = mapNotFound(err)
		s.fail(ctx, failure, err)
		return fmt.Errorf("edit category filter: %w", err)
	}
	notify.Send(ctx, s.Notifier, notify.Success("Kategorienfilter gespeichert!", ""))
	return nil
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Service) owned(ctx context.Context, id, owner string) (*entity.NewspaperList, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.OwnedBy(owner) {
		return nil, entity.ErrForbidden
	}
	return l, nil
}

func (s *Service) fail(ctx context.Context, prefix string, err error) {
	if errors.Is(err, ErrListNotFound) {
		notify.Send(ctx, s.Notifier, notify.Failure("Liste nicht gefunden", ""))
		return
	}
	notify.Send(ctx, s.Notifier, notify.FailureFor(prefix, err))
}

func mapNotFound(err error) error {
	if errors.Is(err, entity.ErrNotFound) {
		return ErrListNotFound
	}
	return err
}
