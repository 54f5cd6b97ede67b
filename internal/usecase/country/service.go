package country

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"newsfeed-hub/internal/domain/entity"
	"newsfeed-hub/internal/repository"
	"newsfeed-hub/internal/usecase/notify"
)

// CreateInput represents the input parameters for creating a new country.
type CreateInput struct {
	Name     string
	FullName string
	Short    string
	Forum    string
	Author   string
}

// UpdateInput represents the input parameters for updating an existing country.
// All editable fields are replaced; Owner is the authenticated caller.
type UpdateInput struct {
	ID       int64
	Name     string
	FullName string
	Short    string
	Forum    string
	Owner    string
}

// Service provides country management use cases.
type Service struct {
	Repo     repository.CountryRepository
	Notifier notify.Notifier
}

// Get returns the country with the given id or ErrCountryNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Country, error) {
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get country: %w", err)
	}
	if c == nil {
		return nil, ErrCountryNotFound
	}
	return c, nil
}

// List returns all countries ordered by name.
func (s *Service) List(ctx context.Context) ([]*entity.Country, error) {
	countries, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	return countries, nil
}

// ListMine returns the countries created by owner.
// Anonymous callers get an empty list without a repository round trip.
func (s *Service) ListMine(ctx context.Context, owner string) ([]*entity.Country, error) {
	if owner == "" {
		return []*entity.Country{}, nil
	}
	countries, err := s.Repo.ListByAuthor(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list own countries: %w", err)
	}
	return countries, nil
}

// Options returns (id, name) pairs for select inputs.
func (s *Service) Options(ctx context.Context) ([]entity.CountryOption, error) {
	opts, err := s.Repo.Options(ctx)
	if err != nil {
		return nil, fmt.Errorf("list country options: %w", err)
	}
	return opts, nil
}

// Create validates the input, stores the country and returns its id.
func (s *Service) Create(ctx context.Context, in CreateInput) (int64, error) {
	c := &entity.Country{
		Name:     strings.TrimSpace(in.Name),
		FullName: strings.TrimSpace(in.FullName),
		Short:    strings.TrimSpace(in.Short),
		Forum:    strings.TrimSpace(in.Forum),
		Author:   in.Author,
	}
	if err := entity.ValidateCountry(c); err != nil {
		s.fail(ctx, "Konnte nicht erstellen", err)
		return 0, err
	}

	if err := s.Repo.Create(ctx, c); err != nil {
		s.fail(ctx, "Konnte nicht erstellen", err)
		return 0, fmt.Errorf("create country: %w", err)
	}
	notify.Send(ctx, s.Notifier, notify.Success("Erstellt!", "Das Land wurde erfolgreich erstellt."))
	return c.ID, nil
}

// Update replaces the editable fields of a country owned by in.Owner.
func (s *Service) Update(ctx context.Context, in UpdateInput) error {
	c, err := s.owned(ctx, in.ID, in.Owner)
	if err != nil {
		s.fail(ctx, "Konnte nicht speichern", err)
		return err
	}

	c.Name = strings.TrimSpace(in.Name)
	c.FullName = strings.TrimSpace(in.FullName)
	c.Short = strings.TrimSpace(in.Short)
	c.Forum = strings.TrimSpace(in.Forum)
	if err := entity.ValidateCountry(c); err != nil {
		s.fail(ctx, "Konnte nicht speichern", err)
		return err
	}

	if err := s.Repo.Update(ctx, c); err != nil {
		err = mapNotFound(err)
		s.fail(ctx, "Konnte nicht speichern", err)
		return fmt.Errorf("update country: %w", err)
	}
	notify.Send(ctx, s.Notifier, notify.Success("Gespeichert!", "Das Land wurde erfolgreich aktualisiert."))
	return nil
}

// Delete removes a country owned by owner.
func (s *Service) Delete(ctx context.Context, id int64, owner string) error {
	if _, err := s.owned(ctx, id, owner); err != nil {
		s.fail(ctx, "Konnte nicht löschen", err)
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		err = mapNotFound(err)
		s.fail(ctx, "Konnte nicht löschen", err)
		return fmt.Errorf("delete country: %w", err)
	}
	notify.Send(ctx, s.Notifier, notify.Success("Gelöscht!", "Das Land wurde erfolgreich gelöscht."))
	return nil
}

func (s *Service) owned(ctx context.Context, id int64, owner string) (*entity.Country, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.OwnedBy(owner) {
		return nil, entity.ErrForbidden
	}
	return c, nil
}

func (s *Service) fail(ctx context.Context, prefix string, err error) {
	if errors.Is(err, ErrCountryNotFound) {
		notify.Send(ctx, s.Notifier, notify.Failure("Land nicht gefunden", ""))
		return
	}
	notify.Send(ctx, s.Notifier, notify.FailureFor(prefix, err))
}

func mapNotFound(err error) error {
	if errors.Is(err, entity.ErrNotFound) {
		return ErrCountryNotFound
	}
	return err
}
