package newspaper

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"newsfeed-hub/internal/domain/entity"
	"newsfeed-hub/internal/repository"
	"newsfeed-hub/internal/usecase/notify"
)

// CreateInput represents the input parameters for creating a new newspaper.
type CreateInput struct {
	Name        string
	URL         string
	RSS         string
	CountryID   int64
	Description string
	Author      string
}

// UpdateInput replaces the editable fields of a newspaper owned by Owner.
type UpdateInput struct {
	ID          int64
	Name        string
	URL         string
	RSS         string
	CountryID   int64
	Description string
	Owner       string
}

// Service provides newspaper management use cases.
type Service struct {
	Repo     repository.NewspaperRepository
	Notifier notify.Notifier
}

// Get returns the newspaper with the given id or ErrNewspaperNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Newspaper, error) {
	n, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get newspaper: %w", err)
	}
	if n == nil {
		return nil, ErrNewspaperNotFound
	}
	return n, nil
}

// List returns all newspapers ordered by name.
func (s *Service) List(ctx context.Context) ([]*entity.Newspaper, error) {
	newspapers, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list newspapers: %w", err)
	}
	return newspapers, nil
}

// ListByCountry returns the newspapers of one country ordered by name.
func (s *Service) ListByCountry(ctx context.Context, countryID int64) ([]*entity.Newspaper, error) {
	newspapers, err := s.Repo.ListByCountry(ctx, countryID)
	if err != nil {
		return nil, fmt.Errorf("list newspapers of country %d: %w", countryID, err)
	}
	return newspapers, nil
}

// ListMine returns the newspapers created by owner; empty for anonymous callers.
func (s *Service) ListMine(ctx context.Context, owner string) ([]*entity.Newspaper, error) {
	if owner == "" {
		return []*entity.Newspaper{}, nil
	}
	newspapers, err := s.Repo.ListByAuthor(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list own newspapers: %w", err)
	}
	return newspapers, nil
}

// Create validates the input, stores the newspaper and returns its id.
func (s *Service) Create(ctx context.Context, in CreateInput) (int64, error) {
	n := &entity.Newspaper{
		Name:        strings.TrimSpace(in.Name),
		URL:         strings.TrimSpace(in.URL),
		RSS:         strings.TrimSpace(in.RSS),
		CountryID:   in.CountryID,
		Description: strings.TrimSpace(in.Description),
		Author:      in.Author,
	}
	if err := entity.ValidateNewspaper(n); err != nil {
		s.fail(ctx, "Konnte Zeitung nicht erstellen", err)
		return 0, err
	}

	if err := s.Repo.Create(ctx, n); err != nil {
		s.fail(ctx, "Konnte Zeitung nicht erstellen", err)
		return 0, fmt.Errorf("create newspaper: %w", err)
	}
	notify.Send(ctx, s.Notifier, notify.Success("Erstellt!", fmt.Sprintf("Zeitung %q wurde hinzugefügt.", n.Name)))
	return n.ID, nil
}

// Update replaces the editable fields of a newspaper.
func (s *Service) Update(ctx context.Context, in UpdateInput) error {
	n, err := s.owned(ctx, in.ID, in.Owner)
	if err != nil {
		s.fail(ctx, "Konnte nicht speichern", err)
		return err
	}

	n.Name = strings.TrimSpace(in.Name)
	n.URL = strings.TrimSpace(in.URL)
	n.RSS = strings.TrimSpace(in.RSS)
	n.CountryID = in.CountryID
	n.Description = strings.TrimSpace(in.Description)
	if err := entity.ValidateNewspaper(n); err != nil {
		s.fail(ctx, "Konnte nicht speichern", err)
		return err
	}

	if err := s.Repo.Update(ctx, n); err != nil {
		err = mapNotFound(err)
		s.fail(ctx, "Konnte nicht speichern", err)
		return fmt.Errorf("update newspaper: %w", err)
	}
	notify.Send(ctx, s.Notifier, notify.Success("Gespeichert!", "Zeitung wurde erfolgreich aktualisiert."))
	return nil
}

// Delete removes a newspaper. Its articles are removed by the database cascade.
func (s *Service) Delete(ctx context.Context, id int64, owner string) error {
	if _, err := s.owned(ctx, id, owner); err != nil {
		s.fail(ctx, "Konnte nicht löschen", err)
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		err = mapNotFound(err)
		s.fail(ctx, "Konnte nicht löschen", err)
		return fmt.Errorf("delete newspaper: %w", err)
	}
	notify.Send(ctx, s.Notifier, notify.Success("Gelöscht!", "Zeitung wurde erfolgreich gelöscht."))
	return nil
}

func (s *Service) owned(ctx context.Context, id int64, owner string) (*entity.Newspaper, error) {
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.OwnedBy(owner) {
		return nil, entity.ErrForbidden
	}
	return n, nil
}

func (s *Service) fail(ctx context.Context, prefix string, err error) {
	if errors.Is(err, ErrNewspaperNotFound) {
		notify.Send(ctx, s.Notifier, notify.Failure("Zeitung nicht gefunden", ""))
		return
	}
	notify.Send(ctx, s.Notifier, notify.FailureFor(prefix, err))
}

func mapNotFound(err error) error {
	if errors.Is(err, entity.ErrNotFound) {
		return ErrNewspaperNotFound
	}
	return err
}
