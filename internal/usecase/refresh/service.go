// Package refresh forwards feed refresh requests to the ingestion functions.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidNewspaperID is returned when the newspaper id is not a positive integer.
var ErrInvalidNewspaperID = errors.New("invalid newspaper id")

// Trigger starts ingestion runs. *functions.Client implements it.
type Trigger interface {
	ProcessNewspaper(ctx context.Context, id int64) (map[string]any, error)
	ProcessAll(ctx context.Context) (map[string]any, error)
}

// Service triggers refreshes. Failures are returned as is; there is no retry.
type Service struct {
	Trigger Trigger
}

// One refreshes the newspaper identified by rawID.
func (s *Service) One(ctx context.Context, rawID string) (map[string]any, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil || id <= 0 {
		return nil, ErrInvalidNewspaperID
	}
	data, err := s.Trigger.ProcessNewspaper(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("refresh newspaper %d: %w", id, err)
	}
	return data, nil
}

// All refreshes every newspaper.
func (s *Service) All(ctx context.Context) (map[string]any, error) {
	data, err := s.Trigger.ProcessAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh all newspapers: %w", err)
	}
	return data, nil
}
