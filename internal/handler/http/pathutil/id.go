// Package pathutil parses ids from request paths and normalizes paths for metric labels.
package pathutil

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidID is returned for ids that are not positive integers.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses a positive decimal id. Signs, spaces and other characters are rejected.
func ParseID(raw string) (int64, error) {
	if raw == "" || raw[0] == '+' || raw[0] == '-' {
		return 0, ErrInvalidID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// ExtractID parses the id that follows prefix in path, e.g. "/api/articles/42".
func ExtractID(path, prefix string) (int64, error) {
	return ParseID(strings.TrimPrefix(path, prefix))
}
