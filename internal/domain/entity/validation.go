package entity

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxURLLength defines the maximum allowed length for URLs to prevent DoS attacks.
const maxURLLength = 2048

// minNameLength is shared by every name-like field of the domain.
const minNameLength = 3

var shortCodePattern = regexp.MustCompile(`^[A-Za-z]{2,3}$`)

// ValidateCountry checks a country before it is written.
func ValidateCountry(c *Country) error {
	if err := validateMinLength("name", c.Name, "Name"); err != nil {
		return err
	}
	if err := validateMinLength("full_name", c.FullName, "Vollständiger Name"); err != nil {
		return err
	}
	if !shortCodePattern.MatchString(c.Short) {
		return &ValidationError{
			Field:   "short",
			Message: "Kürzel muss aus 2 bis 3 Buchstaben bestehen",
		}
	}
	return nil
}

// ValidateNewspaper checks a newspaper before it is written.
// The site URL is optional, the RSS URL is not.
func ValidateNewspaper(n *Newspaper) error {
	if err := validateMinLength("name", n.Name, "Name"); err != nil {
		return err
	}
	if strings.TrimSpace(n.URL) != "" {
		if err := validateURLField("url", n.URL); err != nil {
			return err
		}
	}
	if strings.TrimSpace(n.RSS) == "" {
		return &ValidationError{Field: "rss", Message: "RSS-URL ist erforderlich"}
	}
	if err := validateURLField("rss", n.RSS); err != nil {
		return err
	}
	if n.CountryID <= 0 {
		return &ValidationError{Field: "country", Message: "Land ist erforderlich"}
	}
	return nil
}

// ValidateNewspaperList checks a list before it is written.
func ValidateNewspaperList(l *NewspaperList) error {
	if err := validateMinLength("name", l.Name, "Name"); err != nil {
		return err
	}
	if len(l.NewspaperIDs) == 0 {
		return &ValidationError{
			Field:   "newspapers",
			Message: "Mindestens eine Zeitung muss ausgewählt werden",
		}
	}
	for _, id := range l.NewspaperIDs {
		if id <= 0 {
			return &ValidationError{
				Field:   "newspapers",
				Message: fmt.Sprintf("ungültige Zeitungs-ID %d", id),
			}
		}
	}
	return nil
}

// NormalizeFilter trims filter entries and drops blanks and duplicates.
// The first occurrence wins, so the user's ordering is preserved.
func NormalizeFilter(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func validateMinLength(field, value, label string) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < minNameLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s muss mindestens %d Zeichen lang sein", label, minNameLength),
		}
	}
	return nil
}

func validateURLField(field, rawURL string) error {
	// DoS protection: enforce maximum URL length
	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("URL darf höchstens %d Zeichen lang sein", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return &ValidationError{Field: field, Message: "ungültige URL"}
	}

	// HTTPまたはHTTPSスキームのみ許可
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: field, Message: "URL muss mit http oder https beginnen"}
	}

	// ホスト名の検証
	if parsedURL.Hostname() == "" {
		return &ValidationError{Field: field, Message: "URL muss einen gültigen Host enthalten"}
	}
	return nil
}
