// Package seed imports countries and their newspapers from a YAML file.
// Existing countries are matched by short code and existing newspapers by RSS URL,
// so importing the same file twice creates nothing the second time.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"newsfeed-hub/internal/repository"
	"newsfeed-hub/internal/usecase/country"
	"newsfeed-hub/internal/usecase/newspaper"
)

// Owner is the author recorded on seeded rows.
const Owner = "seed"

// File is the decoded seed document.
type File struct {
	Countries []Country `yaml:"countries"`
}

// Country is one seeded country with its newspapers.
type Country struct {
	Name       string      `yaml:"name"`
	FullName   string      `yaml:"full_name"`
	Short      string      `yaml:"short"`
	Forum      string      `yaml:"forum"`
	Newspapers []Newspaper `yaml:"newspapers"`
}

// Newspaper is one seeded newspaper.
type Newspaper struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	RSS         string `yaml:"rss"`
	Description string `yaml:"description"`
}

// Report counts what an import did.
type Report struct {
	CountriesCreated   int
	CountriesExisting  int
	NewspapersCreated  int
	NewspapersExisting int
}

// Parse decodes a seed document. Unknown keys are rejected.
// Every country needs a short code and every newspaper an RSS URL, since those are the match keys.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	for i, c := range f.Countries {
		if strings.TrimSpace(c.Short) == "" {
			return nil, fmt.Errorf("countries[%d]: short is required", i)
		}
		for j, n := range c.Newspapers {
			if strings.TrimSpace(n.RSS) == "" {
				return nil, fmt.Errorf("countries[%d].newspapers[%d]: rss is required", i, j)
			}
		}
	}
	return &f, nil
}

// Importer writes a File through the country and newspaper use cases.
type Importer struct {
	Countries  repository.CountryRepository
	Newspapers repository.NewspaperRepository
}

// Import creates the missing countries and newspapers of f.
// It stops at the first invalid entry; rows created before it are kept.
func (imp *Importer) Import(ctx context.Context, f *File) (*Report, error) {
	countrySvc := &country.Service{Repo: imp.Countries}
	newspaperSvc := &newspaper.Service{Repo: imp.Newspapers}
	rep := &Report{}

	for _, c := range f.Countries {
		short := strings.TrimSpace(c.Short)
		existing, err := imp.Countries.FindByShort(ctx, short)
		if err != nil {
			return rep, fmt.Errorf("find country %q: %w", short, err)
		}

		var countryID int64
		if existing != nil {
			countryID = existing.ID
			rep.CountriesExisting++
		} else {
			countryID, err = countrySvc.Create(ctx, country.CreateInput{
				Name:     c.Name,
				FullName: c.FullName,
				Short:    short,
				Forum:    c.Forum,
				Author:   Owner,
			})
			if err != nil {
				return rep, fmt.Errorf("country %q: %w", short, err)
			}
			rep.CountriesCreated++
		}

		for _, n := range c.Newspapers {
			rss := strings.TrimSpace(n.RSS)
			found, err := imp.Newspapers.FindByRSS(ctx, rss)
			if err != nil {
				return rep, fmt.Errorf("find newspaper %q: %w", rss, err)
			}
			if found != nil {
				rep.NewspapersExisting++
				continue
			}
			_, err = newspaperSvc.Create(ctx, newspaper.CreateInput{
				Name:        n.Name,
				URL:         n.URL,
				RSS:         rss,
				CountryID:   countryID,
				Description: n.Description,
				Author:      Owner,
			})
			if err != nil {
				return rep, fmt.Errorf("newspaper %q: %w", rss, err)
			}
			rep.NewspapersCreated++
		}
	}
	return rep, nil
}
