package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsfeed-hub/internal/infra/scraper"
)

var errNoDB = errors.New("no database in tests")

func failingOpener(called *bool, gotTable *string) dbOpener {
	return func(_ context.Context, table string) (*sql.DB, error) {
		*called = true
		*gotTable = table
		return nil, errNoDB
	}
}

func run(t *testing.T, open dbOpener, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd(openDB)
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"up", "down", "status", "version", "seed", "diagnose"} {
		assert.Contains(t, names, want)
	}
}

func TestMigrationCommands_UseTableFlag(t *testing.T) {
	t.Setenv("MIGRATIONS_TABLE", "")
	var called bool
	var table string

	_, err := run(t, failingOpener(&called, &table), "status", "--table", "schema_versions")
	require.ErrorIs(t, err, errNoDB)
	assert.True(t, called)
	assert.Equal(t, "schema_versions", table)
}

func TestMigrationCommands_DefaultTableFromEnv(t *testing.T) {
	t.Setenv("MIGRATIONS_TABLE", "newsfeed_versions")
	var called bool
	var table string

	_, err := run(t, failingOpener(&called, &table), "up")
	require.ErrorIs(t, err, errNoDB)
	assert.Equal(t, "newsfeed_versions", table)
}

func TestSeedCmd_RequiresFile(t *testing.T) {
	t.Setenv("FEEDS_SEED_FILE", "")
	var called bool
	var table string

	_, err := run(t, failingOpener(&called, &table), "seed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no seed file")
	assert.False(t, called)
}

func TestSeedCmd_InvalidFileFailsBeforeOpeningDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("countries:\n  - name: Deutschland\n"), 0o600))
	var called bool
	var table string

	_, err := run(t, failingOpener(&called, &table), "seed", "--file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "short is required")
	assert.False(t, called)
}

func TestSeedCmd_ValidFileOpensDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.yaml")
	doc := "countries:\n  - name: Deutschland\n    full_name: Bundesrepublik Deutschland\n    short: DE\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	var called bool
	var table string

	_, err := run(t, failingOpener(&called, &table), "seed", "-f", path)
	require.ErrorIs(t, err, errNoDB)
	assert.True(t, called)
}

func TestWriteDiagnosisTable(t *testing.T) {
	var out bytes.Buffer
	err := writeDiagnosisTable(&out, []scraper.Diagnosis{
		{Name: "Tagesschau", URL: "https://www.tagesschau.de/xml/rss2", Status: scraper.StatusOK, ItemCount: 40},
		{Name: "Alt", URL: "http://alt.example/rss", Status: scraper.StatusRedirect, ItemCount: 3, RedirectURL: "https://alt.example/rss"},
		{Name: "Kaputt", URL: "https://kaputt.example/rss", Status: scraper.StatusHTTPError, ErrorMessage: "404 Not Found"},
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "-> https://alt.example/rss")
	assert.Contains(t, text, "404 Not Found")
	assert.Contains(t, text, "2 of 3 feeds working")
}
