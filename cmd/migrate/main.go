// Command migrate manages the database schema and imports seed data.
//
//	migrate up | down | status | version
//	migrate seed --file seeds.yaml
//	migrate diagnose [--json]
package main

import (
	"log/slog"
	"os"

	"newsfeed-hub/internal/observability/logging"
	"newsfeed-hub/pkg/config"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", slog.Any("error", err))
		os.Exit(1)
	}
	slog.SetDefault(logging.NewLogger())

	if err := newRootCmd(openDB).Execute(); err != nil {
		os.Exit(1)
	}
}
