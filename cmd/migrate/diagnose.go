package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	pgRepo "newsfeed-hub/internal/infra/adapter/persistence/postgres"
	"newsfeed-hub/internal/infra/scraper"
)

func newDiagnoseCmd(open dbOpener, table *string) *cobra.Command {
	var (
		asJSON   bool
		parallel int
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Check every newspaper RSS feed once and report broken ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			database, err := open(cmd.Context(), *table)
			if err != nil {
				return err
			}
			defer database.Close()

			newspapers, err := pgRepo.NewNewspaperRepo(database).ListWithFeed(cmd.Context())
			if err != nil {
				return fmt.Errorf("list newspapers with feed: %w", err)
			}

			client := &http.Client{Timeout: timeout}
			results := make([]scraper.Diagnosis, len(newspapers))
			eg, ctx := errgroup.WithContext(cmd.Context())
			eg.SetLimit(max(parallel, 1))
			for i, n := range newspapers {
				eg.Go(func() error {
					results[i] = scraper.Diagnose(ctx, client, n.Name, n.RSS)
					return nil
				})
			}
			_ = eg.Wait()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			return writeDiagnosisTable(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().IntVar(&parallel, "parallel", 4, "feeds checked at once")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-feed request timeout")
	return cmd
}

func writeDiagnosisTable(w io.Writer, results []scraper.Diagnosis) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tITEMS\tLATEST\tMS\tNAME\tURL\tDETAIL")
	working := 0
	for _, d := range results {
		if d.Working() {
			working++
		}
		detail := d.ErrorMessage
		if d.RedirectURL != "" {
			detail = "-> " + d.RedirectURL
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%s\t%s\t%s\n",
			d.Status, d.ItemCount, d.Latest, d.ResponseMS, d.Name, d.URL, detail)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d of %d feeds working\n", working, len(results))
	return err
}

