// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-fetcher/internal/httputil"
	"github.com/pdiddy/pubmed-fetcher/internal/observability"
	"github.com/pdiddy/pubmed-fetcher/internal/pipeline"
	"github.com/pdiddy/pubmed-fetcher/internal/pubmed"
	"github.com/pdiddy/pubmed-fetcher/internal/report"
	"github.com/pdiddy/pubmed-fetcher/internal/secrets"
	"github.com/pdiddy/pubmed-fetcher/pkg/types"
)

const noPapersMessage = "No papers found with pharmaceutical/biotech company authors."

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get-papers-list QUERY",
		Short: "Fetch PubMed papers with pharmaceutical/biotech company authors",
		Long: `get-papers-list searches PubMed for QUERY, fetches the matching articles,
and lists those with at least one author affiliated with a pharmaceutical or
biotech company. QUERY supports the full PubMed query syntax.

Results are written as CSV to standard output unless --file is given.`,
		Example: `  get-papers-list "cancer treatment"
  get-papers-list "COVID-19 AND vaccine" -f results.csv
  get-papers-list "diabetes" --debug --max-results 50`,
		Args:         cobra.ExactArgs(1),
		Version:      version,
		SilenceUsage: true,
		RunE:         runFetch,
	}

	f := cmd.Flags()
	f.BoolP("debug", "d", false, "print debug information during execution")
	f.StringP("file", "f", "", "write results to this file instead of standard output")
	f.Int("max-results", types.DefaultMaxResults, "maximum number of results to fetch")
	f.String("format", string(report.FormatCSV), "output format: csv, json, yaml, or sqlite (sqlite requires --file)")
	f.String("config", "", "config file (default: ./get-papers-list.yaml or ~/.config/get-papers-list/get-papers-list.yaml)")
	f.String("metrics-file", "", "write Prometheus metrics in text format to this file")

	return cmd
}

func runFetch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(args[0])
	if query == "" {
		return fmt.Errorf("query must not be empty")
	}

	debug, _ := cmd.Flags().GetBool("debug")
	outputFile, _ := cmd.Flags().GetString("file")
	cfgFile, _ := cmd.Flags().GetString("config")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")
	formatName, _ := cmd.Flags().GetString("format")

	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if format == report.FormatSQLite && outputFile == "" {
		return fmt.Errorf("--format sqlite requires --file")
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	logCfg := observability.DefaultLoggingConfig()
	logCfg.Writer = stderr
	if debug {
		logCfg.Level = "debug"
	}
	logger := observability.WithRunContext(observability.NewLogger(logCfg), uuid.NewString(), query)

	cfg, err := loadConfig(cmd, cfgFile, logger)
	if err != nil {
		return err
	}

	if debug {
		fmt.Fprintf(stderr, "Fetching papers for query: %s\n", query)
		fmt.Fprintf(stderr, "Maximum results: %d\n", cfg.MaxResults)
	}

	metrics := observability.NewMetrics("pubmed_fetcher")
	session := httputil.NewSession(cfg.HTTPConfig, nil)
	searcher := pubmed.NewSearchClient(cfg, session, pubmed.WithLogger(logger), pubmed.WithMetrics(metrics))
	fetcher := pubmed.NewDetailClient(cfg, session, pubmed.WithLogger(logger), pubmed.WithMetrics(metrics))
	pipe := pipeline.New(searcher, fetcher, pipeline.WithLogger(logger), pipeline.WithMetrics(metrics))

	out, fetchErr := pipe.Fetch(cmd.Context(), query, cfg.MaxResults)
	if metricsFile != "" {
		if err := metrics.WriteTextfile(metricsFile); err != nil {
			logger.Warn().Err(err).Str("path", metricsFile).Msg("could not write metrics file")
		}
	}
	if fetchErr != nil {
		return fetchErr
	}

	if len(out.Papers) == 0 {
		fmt.Fprintln(stdout, noPapersMessage)
		return nil
	}
	if debug {
		fmt.Fprintf(stderr, "Found %d papers with pharmaceutical/biotech authors\n", len(out.Papers))
	}

	return writeResults(cmd, stdout, format, outputFile, out.Papers)
}

// loadConfig layers defaults, the config file, .env, PUBMED_FETCHER_*
// variables, the --max-results flag, and .secrets/ into a validated config.
func loadConfig(cmd *cobra.Command, cfgFile string, logger zerolog.Logger) (types.FetchConfig, error) {
	if err := secrets.LoadDotEnv(); err != nil {
		return types.FetchConfig{}, err
	}

	v := newViper(cfgFile)
	if err := v.BindPFlag("max_results", cmd.Flags().Lookup("max-results")); err != nil {
		return types.FetchConfig{}, err
	}
	if err := readConfigFile(v, cfgFile != ""); err != nil {
		return types.FetchConfig{}, err
	}
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug().Str("path", used).Msg("Using config file")
	}

	s, err := secrets.Load(secrets.DefaultDir, logger)
	if err != nil {
		return types.FetchConfig{}, err
	}
	return loadFetchConfig(v, s)
}

func writeResults(cmd *cobra.Command, stdout io.Writer, format report.Format, path string, papers []types.Paper) error {
	if path == "" {
		return report.Write(stdout, format, papers)
	}

	if format == report.FormatSQLite {
		if err := report.ExportSQLite(cmd.Context(), path, papers); err != nil {
			return err
		}
	} else if err := writeFile(path, format, papers); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Results saved to %s\n", path)
	return nil
}

func writeFile(path string, format report.Format, papers []types.Paper) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := report.Write(f, format, papers); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
