package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/neurostack/prepreport/internal/api"
	"github.com/neurostack/prepreport/internal/batch"
	"github.com/neurostack/prepreport/internal/config"
	"github.com/neurostack/prepreport/internal/confounds"
	"github.com/neurostack/prepreport/internal/export"
	"github.com/neurostack/prepreport/internal/flatten"
	"github.com/neurostack/prepreport/internal/report"
)

var version = "0.2.0"

// parseFlags are shared by every command that runs the parser.
type parseFlags struct {
	patterns    string
	engine      string
	ensureASCII bool
	full        bool
}

func (f *parseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.patterns, "patterns", "j", "", "JSON file with pattern overrides")
	cmd.Flags().StringVarP(&f.engine, "engine", "f", string(flatten.EngineTree), "HTML flattening engine (tree|tokenizer)")
	cmd.Flags().BoolVar(&f.ensureASCII, "ensure-ascii", true, "transliterate non-ASCII text before parsing")
	cmd.Flags().BoolVar(&f.full, "full", false, "keep per-session confounds text in the output")
}

func (f *parseFlags) options() (report.Options, error) {
	engine, err := flatten.ParseEngine(f.engine)
	if err != nil {
		return report.Options{}, err
	}
	return report.Options{
		PatternFile: f.patterns,
		Engine:      engine,
		EnsureASCII: f.ensureASCII,
		Full:        f.full,
	}, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:     "prepreport",
		Short:   "Inspect fMRIPrep HTML reports",
		Long:    "prepreport turns fMRIPrep HTML reports into normalized records,\nBIDS session identifiers, and confound summaries.",
		Version: version,
	}

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(sessionsCmd())
	rootCmd.AddCommand(confoundsCmd())
	rootCmd.AddCommand(functionalCmd())
	rootCmd.AddCommand(methodsCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseCmd() *cobra.Command {
	var flags parseFlags
	var output string
	cmd := &cobra.Command{
		Use:   "parse <report>",
		Short: "Parse a report into its JSON record structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			rep, err := report.ParseFile(args[0], opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write JSON to a file instead of stdout")
	return cmd
}

func sessionsCmd() *cobra.Command {
	var flags parseFlags
	cmd := &cobra.Command{
		Use:   "sessions <report>",
		Short: "Print the BIDS session identifiers found in a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			rep, err := report.ParseFile(args[0], opts)
			if err != nil {
				return err
			}
			for _, id := range rep.SessionIDs() {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func confoundsCmd() *cobra.Command {
	var flags parseFlags
	var columns []string
	cmd := &cobra.Command{
		Use:   "confounds <report>",
		Short: "Summarize each session's confound time series",
		Long:  "Parses the report, locates each session's confounds table in the\nsurrounding BIDS dataset, and prints descriptive statistics for the\ncarpet-plot columns (or the ones given with --columns).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			rep, err := report.ParseFile(args[0], opts)
			if err != nil {
				return err
			}
			stats, err := confounds.Summaries(args[0], rep.SessionIDs(), columns)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "confound columns to summarize")
	return cmd
}

func functionalCmd() *cobra.Command {
	var flags parseFlags
	cmd := &cobra.Command{
		Use:   "functional <report>",
		Short: "Print the functional section as a CSV table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			rep, err := report.ParseFile(args[0], opts)
			if err != nil {
				return err
			}
			columns, rows := rep.FuncTable()
			w := csv.NewWriter(cmd.OutOrStdout())
			if err := w.Write(columns); err != nil {
				return err
			}
			for _, row := range rows {
				if err := w.Write(row); err != nil {
					return err
				}
			}
			w.Flush()
			return w.Error()
		},
	}
	flags.register(cmd)
	return cmd
}

func methodsCmd() *cobra.Command {
	var flags parseFlags
	var output string
	cmd := &cobra.Command{
		Use:   "methods <report>",
		Short: "Render the report's methods boilerplate as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			rep, err := report.ParseFile(args[0], opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return export.MethodsHTML(rep.Methods, out)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write HTML to a file instead of stdout")
	return cmd
}

func batchCmd() *cobra.Command {
	var flags parseFlags
	var workers int
	cmd := &cobra.Command{
		Use:   "batch <dataset-dir>",
		Short: "Parse every report under a BIDS dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
			results, err := batch.Run(cmd.Context(), args[0], workers, opts, log)
			if err != nil {
				return err
			}
			failed := 0
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, res := range results {
				if res.Err != nil {
					failed++
					continue
				}
				if err := enc.Encode(res.Report); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d reports failed to parse", failed, len(results))
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent parses")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP parse service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			srv := api.NewServer(log, cfg)
			httpServer := &http.Server{
				Addr:         ":" + cfg.Port,
				Handler:      srv,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 60 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh
				log.Info("shutting down...")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				httpServer.Shutdown(shutdownCtx)
			}()

			log.Info("starting prepreport", "port", cfg.Port)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
}
