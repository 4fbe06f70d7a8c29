package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"datadash/app"
	"datadash/domain/core"
	"datadash/domain/dataset"
	"datadash/internal"
	"datadash/internal/config"
	"datadash/internal/container"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type cliOptions struct {
	output string
	out    io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &cliOptions{out: out}

	rootCmd := &cobra.Command{
		Use:           "datadash-cli",
		Short:         "Summaries, charts and questions for CSV and Excel datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			internal.SetDefaultLogger(internal.NewLoggerTo(os.Stderr, internal.ParseLogLevel(os.Getenv("LOG_LEVEL")), "console"))
		},
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "Output format: table or json")

	rootCmd.AddCommand(
		newSummaryCmd(opts),
		newClassifyCmd(opts),
		newCountsCmd(opts),
		newCorrCmd(opts),
		newPlotCmd(opts),
		newAskCmd(opts),
	)
	return rootCmd
}

// session is a fresh in-memory session holding one loaded file
type session struct {
	c        *container.Container
	id       core.SessionID
	overview *app.Overview
}

func openSession(ctx context.Context, path string) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	s := &session{c: c, id: core.NewSessionID()}
	if s.overview, err = c.Dashboard.Upload(ctx, s.id, filepath.Base(path), f); err != nil {
		return nil, err
	}
	return s, nil
}

func newSummaryCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary FILE",
		Short: "Print shape, columns and descriptive statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.output == "json" {
				return renderJSON(opts.out, s.overview.Summary)
			}
			renderSummary(opts.out, s.overview.Summary)
			return nil
		},
	}
}

func newClassifyCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify FILE",
		Short: "Partition columns into numeric and categorical",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.output == "json" {
				return renderJSON(opts.out, s.overview.Classification)
			}
			renderClassification(opts.out, s.overview.Classification)
			return nil
		},
	}
}

func newCountsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "counts FILE COLUMN",
		Short: "Print value counts of a categorical column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			counts, err := s.c.Dashboard.ValueCounts(cmd.Context(), s.id, args[1])
			if err != nil {
				return err
			}
			if opts.output == "json" {
				return renderJSON(opts.out, counts)
			}
			renderValueCounts(opts.out, counts)
			return nil
		},
	}
}

func newCorrCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "corr FILE",
		Short: "Print the Pearson correlation matrix of the numeric columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			view, err := s.c.Dashboard.Correlation(cmd.Context(), s.id)
			if err != nil {
				return err
			}
			if opts.output == "json" {
				return renderJSON(opts.out, view.Matrix)
			}
			renderCorrelation(opts.out, view.Matrix)
			return nil
		},
	}
}

func newPlotCmd(opts *cliOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "plot FILE X Y",
		Short: "Emit the ECharts option document of a chart",
		Long: `Render a chart of two numeric columns as an ECharts option document.

Example: datadash-cli plot people.csv age income --kind line`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fig, err := s.c.Dashboard.Plot(cmd.Context(), s.id, dataset.PlotRequest{
				X:    args[1],
				Y:    args[2],
				Kind: dataset.PlotKind(kind),
			})
			if err != nil {
				return err
			}
			return renderJSON(opts.out, fig)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(dataset.PlotScatter), "Plot kind: scatter, line or bar")
	return cmd
}

func newAskCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask FILE QUESTION",
		Short: "Ask a question about the first rows of a dataset",
		Long: `Ask a natural-language question answered by an OpenAI-compatible model.

Requires OPENAI_API_KEY; LLM_MODEL, LLM_BASE_URL and SAMPLE_ROWS are optional.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			answer, err := s.c.Dashboard.Ask(cmd.Context(), s.id, args[1])
			if err != nil {
				return err
			}
			if opts.output == "json" {
				return renderJSON(opts.out, answer)
			}
			_, err = fmt.Fprintln(opts.out, answer.Text)
			return err
		},
	}
}

func renderJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
