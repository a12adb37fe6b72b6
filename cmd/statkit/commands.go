package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"statkit/adapters/excel"
	"statkit/adapters/stats/engine"
	"statkit/adapters/stats/parametric"
	"statkit/domain/stats"
	"statkit/internal/dataset"
	"statkit/internal/errors"
	"statkit/internal/report"
	"statkit/internal/validation"
)

type runFlags struct {
	samples  []string
	groups   []string
	columns  []string
	file     string
	table    string
	expected string
	mu       float64
	median   float64
	variance string
	alpha    float64
	null     string
	alt      string
}

func newRunCmd(a *app) *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run <test>",
		Short: "Run one hypothesis test",
		Long: `Run one hypothesis test and print its result.

Samples are comma-separated numbers; repeat --sample for two-sample tests
(x then y for correlation). Columns from a CSV/XLSX file are appended
after the --sample values.

Examples:
  statkit run one_sample_t --sample 12,14,11,15,13 --mu 10
  statkit run independent_t --sample 1,2,3,4 --sample 6,7,8,9 --variance welch
  statkit run one_way_anova --group 1,2,3 --group 4,5,6 --group 7,8,9
  statkit run chi_square_association --table "10,20;30,40"
  statkit run linear_regression --file data.csv --column x --column y

Run "statkit tests" for the list of test names.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request(a, stats.TestKind(args[0]))
			if err != nil {
				return err
			}
			eng := engine.NewStatsEngine(a.logger, a.cfg.StatsOptions())
			result, err := eng.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			return report.Render(cmd.OutOrStdout(), result, a.cfg.Format)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&f.samples, "sample", nil, "Comma-separated sample (repeatable)")
	flags.StringArrayVar(&f.groups, "group", nil, "Comma-separated group for k-sample tests (repeatable)")
	flags.StringArrayVar(&f.columns, "column", nil, "Column of --file to use as a sample (repeatable)")
	flags.StringVar(&f.file, "file", "", "CSV or XLSX data file (default: data_file from config)")
	flags.StringVar(&f.table, "table", "", `Contingency table, rows separated by ';' e.g. "10,20;30,40"`)
	flags.StringVar(&f.expected, "expected", "", "Expected frequencies for goodness of fit (default: equal)")
	flags.Float64Var(&f.mu, "mu", 0, "Hypothesized mean (one_sample_t)")
	flags.Float64Var(&f.median, "median", 0, "Hypothesized median (wilcoxon_one_sample)")
	flags.StringVar(&f.variance, "variance", string(parametric.VarianceAuto), "Variance model for independent_t: auto, pooled or welch")
	flags.Float64Var(&f.alpha, "alpha", 0, "Significance level (default: alpha from config)")
	flags.StringVar(&f.null, "null", "", "Null hypothesis statement")
	flags.StringVar(&f.alt, "alt", "", "Alternative hypothesis statement")

	return cmd
}

func (f *runFlags) request(a *app, kind stats.TestKind) (engine.Request, error) {
	req := engine.Request{
		Kind:   kind,
		Mu:     f.mu,
		Median: f.median,
		Options: stats.Options{
			Alpha:      f.alpha,
			Hypotheses: stats.Hypotheses{Null: f.null, Alternative: f.alt},
		},
	}

	model, err := parametric.ParseVarianceModel(f.variance)
	if err != nil {
		return req, err
	}
	req.VarianceModel = model

	for i, text := range f.samples {
		values, err := dataset.ParseCommaSeparated(text)
		if err != nil {
			return req, errors.Wrapf(err, "sample %d", i+1)
		}
		req.Samples = append(req.Samples, values)
	}

	if len(f.columns) > 0 {
		path := f.file
		if path == "" {
			path = a.cfg.DataFile
		}
		if path == "" {
			return req, errors.InvalidInput("--column needs --file or data_file in the config")
		}
		data, err := excel.NewDataReader(path).WithLogger(a.logger).ReadData()
		if err != nil {
			return req, err
		}
		for _, name := range f.columns {
			values, err := data.NumericColumn(name)
			if err != nil {
				return req, err
			}
			req.Samples = append(req.Samples, values)
		}
	}

	for i, text := range f.groups {
		values, err := dataset.ParseCommaSeparated(text)
		if err != nil {
			return req, errors.Wrapf(err, "group %d", i+1)
		}
		req.Groups = append(req.Groups, values)
	}

	if f.table != "" {
		tab, msg := validation.ParseContingencyTable(f.table)
		if msg != "" {
			return req, errors.InvalidInput(msg)
		}
		req.Table = tab
	}

	if f.expected != "" {
		expected, err := dataset.ParseCommaSeparated(f.expected)
		if err != nil {
			return req, errors.Wrap(err, "expected frequencies")
		}
		req.Expected = expected
	}
	return req, nil
}

func newTestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tests",
		Short: "List the available tests",
		// no config needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl := table.NewWriter()
			tbl.SetStyle(table.StyleLight)
			tbl.AppendHeader(table.Row{"Name", "Test"})
			for _, kind := range stats.AllKinds() {
				tbl.AppendRow(table.Row{string(kind), engine.Title(kind)})
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())
			return err
		},
	}
}

func newDescribeCmd(a *app) *cobra.Command {
	var (
		samples []string
		file    string
	)

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Summarize datasets",
		Long: `Print count, mean, median, standard deviation, min and max.

Samples are given as name=values ("before=1,2,3") or bare values, which
are named sample1, sample2, ... Every numeric column of --file is added
as a dataset named after its header.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := dataset.NewStore()
			for i, s := range samples {
				name, text := fmt.Sprintf("sample%d", i+1), s
				if before, after, ok := strings.Cut(s, "="); ok {
					name, text = strings.TrimSpace(before), after
				}
				if err := store.AddText(name, text); err != nil {
					return err
				}
			}

			if file == "" && len(samples) == 0 {
				file = a.cfg.DataFile
			}
			if file != "" {
				if _, err := excel.NewDataReader(file).WithLogger(a.logger).LoadInto(store); err != nil {
					return err
				}
			}

			if store.Len() == 0 {
				return errors.InvalidInput("nothing to describe: give --sample or --file")
			}
			for _, name := range store.List() {
				sum, err := store.Summary(name)
				if err != nil {
					return err
				}
				if err := report.RenderSummary(cmd.OutOrStdout(), sum, a.cfg.Format); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&samples, "sample", nil, "Sample as name=values or values (repeatable)")
	cmd.Flags().StringVar(&file, "file", "", "CSV or XLSX file whose numeric columns are described")
	return cmd
}
