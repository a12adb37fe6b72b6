package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"statkit/domain/stats"
	"statkit/internal/dataset"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Render writes one result in the requested format
func Render(w io.Writer, r *stats.Result, format string) error {
	if r == nil {
		return fmt.Errorf("no result to render")
	}
	switch format {
	case FormatJSON:
		return writeJSON(w, r)
	case FormatYAML:
		return writeYAML(w, r)
	case FormatTable, "":
		return renderTable(w, r)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// RenderSummary writes a dataset summary in the requested format
func RenderSummary(w io.Writer, s dataset.Summary, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, s)
	case FormatYAML:
		return writeYAML(w, s)
	case FormatTable, "":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	tbl := newTable()
	tbl.SetTitle("Dataset: " + s.Name)
	tbl.AppendRows([]table.Row{
		{"Count", s.Count},
		{"Mean", number(s.Mean)},
		{"Median", number(s.Median)},
		{"Std. deviation", number(s.StdDev)},
		{"Min", number(s.Min)},
		{"Max", number(s.Max)},
	})
	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	return tbl
}

func renderTable(w io.Writer, r *stats.Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s ===\n", r.TestName)
	fmt.Fprintf(&b, "H0: %s\nH1: %s\n", r.Hypotheses.Null, r.Hypotheses.Alternative)

	if r.Failed() {
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		writeWarnings(w, r.Warnings)
		_, err := color.New(color.FgYellow).Fprintf(w, "Undefined: %s\n", r.Error)
		return err
	}

	b.WriteString(summaryTable(r).Render())
	b.WriteString("\n")

	if title, detail := detailOf(r); detail != nil {
		rows, err := detailRows(detail)
		if err != nil {
			return err
		}
		tbl := newTable()
		tbl.SetTitle(title)
		tbl.AppendRows(rows)
		b.WriteString(tbl.Render())
		b.WriteString("\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	writeWarnings(w, r.Warnings)

	c := color.New(color.FgGreen)
	if r.Decision == stats.DecisionReject {
		c = color.New(color.FgRed, color.Bold)
	}
	_, err := c.Fprintln(w, r.Interpretation)
	return err
}

func summaryTable(r *stats.Result) table.Writer {
	tbl := newTable()
	name := r.StatisticName
	if name == "" {
		name = "Statistic"
	}
	if r.Statistic != nil {
		tbl.AppendRow(table.Row{name, number(*r.Statistic)})
	} else {
		tbl.AppendRow(table.Row{name, "unbounded"})
	}
	if r.DegreesOfFreedom != nil {
		tbl.AppendRow(table.Row{"Degrees of freedom", number(*r.DegreesOfFreedom)})
	}
	if r.PValue != nil {
		tbl.AppendRow(table.Row{"p-value", pValue(*r.PValue)})
	}
	if r.EffectSize != nil {
		label := r.EffectSizeName
		if label == "" {
			label = "Effect size"
		}
		tbl.AppendRow(table.Row{label, number(*r.EffectSize)})
	}
	if ci := r.ConfidenceInterval; ci != nil {
		tbl.AppendRow(table.Row{
			fmt.Sprintf("%g%% CI", ci.Level*100),
			fmt.Sprintf("[%s, %s]", number(ci.Lower), number(ci.Upper)),
		})
	}
	tbl.AppendRow(table.Row{"α", fmt.Sprintf("%g", r.Alpha)})
	return tbl
}

func writeWarnings(w io.Writer, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	warn := color.New(color.FgYellow)
	for _, msg := range warnings {
		warn.Fprintf(w, "warning: %s\n", msg)
	}
}

// detailOf returns the family detail block that is set, if any
func detailOf(r *stats.Result) (string, any) {
	switch {
	case r.TTest != nil:
		return "t-test details", r.TTest
	case r.Levene != nil:
		return "Levene details", r.Levene
	case r.FTest != nil:
		return "F-test details", r.FTest
	case r.ANOVA != nil:
		return "ANOVA details", r.ANOVA
	case r.SignedRank != nil:
		return "Signed-rank details", r.SignedRank
	case r.MannWhitney != nil:
		return "Mann-Whitney details", r.MannWhitney
	case r.KruskalWallis != nil:
		return "Kruskal-Wallis details", r.KruskalWallis
	case r.GoodnessOfFit != nil:
		return "Goodness-of-fit details", r.GoodnessOfFit
	case r.Association != nil:
		return "Association details", r.Association
	case r.Spearman != nil:
		return "Spearman details", r.Spearman
	case r.Determination != nil:
		return "Determination details", r.Determination
	case r.Regression != nil:
		return "Regression details", r.Regression
	}
	return "", nil
}

// detailRows flattens a detail struct into key/value rows. The YAML node
// tree keeps struct field order and drops omitted fields.
func detailRows(detail any) ([]table.Row, error) {
	var node yaml.Node
	if err := node.Encode(detail); err != nil {
		return nil, err
	}
	m := &node
	if m.Kind == yaml.DocumentNode && len(m.Content) == 1 {
		m = m.Content[0]
	}
	if m.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("detail block is not a mapping")
	}

	rows := make([]table.Row, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		rows = append(rows, table.Row{label(m.Content[i].Value), flatten(m.Content[i+1])})
	}
	return rows, nil
}

func flatten(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() == "!!float" {
			var f float64
			if err := n.Decode(&f); err == nil {
				return number(f)
			}
		}
		return n.Value
	case yaml.SequenceNode:
		parts := make([]string, len(n.Content))
		for i, c := range n.Content {
			parts[i] = flatten(c)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case yaml.MappingNode:
		parts := make([]string, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			parts = append(parts, n.Content[i].Value+"="+flatten(n.Content[i+1]))
		}
		return "{" + strings.Join(parts, " ") + "}"
	}
	return n.Value
}

// label turns snake_case keys into "Snake case"
func label(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func number(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

func pValue(p float64) string {
	if p < 1e-4 {
		return "< 0.0001"
	}
	return fmt.Sprintf("%.4f", p)
}
