package report

import (
	"fmt"
	"strings"

	"fieldbook/domain/schema"
	"fieldbook/domain/stats"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Builder renders per-schema statistics reports. The markdown form is the
// source of truth; HTML is derived from it.
type Builder struct{}

// NewBuilder creates a report builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Markdown renders a statistics report for one schema. Numeric fields
// appear in schema declaration order; fields with no usable values are
// listed separately so their omission from the summary table reads as
// "no data" rather than zeros.
func (b *Builder) Markdown(s *schema.Schema, summaries map[string]stats.Summary, recordCount int) string {
	var md strings.Builder

	fmt.Fprintf(&md, "# %s\n\n", s.Name)
	fmt.Fprintf(&md, "%d record(s), %d field(s).\n\n", recordCount, len(s.Fields))

	numeric := s.NumericFields()
	if len(numeric) == 0 {
		md.WriteString("_No numeric fields in this schema._\n")
		return md.String()
	}

	var missing []string
	rows := 0

	md.WriteString("| Field | Count | Mean | Median | Min | Max | Variance | Std Dev |\n")
	md.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, f := range numeric {
		summary, ok := summaries[f.Name]
		if !ok {
			missing = append(missing, f.Name)
			continue
		}
		fmt.Fprintf(&md, "| %s | %d | %s | %s | %s | %s | %s | %s |\n",
			f.Name, summary.Count,
			formatFloat(summary.Mean), formatFloat(summary.Median),
			formatFloat(summary.Min), formatFloat(summary.Max),
			formatFloat(summary.Variance), formatFloat(summary.StandardDeviation))
		rows++
	}

	if rows == 0 {
		// Rewrite without the empty table.
		md.Reset()
		fmt.Fprintf(&md, "# %s\n\n", s.Name)
		fmt.Fprintf(&md, "%d record(s), %d field(s).\n\n", recordCount, len(s.Fields))
		md.WriteString("_No numeric data available._\n")
		return md.String()
	}

	if len(missing) > 0 {
		fmt.Fprintf(&md, "\nNo numeric data available for: %s.\n", strings.Join(missing, ", "))
	}

	return md.String()
}

// HTML renders the markdown report to HTML
func (b *Builder) HTML(s *schema.Schema, summaries map[string]stats.Summary, recordCount int) []byte {
	md := b.Markdown(s, summaries, recordCount)

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})

	return markdown.ToHTML([]byte(md), p, renderer)
}

func formatFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}
