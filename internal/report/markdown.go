package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/shareholders/internal/model"
)

// MarkdownWriter outputs records in GitHub Flavored Markdown.
// The document has a run summary, a per-company breakdown and the full
// record table.
type MarkdownWriter struct {
	baseWriter
	meta Metadata
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, meta Metadata) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		meta:       meta,
	}
}

// Write outputs the records in Markdown format.
func (w *MarkdownWriter) Write(records []model.OwnershipRecord) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, records)
	w.writeCompanies(md, records)
	w.writeRecords(md, records)

	if err := md.Build(); err != nil {
		return w.output.n, err
	}
	return w.output.n, nil
}

// writeHeader writes the title and the run summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, records []model.OwnershipRecord) {
	md.H1("Shareholder Report")
	md.PlainText("")

	generated := w.meta.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	rows := [][]string{
		{"Generated", generated.Format("2006-01-02 15:04:05 MST")},
		{"Companies with data", strconv.Itoa(len(companyCounts(records)))},
		{"Records", strconv.Itoa(len(records))},
	}
	if w.meta.Country != "" {
		rows = append(rows, []string{"Country", w.meta.Country})
	}
	if w.meta.Profile != "" {
		rows = append(rows, []string{"Profile", w.meta.Profile})
	}
	if w.meta.RunID != "" {
		rows = append(rows, []string{"Run ID", "`" + w.meta.RunID + "`"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if missing := missingAges(records); missing > 0 {
		md.Note(fmt.Sprintf("%d record(s) have no birth year, so their age is left empty.", missing))
		md.PlainText("")
	}
}

// writeCompanies writes the number of owners per company and a pie chart.
func (w *MarkdownWriter) writeCompanies(md *markdown.Markdown, records []model.OwnershipRecord) {
	md.H2("Companies")
	md.PlainText("")

	counts := companyCounts(records)
	rows := make([][]string, 0, len(counts))
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Owners per company"),
		piechart.WithShowData(true),
	)
	for _, c := range counts {
		rows = append(rows, []string{c.id, c.name, strconv.Itoa(c.owners)})
		chart.LabelAndIntValue(c.name, uint64(c.owners)) //nolint:gosec // owners is never negative
	}

	md.Table(markdown.TableSet{
		Header: []string{"Org number", "Company", "Owners"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(counts) > 1 {
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}
}

// writeRecords writes every record as one table row.
func (w *MarkdownWriter) writeRecords(md *markdown.Markdown, records []model.OwnershipRecord) {
	md.H2("Shareholders")
	md.PlainText("")

	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = r.Strings()
	}

	md.Table(markdown.TableSet{
		Header: model.Header(),
		Rows:   rows,
	})
}

type companyCount struct {
	id     string
	name   string
	owners int
}

// companyCounts returns the owner count per company in first-seen order.
func companyCounts(records []model.OwnershipRecord) []companyCount {
	index := make(map[string]int)
	var counts []companyCount
	for _, r := range records {
		i, ok := index[r.CompanyID]
		if !ok {
			i = len(counts)
			index[r.CompanyID] = i
			counts = append(counts, companyCount{id: r.CompanyID, name: r.CompanyName})
		}
		counts[i].owners++
	}
	return counts
}

func missingAges(records []model.OwnershipRecord) int {
	n := 0
	for _, r := range records {
		if r.Age == nil {
			n++
		}
	}
	return n
}
