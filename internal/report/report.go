package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"atscli/internal/config"
	"atscli/internal/infrastructure"
	"atscli/internal/table"
)

// Dataset names as shown in reports and logs
const (
	DocumentsName = "documents"
	MeasuresName  = "measures"
)

// DefaultHead is the number of preview rows printed per dataset
const DefaultHead = 5

// TableLoader loads one file into a table
type TableLoader interface {
	Load(ctx context.Context, path string) (*table.Table, error)
}

// Datasets holds the two tables for the rest of the run
type Datasets struct {
	Documents *table.Table
	Measures  *table.Table
}

// Named returns the datasets in load order
func (d *Datasets) Named() []NamedTable {
	return []NamedTable{
		{Name: DocumentsName, Table: d.Documents},
		{Name: MeasuresName, Table: d.Measures},
	}
}

// NamedTable pairs a table with its dataset name
type NamedTable struct {
	Name  string
	Table *table.Table
}

// Load reads the documents table and then the measures table. The first
// failure is returned with no datasets.
func Load(ctx context.Context, paths *config.Paths, loader TableLoader, logger *slog.Logger) (*Datasets, error) {
	logger = infrastructure.WithComponent(logger, "report")

	documents, err := loader.Load(ctx, paths.DocumentsCSV)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", DocumentsName, err)
	}

	measures, err := loader.Load(ctx, paths.MeasuresCSV)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", MeasuresName, err)
	}

	logger.InfoContext(ctx, "Datasets loaded",
		slog.Int("documents_rows", documents.NumRows()),
		slog.Int("measures_rows", measures.NumRows()))

	return &Datasets{Documents: documents, Measures: measures}, nil
}

// Describe writes the shape, column types and first head rows of each dataset
func (d *Datasets) Describe(w io.Writer, head int) error {
	for i, nt := range d.Named() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := describeTable(w, nt.Name, nt.Table, head); err != nil {
			return err
		}
	}
	return nil
}

func describeTable(w io.Writer, name string, t *table.Table, head int) error {
	rows, cols := t.Shape()
	if _, err := fmt.Fprintf(w, "%s: %d rows x %d columns\n", name, rows, cols); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  column\ttype")
	for _, col := range t.Columns() {
		fmt.Fprintf(tw, "  %s\t%s\n", col.Name, col.Type)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	preview := t.Head(head)
	if preview.NumRows() == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\n", strings.Join(preview.ColumnNames(), "\t"))
	for r := range preview.NumRows() {
		row, err := preview.Row(r)
		if err != nil {
			return err
		}
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		fmt.Fprintf(tw, "  %s\n", strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func formatCell(v any) string {
	if v == nil {
		return "<null>"
	}
	s := table.FormatValue(v)
	// keep multi-line text on one preview line
	return strings.NewReplacer("\n", `\n`, "\t", `\t`).Replace(s)
}
