package export

import "fmt"

// Table is the tabular content shared by every exporter.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Exporter renders a table into a file format.
type Exporter interface {
	Render(table Table) ([]byte, error)
	Extension() string
	ContentType() string
}

// ForFormat returns the exporter registered for the format name ("csv" or "pdf").
func ForFormat(format string) (Exporter, error) {
	switch format {
	case "csv":
		return NewCSVExporter(), nil
	case "pdf":
		return NewPDFExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func validate(table Table) error {
	if len(table.Headers) == 0 {
		return fmt.Errorf("table requires at least one header")
	}
	for i, row := range table.Rows {
		if len(row) != len(table.Headers) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(table.Headers))
		}
	}
	return nil
}
