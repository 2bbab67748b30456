package export

// Table is one titled grid of a report.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Document groups the tables that make up one exported report.
type Document struct {
	Title  string
	Tables []Table
}

func (d Document) validate() error {
	if len(d.Tables) == 0 {
		return errEmptyDocument
	}
	for _, table := range d.Tables {
		if len(table.Headers) == 0 {
			return errMissingHeaders
		}
	}
	return nil
}

// cell returns the value at index i, or "" for short rows.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
