// Package batch processes tabular files of subjects through the PhenoAge
// toolkit: one row per subject, biomarker columns resolved through the alias
// table, computed metrics appended as new columns. Rows are independent and
// run through a bounded worker pool; a row that fails gets its message in an
// error column instead of failing the file.
package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/phenoage-mcp-server/internal/domain"
	"github.com/phenoage-mcp-server/pkg/biomarker"
)

// Record is one row keyed by column name. Cells hold float64 for numeric
// values and string for everything else; an absent key is an empty cell.
type Record map[string]any

// Table is an ordered list of columns plus one record per row. Column order
// is preserved from the input file so passthrough columns (ids, dates, notes)
// come back out where they went in.
type Table struct {
	Columns []string
	Records []Record
}

// EnsureColumn appends the column if the table does not carry it yet.
func (t *Table) EnsureColumn(name string) {
	for _, c := range t.Columns {
		if c == name {
			return
		}
	}
	t.Columns = append(t.Columns, name)
}

// HasRecords reports whether the table contains at least one row.
func (t *Table) HasRecords() bool {
	return len(t.Records) > 0
}

// ReadFile reads a tabular subject file. The format follows the extension:
// .tsv/.txt/.tab are tab-delimited, .csv is comma-delimited, .xlsx is Excel,
// .json is an array of objects.
func ReadFile(path string) (*Table, error) {
	switch delimiterFor(path) {
	case delimTab:
		return readDelimited(path, '\t')
	case delimComma:
		return readDelimited(path, ',')
	case delimExcel:
		return readExcel(path)
	case delimJSON:
		return readJSON(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", filepath.Ext(path))
	}
}

// WriteFile writes the table in the format the output path's extension
// names, creating the parent directory when needed.
func WriteFile(path string, table *Table) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	switch delimiterFor(path) {
	case delimTab:
		return writeDelimited(path, table, '\t')
	case delimComma:
		return writeDelimited(path, table, ',')
	case delimExcel:
		return writeExcel(path, table)
	case delimJSON:
		return writeJSON(path, table)
	default:
		return fmt.Errorf("unsupported file format: %s", filepath.Ext(path))
	}
}

type delimiterKind int

const (
	delimUnknown delimiterKind = iota
	delimTab
	delimComma
	delimExcel
	delimJSON
)

func delimiterFor(path string) delimiterKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".txt", ".tab":
		return delimTab
	case ".csv":
		return delimComma
	case ".xlsx":
		return delimExcel
	case ".json":
		return delimJSON
	default:
		return delimUnknown
	}
}

// parseCell turns a textual cell into a typed value. Numeric cells become
// float64 so they survive a read/write round trip unquoted; everything else
// stays a string. Empty cells report false.
func parseCell(raw string) (any, bool) {
	cell := strings.TrimSpace(raw)
	if cell == "" {
		return nil, false
	}
	if v, err := strconv.ParseFloat(cell, 64); err == nil {
		return v, true
	}
	return cell, true
}

// formatCell renders a typed cell back to text for delimited and Excel
// output.
func formatCell(v any) string {
	switch cell := v.(type) {
	case float64:
		return strconv.FormatFloat(cell, 'g', -1, 64)
	case string:
		return cell
	default:
		return fmt.Sprintf("%v", cell)
	}
}

func rowsToTable(rows [][]string, path string) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("file %s is empty", path)
	}

	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	table := &Table{Columns: make([]string, len(header))}
	for i, name := range header {
		table.Columns[i] = strings.TrimSpace(name)
	}

	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		for i, cell := range row {
			if i >= len(table.Columns) {
				break
			}
			if v, ok := parseCell(cell); ok {
				rec[table.Columns[i]] = v
			}
		}
		table.Records = append(table.Records, rec)
	}

	if !table.HasRecords() {
		return nil, fmt.Errorf("file %s has a header but no data rows", path)
	}
	return table, nil
}

func readDelimited(path string, comma rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = comma
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rowsToTable(rows, path)
}

func writeDelimited(path string, table *Table, comma rune) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	writer.Comma = comma
	if err := writer.Write(table.Columns); err != nil {
		return err
	}
	row := make([]string, len(table.Columns))
	for _, rec := range table.Records {
		for i, col := range table.Columns {
			if v, ok := rec[col]; ok {
				row[i] = formatCell(v)
			} else {
				row[i] = ""
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func readExcel(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rowsToTable(rows, path)
}

func writeExcel(path string, table *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]any, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	row := make([]any, len(table.Columns))
	for i, rec := range table.Records {
		for j, col := range table.Columns {
			if v, ok := rec[col]; ok {
				row[j] = v
			} else {
				row[j] = nil
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

// readJSON reads an array of objects. JSON objects carry no column order, so
// canonical biomarker keys come first and the remaining keys follow
// alphabetically.
func readJSON(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("file %s is empty", path)
	}

	resolvedKeys := make(map[domain.Biomarker][]string)
	seen := make(map[string]bool)
	var extras []string
	table := &Table{}
	for _, obj := range raw {
		rec := make(Record, len(obj))
		for key, value := range obj {
			if value == nil {
				continue
			}
			rec[key] = value
			if seen[key] {
				continue
			}
			seen[key] = true
			if b, known := biomarker.Resolve(key); known {
				resolvedKeys[b] = append(resolvedKeys[b], key)
			} else {
				extras = append(extras, key)
			}
		}
		table.Records = append(table.Records, rec)
	}

	for _, b := range domain.BiomarkerOrder {
		keys := resolvedKeys[b]
		sort.Strings(keys)
		table.Columns = append(table.Columns, keys...)
	}
	sort.Strings(extras)
	table.Columns = append(table.Columns, extras...)
	return table, nil
}

func writeJSON(path string, table *Table) error {
	var buf strings.Builder
	buf.WriteString("[\n")
	for i, rec := range table.Records {
		if i > 0 {
			buf.WriteString(",\n")
		}
		buf.WriteString("  {")
		first := true
		for _, col := range table.Columns {
			v, ok := rec[col]
			if !ok {
				continue
			}
			key, err := json.Marshal(col)
			if err != nil {
				return err
			}
			value, err := json.Marshal(v)
			if err != nil {
				return err
			}
			if !first {
				buf.WriteString(", ")
			}
			first = false
			buf.Write(key)
			buf.WriteString(": ")
			buf.Write(value)
		}
		buf.WriteString("}")
	}
	buf.WriteString("\n]\n")
	return os.WriteFile(path, []byte(buf.String()), 0644)
}
