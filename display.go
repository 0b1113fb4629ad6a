package stateful

import (
	"bytes"
	"fmt"

	"github.com/ptiger10/tablediff"
	"github.com/ptiger10/tablewriter"
)

// String renders the space's merged timeline as an ASCII table, one row
// per timestamp, columns in the controller's execution order (data streams
// in registration order, then derived streams).
// This is the "presentation-layer rendering" spec.md §1 names as an
// out-of-scope-but-caller collaborator: it reads the space only through
// Rows.
func (sp *Space) String() string {
	rows, err := sp.Rows()
	if err != nil {
		return fmt.Sprintf("<space %v: %v>", sp.PrimaryValue, err)
	}
	var header []string
	if len(rows) > 0 {
		header = append([]string{"date"}, rows[0].Keys()...)
	}
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetCaption(true, fmt.Sprintf("%s: %v", sp.PrimaryKey, sp.PrimaryValue))
	if header != nil {
		table.SetHeader(header)
	}
	for _, row := range rows {
		line := make([]string, 0, len(header))
		line = append(line, row.Date.Format("2006-01-02T15:04:05Z"))
		for _, key := range row.Keys() {
			line = append(line, fmt.Sprint(row.Get(key)))
		}
		table.Append(line)
	}
	table.Render()
	return buf.String()
}

// String renders the frame as an ASCII table, one row per date.
func (f *EventFrame) String() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	header := append([]string{"date"}, f.Columns()...)
	table.SetHeader(header)
	for i, date := range f.Dates {
		line := make([]string, 0, len(header))
		line = append(line, date.Format("2006-01-02T15:04:05Z"))
		for _, name := range f.Columns() {
			line = append(line, fmt.Sprint(f.columns[name].Events[i]))
		}
		table.Append(line)
	}
	table.Render()
	return buf.String()
}

// ToCSV renders the frame as a header row plus one row per date, in column
// registration order, for comparison against an expected grid.
func (f *EventFrame) ToCSV() [][]string {
	header := append([]string{"date"}, f.Columns()...)
	out := make([][]string, 0, len(f.Dates)+1)
	out = append(out, header)
	for i, date := range f.Dates {
		row := make([]string, 0, len(header))
		row = append(row, date.Format("2006-01-02T15:04:05Z"))
		for _, name := range f.Columns() {
			row = append(row, fmt.Sprint(f.columns[name].Events[i]))
		}
		out = append(out, row)
	}
	return out
}

// EqualsCSV compares the frame's rendering against an expected CSV grid,
// returning a diff that can be printed to isolate mismatches, mirroring
// tada's DataFrame.EqualsCSV.
func (f *EventFrame) EqualsCSV(csv [][]string) (bool, *tablediff.Differences) {
	diffs, eq := tablediff.Diff(f.ToCSV(), csv)
	return eq, diffs
}
