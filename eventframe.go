package stateful

import "time"

// EventFrame is the row-major, multi-column counterpart to Event: a shared
// date index with one EventColumn per stream name.
type EventFrame struct {
	Dates       []time.Time
	columnNames []string
	columns     map[string]*EventColumn
}

// NewEventFrame constructs an empty EventFrame over the given date index.
func NewEventFrame(dates []time.Time) *EventFrame {
	return &EventFrame{Dates: dates, columns: make(map[string]*EventColumn)}
}

// Len returns the number of rows (shared dates) in the frame.
func (f *EventFrame) Len() int { return len(f.Dates) }

// Columns returns the column names in the order they were added.
func (f *EventFrame) Columns() []string {
	out := make([]string, len(f.columnNames))
	copy(out, f.columnNames)
	return out
}

// Column returns the named column, or nil if absent.
func (f *EventFrame) Column(name string) *EventColumn { return f.columns[name] }

// EmptyColumn returns a column of NA values aligned to the frame's dates,
// used to fill a column absent from one side of a concatenation.
func (f *EventFrame) EmptyColumn(name string) *EventColumn {
	events := make([]interface{}, len(f.Dates))
	for i := range events {
		events[i] = NA
	}
	return &EventColumn{Name: name, Dates: f.Dates, Events: events}
}

// AddColumn installs col, which must share the frame's exact date index.
func (f *EventFrame) AddColumn(col *EventColumn) error {
	if !sameDates(f.Dates, col.Dates) {
		return newError(TypeMismatch, col.Name, "column date index does not match frame date index")
	}
	if _, exists := f.columns[col.Name]; !exists {
		f.columnNames = append(f.columnNames, col.Name)
	}
	f.columns[col.Name] = col
	return nil
}

// Project returns a narrower frame containing only the named columns, in
// the order requested, sharing the same date index.
func (f *EventFrame) Project(names []string) *EventFrame {
	out := NewEventFrame(f.Dates)
	for _, name := range names {
		if col, ok := f.columns[name]; ok {
			out.AddColumn(col)
		}
	}
	return out
}

// Row returns the Event at row i.
func (f *EventFrame) Row(i int) *Event {
	event := NewEvent(f.Dates[i])
	for _, name := range f.columnNames {
		event.Set(name, f.columns[name].Events[i])
	}
	return event
}

// Rows returns every row as a sequence of per-date Events, in date order.
func (f *EventFrame) Rows() []*Event {
	out := make([]*Event, len(f.Dates))
	for i := range f.Dates {
		out[i] = f.Row(i)
	}
	return out
}

// Concat concatenates two frames along the date axis, unioning their
// column sets and filling any column absent on one side with NA for the
// rows contributed by the other side.
func (f *EventFrame) Concat(other *EventFrame) *EventFrame {
	dates := make([]time.Time, 0, len(f.Dates)+len(other.Dates))
	dates = append(dates, f.Dates...)
	dates = append(dates, other.Dates...)

	names := make([]string, 0, len(f.columnNames))
	seen := make(map[string]bool)
	for _, n := range f.columnNames {
		names = append(names, n)
		seen[n] = true
	}
	for _, n := range other.columnNames {
		if !seen[n] {
			names = append(names, n)
			seen[n] = true
		}
	}

	out := NewEventFrame(dates)
	for _, name := range names {
		events := make([]interface{}, 0, len(dates))
		if col, ok := f.columns[name]; ok {
			events = append(events, col.Events...)
		} else {
			for range f.Dates {
				events = append(events, NA)
			}
		}
		if col, ok := other.columns[name]; ok {
			events = append(events, col.Events...)
		} else {
			for range other.Dates {
				events = append(events, NA)
			}
		}
		out.AddColumn(&EventColumn{Name: name, Dates: dates, Events: events})
	}
	return out
}
