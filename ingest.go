package stateful

import "cloud.google.com/go/civil"

// Include is the bulk tabular ingestion helper spec.md §1 calls out as an
// out-of-scope-but-caller collaborator: it builds one event per row and
// forwards each to State.Add, reaching State only through its public API.
func (s *State) Include(rows []map[string]interface{}, opts ...IncludeOption) error {
	cfg := newIncludeConfig(s.PrimaryKey, s.TimeKey)
	for _, opt := range opts {
		opt(cfg)
	}
	for _, row := range rows {
		event, skip, err := buildRowEvent(s.PrimaryKey, s.TimeKey, row, cfg)
		if err != nil {
			return err
		}
		if skip {
			continue
		}
		if err := s.Add(event); err != nil {
			return err
		}
	}
	return nil
}

// IncludeCSV ingests a header + row-major string grid, matching the shape
// spec.md §6's "Tabular ingress format" describes.
func (s *State) IncludeCSV(header []string, rows [][]string, opts ...IncludeOption) error {
	tabular := make([]map[string]interface{}, len(rows))
	for i, raw := range rows {
		m := make(map[string]interface{}, len(header))
		for j, name := range header {
			if j < len(raw) {
				m[name] = raw[j]
			}
		}
		tabular[i] = m
	}
	return s.Include(tabular, opts...)
}

func buildRowEvent(primaryKey, timeKey string, row map[string]interface{}, cfg *includeConfig) (map[string]interface{}, bool, error) {
	event := make(map[string]interface{})

	keys := cfg.selectColumns
	if len(keys) == 0 {
		keys = make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
	}
	for _, k := range keys {
		v, ok := row[k]
		if !ok {
			continue
		}
		name := k
		if renamed, ok := cfg.renameColumns[k]; ok {
			name = renamed
		}
		event[name] = v
	}
	for k, v := range cfg.event {
		event[k] = v
	}

	primaryValue, ok := row[cfg.primaryColumn]
	if !ok {
		return nil, false, newError(InvalidEvent, cfg.primaryColumn, "row is missing the primary column")
	}
	event[primaryKey] = primaryValue

	rawTime, hasTime := row[cfg.timeColumn]
	if !hasTime || IsNA(rawTime) {
		if cfg.dropNA {
			return nil, true, nil
		}
		if cfg.fillNA != nil {
			rawTime = cfg.fillNA
		} else {
			return nil, false, newError(InvalidEvent, cfg.timeColumn, "row is missing the time column")
		}
	}

	t, err := normalizeTabularTime(rawTime)
	if err != nil {
		if cfg.dropNA {
			return nil, true, nil
		}
		return nil, false, err
	}
	event[timeKey] = t
	return event, false, nil
}

// normalizeTabularTime promotes a bare date (no time-of-day, no zone) to
// midnight UTC before falling through to the general-purpose parser,
// matching tada's Resampler.AsCivilDate handling of date/time-independent
// values.
func normalizeTabularTime(value interface{}) (interface{}, error) {
	if s, ok := value.(string); ok {
		if d, err := civil.ParseDate(s); err == nil {
			return d, nil
		}
	}
	return value, nil
}
