package stateful

// Dtype is the semantic type of a stream's values.
type Dtype int

const (
	// DtypeUnknown marks a stream whose dtype has not yet been inferred.
	DtypeUnknown Dtype = iota
	DtypeBoolean
	DtypeInteger
	DtypeFloating
	DtypeString
	DtypeObject
)

func (d Dtype) String() string {
	switch d {
	case DtypeBoolean:
		return "boolean"
	case DtypeInteger:
		return "integer"
	case DtypeFloating:
		return "floating"
	case DtypeString:
		return "string"
	case DtypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// widenRank orders dtypes boolean < integer < floating < string < object,
// per the widening rule composite expressions use to pick a result dtype.
func widenRank(d Dtype) int {
	switch d {
	case DtypeBoolean:
		return 0
	case DtypeInteger:
		return 1
	case DtypeFloating:
		return 2
	case DtypeString:
		return 3
	case DtypeObject:
		return 4
	default:
		return -1
	}
}

// WidenDtype returns the wider of two dtypes under boolean < integer < floating
// < string < object. It is symmetric: WidenDtype(a, b) == WidenDtype(b, a).
func WidenDtype(a, b Dtype) Dtype {
	if a == DtypeUnknown {
		return b
	}
	if b == DtypeUnknown {
		return a
	}
	if widenRank(a) >= widenRank(b) {
		return a
	}
	return b
}

// inferDtype guesses a dtype from a sample Go value, matching the cast targets
// this store supports: int, bool, float64, string, and everything else as object.
func inferDtype(sample interface{}) Dtype {
	switch sample.(type) {
	case int, int32, int64:
		return DtypeInteger
	case bool:
		return DtypeBoolean
	case float32, float64:
		return DtypeFloating
	case string:
		return DtypeString
	default:
		return DtypeObject
	}
}

// Interpolation is the rule for returning a value at an unrecorded timestamp.
type Interpolation int

const (
	// InterpFloor returns the value at the predecessor timestamp (default).
	InterpFloor Interpolation = iota
	// InterpCeil returns the value at the successor timestamp.
	InterpCeil
	// InterpLinear returns a numerically interpolated value between the two
	// bracketing points, or the exact stored point on a hit.
	InterpLinear
)

func (i Interpolation) String() string {
	switch i {
	case InterpCeil:
		return "ceil"
	case InterpLinear:
		return "linear"
	default:
		return "floor"
	}
}

// DuplicatePolicy is the rule for resolving an insert that collides with an
// existing timestamp.
type DuplicatePolicy int

const (
	// DupIncrement retries the insert at timestamp+1s, recursively (default).
	DupIncrement DuplicatePolicy = iota
	// DupErase overwrites the existing value.
	DupErase
	// DupKeep preserves a list of values recorded at that timestamp.
	DupKeep
)

func (p DuplicatePolicy) String() string {
	switch p {
	case DupErase:
		return "erase"
	case DupKeep:
		return "keep"
	default:
		return "increment"
	}
}

// StreamConfig configures one stream: its declared dtype (DtypeUnknown to
// infer from the first append), its interpolation policy, and its duplicate
// resolution policy. This is the shape spec.md §6 pins for the configuration
// mapping passed to State's constructor.
type StreamConfig struct {
	Dtype       Dtype
	Interpolation Interpolation
	OnDuplicate DuplicatePolicy
}

// Configuration maps a stream name to its StreamConfig.
type Configuration map[string]StreamConfig

func (c Configuration) lookup(name string) StreamConfig {
	if c == nil {
		return StreamConfig{}
	}
	return c[name]
}

// GetOption configures a query (Space.Get, Space.All).
type GetOption func(*getConfig)

type getConfig struct {
	cast bool
}

func newGetConfig() *getConfig {
	return &getConfig{cast: true}
}

// WithoutCast disables the final per-key dtype cast on a Get/All call.
func WithoutCast() GetOption {
	return func(c *getConfig) { c.cast = false }
}

// IncludeOption configures State.Include bulk tabular ingestion.
type IncludeOption func(*includeConfig)

type includeConfig struct {
	primaryColumn string
	timeColumn    string
	renameColumns map[string]string
	selectColumns []string
	event         map[string]interface{}
	dropNA        bool
	fillNA        interface{}
}

func newIncludeConfig(primaryKey, timeKey string) *includeConfig {
	return &includeConfig{
		primaryColumn: primaryKey,
		timeColumn:    timeKey,
	}
}

// WithPrimaryColumn overrides the column read as the primary-key value.
func WithPrimaryColumn(name string) IncludeOption {
	return func(c *includeConfig) { c.primaryColumn = name }
}

// WithTimeColumn overrides the column read as the event timestamp.
func WithTimeColumn(name string) IncludeOption {
	return func(c *includeConfig) { c.timeColumn = name }
}

// WithRename renames source columns to target stream names before ingestion.
func WithRename(mapping map[string]string) IncludeOption {
	return func(c *includeConfig) { c.renameColumns = mapping }
}

// WithColumns restricts ingestion to the named columns (plus primary/time).
func WithColumns(names []string) IncludeOption {
	return func(c *includeConfig) { c.selectColumns = names }
}

// WithEvent merges a shared set of extra fields into every ingested row.
func WithEvent(event map[string]interface{}) IncludeOption {
	return func(c *includeConfig) { c.event = event }
}

// WithDropNA drops rows whose time column is null instead of filling them.
func WithDropNA() IncludeOption {
	return func(c *includeConfig) { c.dropNA = true }
}

// WithFillNA supplies a fallback time value for rows with a null time column.
func WithFillNA(value interface{}) IncludeOption {
	return func(c *includeConfig) { c.fillNA = value }
}
