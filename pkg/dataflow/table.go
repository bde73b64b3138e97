package dataflow

import "strings"

// Table is the data-driven classification table mapping callee and
// attribute shapes to frame facts. New conventions are added here, not
// in the engine. Anything absent from the table classifies as Unknown.
type Table struct {
	// ReadFuncs are callees that load a frame from a data source.
	ReadFuncs map[string]bool
	// ConstructFuncs are callees that build a frame from records.
	ConstructFuncs map[string]bool
	// MergeFuncs are merge/join callees.
	MergeFuncs map[string]bool
	// MergeRequiredKwargs are the keyword arguments every merge call must
	// spell out: join type, join key, and cardinality validation.
	MergeRequiredKwargs []string
	// InplaceCapable are frame methods that accept an in-place option and
	// support a non-mutating mode.
	InplaceCapable map[string]bool
	// ReservedAttrs are frame methods and properties that legitimately
	// appear as attribute access.
	ReservedAttrs map[string]bool
	// RowAccessors are the explicit row-indexing attributes.
	RowAccessors map[string]bool
	// SentinelNames are spellings of the missing-value sentinel:
	// identifier and attribute names (NA, nan) as well as literal forms
	// (None, or a project's -999). A literal listed here is never
	// reported as a filler.
	SentinelNames map[string]bool
	// FillerLiterals are literal defaults that should be sentinels when
	// initializing a new column.
	FillerLiterals map[string]bool
	// FrameParamNames are parameter names classified as frames.
	FrameParamNames map[string]bool
	// FrameParamPrefixes and FrameParamSuffixes extend the name match.
	FrameParamPrefixes []string
	FrameParamSuffixes []string
}

// DefaultTable returns the built-in pandas-style conventions.
func DefaultTable() *Table {
	return &Table{
		ReadFuncs: set(
			"read_csv", "read_parquet", "read_json", "read_sql",
			"read_sql_query", "read_sql_table", "read_excel", "read_table",
			"read_feather", "read_pickle", "read_source",
		),
		ConstructFuncs:      set("DataFrame", "from_records", "from_dict", "concat"),
		MergeFuncs:          set("merge", "join", "merge_asof", "merge_ordered"),
		MergeRequiredKwargs: []string{"how", "on", "validate"},
		InplaceCapable: set(
			"drop", "dropna", "drop_duplicates", "fillna", "rename",
			"replace", "reset_index", "set_index", "sort_index",
			"sort_values", "interpolate", "clip",
		),
		ReservedAttrs: set(
			"loc", "iloc", "at", "iat", "columns", "index", "dtypes",
			"shape", "values", "empty", "size", "str", "dt", "T",
			"merge", "join", "drop", "dropna", "drop_duplicates", "fillna",
			"rename", "replace", "reset_index", "set_index", "sort_index",
			"sort_values", "interpolate", "clip", "groupby", "agg",
			"aggregate", "apply", "assign", "pipe", "query", "head",
			"tail", "copy", "astype", "isna", "notna", "sum", "mean",
			"count", "min", "max", "describe", "iterrows", "itertuples",
			"to_csv", "to_parquet", "to_json", "to_dict", "to_records",
		),
		RowAccessors:       set("loc", "iloc", "at", "iat"),
		SentinelNames:      set("NA", "nan", "NaN", "NAN", "NaT", "None", "MISSING"),
		FillerLiterals:     set("0", "0.0", `""`, "''"),
		FrameParamNames:    set("df", "frame", "data", "dataframe", "table"),
		FrameParamPrefixes: []string{"df_"},
		FrameParamSuffixes: []string{"_df", "_frame"},
	}
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// IsFrameParam reports whether a parameter name classifies as a frame.
func (t *Table) IsFrameParam(name string) bool {
	if t.FrameParamNames[name] {
		return true
	}
	for _, p := range t.FrameParamPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	for _, s := range t.FrameParamSuffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// IsSentinel reports whether name denotes the missing-value sentinel.
func (t *Table) IsSentinel(name string) bool {
	return t.SentinelNames[name]
}
