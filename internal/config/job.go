package config

// Job is the top-level report job document, decoded from JSON.
//
// It names the five input tables, how to parse them, where to publish the
// result tables, and runtime toggles. The report definitions themselves are
// fixed in code; the job only wires sources to sinks.
type Job struct {
	Name    string  `json:"name"`
	Sources Sources `json:"sources"`
	Sink    Sink    `json:"sink"`
	Runtime Runtime `json:"runtime"`
}

// Sources lists one Source per input table.
type Sources struct {
	Info    Source `json:"info"`
	Finance Source `json:"finance"`
	Reviews Source `json:"reviews"`
	Traffic Source `json:"traffic"`
	Brand   Source `json:"brand"`
}

// Source describes a single table input.
//
// Format selects the parser: "csv" (default) or "html" for an HTML-table
// export. Options are parser-specific (delimiter, header_map, encoding, ...).
type Source struct {
	Path    string  `json:"path"`
	Format  string  `json:"format"`
	Options Options `json:"options"`
}

// Sink selects the optional report sink backend.
//
// Kind is a registered storage backend ("sqlite", "postgres", "mssql") or
// empty to skip persistence. DSN supports ${ENV} expansion at the call site.
type Sink struct {
	Kind string `json:"kind"`
	DSN  string `json:"dsn"`
}

// Runtime controls report execution behavior.
type Runtime struct {
	// Parallel evaluates the reports concurrently. Reports are independent
	// and read-only, so this changes wall-clock time only, never results.
	Parallel bool `json:"parallel"`
}
