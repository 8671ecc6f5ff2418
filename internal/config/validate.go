package config

import "fmt"

// Severity classifies a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single validation finding with a JSON-path-ish location.
type Issue struct {
	Severity Severity
	Path     string
	Message  string
}

// ValidateJob checks a decoded Job for problems before any file is opened.
//
// Errors block execution; warnings are advisory. The caller decides how to
// surface them.
func ValidateJob(j Job) []Issue {
	var issues []Issue

	errf := func(path, format string, args ...any) {
		issues = append(issues, Issue{Severity: SeverityError, Path: path, Message: fmt.Sprintf(format, args...)})
	}
	warnf := func(path, format string, args ...any) {
		issues = append(issues, Issue{Severity: SeverityWarning, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if j.Name == "" {
		warnf("name", "job name is empty; metrics will be tagged job:prodlens")
	}

	type namedSource struct {
		path string
		src  Source
	}
	sources := []namedSource{
		{"sources.info", j.Sources.Info},
		{"sources.finance", j.Sources.Finance},
		{"sources.reviews", j.Sources.Reviews},
		{"sources.traffic", j.Sources.Traffic},
		{"sources.brand", j.Sources.Brand},
	}
	for _, ns := range sources {
		if ns.src.Path == "" {
			errf(ns.path+".path", "source path is required")
		}
		switch ns.src.Format {
		case "", "csv", "html":
		default:
			errf(ns.path+".format", "unknown format %q (want csv or html)", ns.src.Format)
		}
	}

	switch j.Sink.Kind {
	case "", "sqlite", "postgres", "mssql":
	default:
		errf("sink.kind", "unknown sink kind %q", j.Sink.Kind)
	}
	if j.Sink.Kind != "" && j.Sink.DSN == "" {
		errf("sink.dsn", "dsn is required when sink.kind is set")
	}
	if j.Sink.Kind == "" && j.Sink.DSN != "" {
		warnf("sink.kind", "dsn set but sink.kind empty; results will not be persisted")
	}

	return issues
}
