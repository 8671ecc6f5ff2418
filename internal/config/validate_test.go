package config

import "testing"

func validJob() Job {
	src := Source{Path: "data/in.csv", Format: "csv"}
	return Job{
		Name: "nightly",
		Sources: Sources{
			Info:    src,
			Finance: src,
			Reviews: src,
			Traffic: src,
			Brand:   src,
		},
		Sink: Sink{Kind: "sqlite", DSN: "file:reports.db"},
	}
}

func countSeverity(issues []Issue, s Severity) int {
	var n int
	for _, i := range issues {
		if i.Severity == s {
			n++
		}
	}
	return n
}

func TestValidateJob_CleanJob(t *testing.T) {
	issues := ValidateJob(validJob())
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestValidateJob_MissingSourcePath(t *testing.T) {
	j := validJob()
	j.Sources.Traffic.Path = ""

	issues := ValidateJob(j)
	if countSeverity(issues, SeverityError) != 1 {
		t.Fatalf("expected one error, got %v", issues)
	}
	if issues[0].Path != "sources.traffic.path" {
		t.Fatalf("unexpected issue path %q", issues[0].Path)
	}
}

func TestValidateJob_UnknownFormatAndSink(t *testing.T) {
	j := validJob()
	j.Sources.Info.Format = "xml"
	j.Sink.Kind = "oracle"

	issues := ValidateJob(j)
	if countSeverity(issues, SeverityError) != 2 {
		t.Fatalf("expected two errors, got %v", issues)
	}
}

func TestValidateJob_SinkDSNRules(t *testing.T) {
	j := validJob()
	j.Sink.DSN = ""
	if countSeverity(ValidateJob(j), SeverityError) != 1 {
		t.Fatal("kind without dsn must be an error")
	}

	j = validJob()
	j.Sink.Kind = ""
	issues := ValidateJob(j)
	if countSeverity(issues, SeverityError) != 0 || countSeverity(issues, SeverityWarning) != 1 {
		t.Fatalf("dsn without kind must only warn, got %v", issues)
	}
}

func TestValidateJob_EmptyNameWarns(t *testing.T) {
	j := validJob()
	j.Name = ""
	issues := ValidateJob(j)
	if countSeverity(issues, SeverityWarning) != 1 {
		t.Fatalf("expected a warning for the empty name, got %v", issues)
	}
}
