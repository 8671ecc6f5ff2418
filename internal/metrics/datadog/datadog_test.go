package datadog

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"

	"prodlens/internal/metrics"
)

type fakeSubmitter struct {
	mu       sync.Mutex
	payloads []datadogV2.MetricPayload
}

func (f *fakeSubmitter) SubmitMetrics(ctx context.Context, body datadogV2.MetricPayload, params ...datadogV2.SubmitMetricsOptionalParameters) (datadogV2.IntakePayloadAccepted, *http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, body)
	return datadogV2.IntakePayloadAccepted{}, nil, nil
}

func (f *fakeSubmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

func newTestBackend(t *testing.T, fake *fakeSubmitter) *Backend {
	t.Helper()
	b, err := NewBackend(context.Background(), Options{
		JobName:    "testjob",
		FlushEvery: time.Hour, // keep the ticker quiet during tests
		now:        func() time.Time { return time.Unix(1700000000, 0) },
		submitter:  fake,
	})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	return b
}

func seriesByMetric(p datadogV2.MetricPayload) map[string]datadogV2.MetricSeries {
	out := make(map[string]datadogV2.MetricSeries, len(p.Series))
	for _, s := range p.Series {
		out[s.Metric] = s
	}
	return out
}

func hasTag(s datadogV2.MetricSeries, tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func TestFlush_SubmitsBufferedSeries(t *testing.T) {
	fake := &fakeSubmitter{}
	b := newTestBackend(t, fake)
	defer func() { _ = b.Close() }()

	labels := metrics.Labels{"report": "price_points", "status": "ok"}
	b.IncCounter("report_runs_total", 1, labels)
	b.IncCounter("report_rows_total", 12, metrics.Labels{"report": "price_points"})
	b.ObserveHistogram("report_duration_seconds", 0.2, labels)
	b.ObserveHistogram("report_duration_seconds", 0.8, labels)

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if fake.count() != 1 {
		t.Fatalf("expected one submitted payload, got %d", fake.count())
	}

	byMetric := seriesByMetric(fake.payloads[0])

	runs, ok := byMetric["prodlens.report.runs.total"]
	if !ok {
		t.Fatal("runs.total series missing")
	}
	if *runs.Points[0].Value != 1 {
		t.Fatalf("runs.total value %v", *runs.Points[0].Value)
	}
	for _, tag := range []string{"job:testjob", "report:price_points", "status:ok"} {
		if !hasTag(runs, tag) {
			t.Fatalf("runs.total missing tag %q: %v", tag, runs.Tags)
		}
	}

	rows, ok := byMetric["prodlens.report.rows.total"]
	if !ok || *rows.Points[0].Value != 12 {
		t.Fatalf("rows.total wrong: %+v", rows)
	}

	maxSeries, ok := byMetric["prodlens.report.duration_seconds.max"]
	if !ok || *maxSeries.Points[0].Value != 0.8 {
		t.Fatalf("duration max wrong: %+v", maxSeries)
	}
	samples := byMetric["prodlens.report.duration_seconds.samples"]
	if *samples.Points[0].Value != 2 {
		t.Fatalf("duration samples wrong: %+v", samples)
	}
	if *samples.Points[0].Timestamp != 1700000000 {
		t.Fatalf("timestamp must come from the injected clock, got %d", *samples.Points[0].Timestamp)
	}
}

func TestFlush_EmptyBufferSubmitsNothing(t *testing.T) {
	fake := &fakeSubmitter{}
	b := newTestBackend(t, fake)
	defer func() { _ = b.Close() }()

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if fake.count() != 0 {
		t.Fatalf("empty flush must not submit, got %d payloads", fake.count())
	}
}

func TestFlush_ResetsBuffers(t *testing.T) {
	fake := &fakeSubmitter{}
	b := newTestBackend(t, fake)
	defer func() { _ = b.Close() }()

	b.IncCounter("report_runs_total", 1, metrics.Labels{"report": "r", "status": "ok"})
	if err := b.Flush(); err != nil {
		t.Fatalf("first Flush: %v", err)
	}
	if err := b.Flush(); err != nil {
		t.Fatalf("second Flush: %v", err)
	}
	if fake.count() != 1 {
		t.Fatalf("second flush must see empty buffers, got %d payloads", fake.count())
	}
}

func TestClose_StopsLoopAndFlushesTail(t *testing.T) {
	fake := &fakeSubmitter{}
	b := newTestBackend(t, fake)

	b.IncCounter("report_runs_total", 1, metrics.Labels{"report": "r", "status": "ok"})
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if fake.count() != 1 {
		t.Fatalf("Close must flush the tail, got %d payloads", fake.count())
	}

	select {
	case <-b.doneCh:
	default:
		t.Fatal("flush loop still running after Close")
	}
}

func TestPercentileNearestRank(t *testing.T) {
	s := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	cases := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{0.5, 6},
		{0.9, 9},
		{1, 10},
	}
	for _, c := range cases {
		if got := percentileNearestRank(s, c.p); got != c.want {
			t.Fatalf("p%v: got %v, want %v", c.p, got, c.want)
		}
	}
	if got := percentileNearestRank(nil, 0.5); got != 0 {
		t.Fatalf("empty input: got %v", got)
	}
}

func TestParseTagsCSV(t *testing.T) {
	got := ParseTagsCSV(" env:prod , service:reports ,, ")
	if len(got) != 2 || got[0] != "env:prod" || got[1] != "service:reports" {
		t.Fatalf("ParseTagsCSV: got %v", got)
	}
	if ParseTagsCSV("") != nil {
		t.Fatal("empty input must return nil")
	}
}
