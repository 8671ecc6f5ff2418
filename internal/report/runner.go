package report

import (
	"context"
	"log"
	"sync"
	"time"

	"prodlens/internal/dataset"
	"prodlens/internal/metrics"
)

// Logger is the minimal logging interface used by the runner.
// *log.Logger satisfies this interface.
type Logger interface {
	Printf(format string, v ...any)
}

// Fn is one report as a pure function of the dataset.
type Fn func(*dataset.Dataset) (Result, error)

// Outcome is one report's terminal state: a result or an error, never both.
type Outcome struct {
	Name   string
	Result Result
	Err    error
}

// All lists every report in presentation order.
func All() []struct {
	Name string
	Run  Fn
} {
	return []struct {
		Name string
		Run  Fn
	}{
		{"completeness", Completeness},
		{"price_points", PricePoints},
		{"revenue_by_price_band", RevenueByPriceBand},
		{"average_discount_by_brand", AverageDiscountByBrand},
		{"reviews_revenue_correlation", ReviewsRevenueCorrelation},
		{"description_length_rating", DescriptionLengthRating},
		{"monthly_review_volume", MonthlyReviewVolume},
		{"footwear_vs_clothing", FootwearVsClothing},
	}
}

// Runner evaluates all reports with per-report failure isolation: one
// report's error never prevents the others from completing.
type Runner struct {
	Logger Logger

	// Parallel evaluates reports concurrently. The dataset is immutable and
	// reports are independent, so this is safe and changes only wall-clock
	// time; sequential execution is the reference behavior.
	Parallel bool
}

func (r *Runner) logger() func(format string, v ...any) {
	if r.Logger == nil {
		l := log.New(discardWriter{}, "", 0)
		return l.Printf
	}
	return r.Logger.Printf
}

// RunAll executes every report against the dataset and returns one Outcome
// per report in presentation order. Context cancellation stops scheduling of
// further reports; already-started reports run to completion (each is a
// finite in-memory computation).
func (r *Runner) RunAll(ctx context.Context, ds *dataset.Dataset) []Outcome {
	reports := All()
	outcomes := make([]Outcome, len(reports))

	runOne := func(i int) {
		outcomes[i] = r.runOne(reports[i].Name, reports[i].Run, ds)
	}

	if r.Parallel {
		var wg sync.WaitGroup
		for i := range reports {
			if ctx.Err() != nil {
				outcomes[i] = Outcome{Name: reports[i].Name, Err: ctx.Err()}
				continue
			}
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				runOne(i)
			}(i)
		}
		wg.Wait()
		return outcomes
	}

	for i := range reports {
		if ctx.Err() != nil {
			outcomes[i] = Outcome{Name: reports[i].Name, Err: ctx.Err()}
			continue
		}
		runOne(i)
	}
	return outcomes
}

func (r *Runner) runOne(name string, fn Fn, ds *dataset.Dataset) Outcome {
	logf := r.logger()

	start := time.Now()
	res, err := fn(ds)
	dur := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
	}
	labels := metrics.Labels{"report": name, "status": status}
	metrics.IncCounter("report_runs_total", 1, labels)
	metrics.ObserveHistogram("report_duration_seconds", dur.Seconds(), labels)

	if err != nil {
		logf("report=%s status=error duration=%s err=%v", name, dur.Truncate(time.Millisecond), err)
		return Outcome{Name: name, Err: err}
	}

	metrics.IncCounter("report_rows_total", float64(len(res.Rows)), metrics.Labels{"report": name})
	logf("report=%s status=ok duration=%s rows=%d", name, dur.Truncate(time.Millisecond), len(res.Rows))
	return Outcome{Name: name, Result: res}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (n int, err error) { return len(p), nil }
