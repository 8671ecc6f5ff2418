package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"prodlens/internal/config"
	"prodlens/internal/dataset"
	"prodlens/internal/metrics"
	"prodlens/internal/metrics/datadog"
	"prodlens/internal/report"
	"prodlens/internal/storage"

	// register all sink backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "prodlens/internal/storage/all"
)

// main is the entry point for the prodlens binary. It loads the report job
// config, optionally initializes a metrics backend, loads the five input
// tables, runs all reports, prints them, and publishes them to the sink.
func main() {
	var (
		cfgPath           string
		metricsBackendFlg string
		metricsTagsFlg    string
		sinkKindFlg       string
		sinkDSNFlg        string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/jobs/sample.json", "report job config JSON path")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (datadog, none)")
	flag.StringVar(&metricsTagsFlg, "metrics-tags", "", "extra metric tags, e.g. env:prod,team:catalog")
	flag.StringVar(&sinkKindFlg, "sink", "", "override sink kind from config (sqlite, postgres, mssql)")
	flag.StringVar(&sinkDSNFlg, "sink-dsn", "", "override sink DSN from config")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	f, err := os.Open(cfgPath)
	if err != nil {
		fatalf("open config: %v", err)
	}
	var job config.Job
	if err := json.NewDecoder(f).Decode(&job); err != nil {
		_ = f.Close()
		fatalf("decode config: %v", err)
	}
	_ = f.Close()

	if sinkKindFlg != "" {
		job.Sink.Kind = sinkKindFlg
	}
	if sinkDSNFlg != "" {
		job.Sink.DSN = sinkDSNFlg
	}

	issues := config.ValidateJob(job)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Decide metrics backend: flag → env → default (none).
	backendName := metricsBackendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "datadog":
		b, err := datadog.NewBackend(ctx, datadog.Options{
			JobName: job.Name,
			Tags:    datadog.ParseTagsCSV(metricsTagsFlg),
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
		} else {
			metrics.SetBackend(b)
			defer func() {
				if err := b.Close(); err != nil {
					log.Printf("metrics: final flush error: %v", err)
				}
			}()
		}
	case "", "none":
	default:
		log.Printf("metrics: unknown backend %q; using nop", backendName)
	}

	ds, err := dataset.Load(ctx, job.Sources)
	if err != nil {
		fatalf("load dataset: %v", err)
	}

	var runnerLog report.Logger
	if *verbose {
		runnerLog = log.Default()
	}
	runner := &report.Runner{Logger: runnerLog, Parallel: job.Runtime.Parallel}
	outcomes := runner.RunAll(ctx, ds)

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "report %s failed: %v\n", o.Name, o.Err)
			continue
		}
		renderResult(os.Stdout, o.Result)
	}

	if job.Sink.Kind != "" {
		if err := publish(ctx, job.Sink, outcomes); err != nil {
			fatalf("publish results: %v", err)
		}
	}

	if failed > 0 {
		log.Printf("%d of %d reports failed", failed, len(outcomes))
		os.Exit(1)
	}
}

// publish writes every successful result table to the configured sink.
// Failed reports have no table to publish; their previous contents (if any)
// are left untouched.
func publish(ctx context.Context, cfg config.Sink, outcomes []report.Outcome) error {
	sink, err := storage.New(ctx, storage.Config{
		Kind: cfg.Kind,
		DSN:  os.ExpandEnv(cfg.DSN),
	})
	if err != nil {
		return err
	}
	defer sink.Close()

	var specs []storage.TableSpec
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		specs = append(specs, specFor(o.Result))
	}
	if err := sink.EnsureTables(ctx, specs); err != nil {
		return err
	}

	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		n, err := sink.ReplaceRows(ctx, o.Result.Name, o.Result.ColumnNames(), o.Result.Rows)
		if err != nil {
			return fmt.Errorf("table %s: %w", o.Result.Name, err)
		}
		log.Printf("sink: table=%s rows=%d", o.Result.Name, n)
	}
	return nil
}

func specFor(res report.Result) storage.TableSpec {
	spec := storage.TableSpec{Name: res.Name}
	for _, c := range res.Columns {
		spec.Columns = append(spec.Columns, storage.ColumnSpec{Name: c.Name, Kind: string(c.Kind)})
	}
	return spec
}

func fatalf(format string, v ...any) {
	log.Printf(format, v...)
	os.Exit(1)
}
