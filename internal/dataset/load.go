package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"prodlens/internal/config"
	"prodlens/internal/parser"
	"prodlens/internal/parser/csv"
	"prodlens/internal/parser/htmltable"
)

// Canonical column orders per table. These are the names the parsers align
// rows to after header normalization / header_map.
var (
	infoColumns    = []string{"product_id", "product_name", "description"}
	financeColumns = []string{"product_id", "listing_price", "sale_price", "discount", "revenue"}
	reviewColumns  = []string{"product_id", "rating", "reviews"}
	trafficColumns = []string{"product_id", "last_visited"}
	brandColumns   = []string{"product_id", "brand"}
)

// Load reads all five tables described by sources and returns an immutable
// Dataset.
//
// The load is strict: malformed numeric or timestamp content and missing
// product_id values fail the load with file and line context. Empty cells
// load as nil. Reports assume a well-typed dataset (the known text-typed
// rating field excepted).
func Load(ctx context.Context, sources config.Sources) (*Dataset, error) {
	var ds Dataset

	if err := loadTable(ctx, sources.Info, infoColumns, func(line int, v []any) error {
		id, err := requireString(v[0], "product_id", line)
		if err != nil {
			return err
		}
		ds.Info = append(ds.Info, Product{
			ProductID:   id,
			ProductName: optString(v[1]),
			Description: optString(v[2]),
		})
		return nil
	}); err != nil {
		return nil, fmt.Errorf("load info: %w", err)
	}

	if err := loadTable(ctx, sources.Finance, financeColumns, func(line int, v []any) error {
		id, err := requireString(v[0], "product_id", line)
		if err != nil {
			return err
		}
		row := Finance{ProductID: id}
		for i, dst := range []**float64{&row.ListingPrice, &row.SalePrice, &row.Discount, &row.Revenue} {
			f, err := optFloat(v[i+1], financeColumns[i+1], line)
			if err != nil {
				return err
			}
			*dst = f
		}
		ds.Finance = append(ds.Finance, row)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("load finance: %w", err)
	}

	if err := loadTable(ctx, sources.Reviews, reviewColumns, func(line int, v []any) error {
		id, err := requireString(v[0], "product_id", line)
		if err != nil {
			return err
		}
		count, err := optFloat(v[2], "reviews", line)
		if err != nil {
			return err
		}
		ds.Reviews = append(ds.Reviews, Review{
			ProductID: id,
			Rating:    optString(v[1]), // stays raw; converted (and checked) by its report
			Reviews:   count,
		})
		return nil
	}); err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}

	if err := loadTable(ctx, sources.Traffic, trafficColumns, func(line int, v []any) error {
		id, err := requireString(v[0], "product_id", line)
		if err != nil {
			return err
		}
		ts, err := optTime(v[1], "last_visited", line)
		if err != nil {
			return err
		}
		ds.Traffic = append(ds.Traffic, Traffic{ProductID: id, LastVisited: ts})
		return nil
	}); err != nil {
		return nil, fmt.Errorf("load traffic: %w", err)
	}

	if err := loadTable(ctx, sources.Brand, brandColumns, func(line int, v []any) error {
		id, err := requireString(v[0], "product_id", line)
		if err != nil {
			return err
		}
		ds.Brands = append(ds.Brands, Brand{ProductID: id, Brand: optString(v[1])})
		return nil
	}); err != nil {
		return nil, fmt.Errorf("load brand: %w", err)
	}

	return &ds, nil
}

// streamFn matches the signature shared by the csv and htmltable readers.
type streamFn func(
	ctx context.Context,
	src io.ReadCloser,
	columns []string,
	opt config.Options,
	out chan<- *parser.Row,
	onErr func(line int, err error),
) error

func streamerFor(format string) (streamFn, error) {
	switch format {
	case "", "csv":
		return csv.StreamRows, nil
	case "html":
		return htmltable.StreamRows, nil
	default:
		return nil, fmt.Errorf("unknown source format %q", format)
	}
}

// loadTable streams one source through its parser and feeds each pooled row
// to accept. The first parse or accept error cancels the stream and fails
// the table.
func loadTable(ctx context.Context, src config.Source, columns []string, accept func(line int, v []any) error) error {
	stream, err := streamerFor(src.Format)
	if err != nil {
		return err
	}

	f, err := os.Open(src.Path)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	// The stream closes f.

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var once sync.Once
	var parseErr error
	onErr := func(line int, err error) {
		if err == nil {
			return
		}
		once.Do(func() {
			parseErr = fmt.Errorf("%s line %d: %w", src.Path, line, err)
			cancel()
		})
	}

	out := make(chan *parser.Row, 256)
	streamDone := make(chan error, 1)
	go func() {
		defer close(out)
		streamDone <- stream(ctx, f, columns, src.Options, out, onErr)
	}()

	var acceptErr error
	for r := range out {
		if acceptErr != nil {
			r.Free()
			continue
		}
		if err := accept(r.Line, r.V); err != nil {
			acceptErr = fmt.Errorf("%s: %w", src.Path, err)
			cancel()
		}
		r.Free()
	}

	streamErr := <-streamDone

	switch {
	case acceptErr != nil:
		return acceptErr
	case parseErr != nil:
		return parseErr
	case streamErr != nil:
		return fmt.Errorf("%s: %w", src.Path, streamErr)
	}
	return nil
}

func optString(v any) *string {
	if v == nil {
		return nil
	}
	s := v.(string)
	return &s
}

func requireString(v any, col string, line int) (string, error) {
	if v == nil {
		return "", fmt.Errorf("line %d: %s is empty", line, col)
	}
	return v.(string), nil
}

func optFloat(v any, col string, line int) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.(string)), 64)
	if err != nil {
		return nil, fmt.Errorf("line %d: %s: %w", line, col, err)
	}
	return &f, nil
}

// timeLayouts covers the formats seen in catalog exports. The bare layouts
// are interpreted as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func optTime(v any, col string, line int) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	s := strings.TrimSpace(v.(string))
	for _, layout := range timeLayouts {
		var ts time.Time
		var err error
		switch layout {
		case time.RFC3339Nano, time.RFC3339:
			ts, err = time.Parse(layout, s)
		default:
			ts, err = time.ParseInLocation(layout, s, time.UTC)
		}
		if err == nil {
			ts = ts.UTC()
			return &ts, nil
		}
	}
	return nil, fmt.Errorf("line %d: %s: unsupported time format %q", line, col, s)
}
