package csv

import (
	"context"
	"io"
	"strings"
	"testing"

	"prodlens/internal/config"
	"prodlens/internal/parser"
)

// collect runs StreamRows to completion and returns the emitted values as
// plain slices so tests do not have to deal with row pooling.
func collect(t *testing.T, input string, columns []string, opt config.Options) ([][]any, []error) {
	t.Helper()

	out := make(chan *parser.Row, 16)
	var parseErrs []error
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		errc <- StreamRows(context.Background(), io.NopCloser(strings.NewReader(input)), columns, opt,
			out, func(line int, err error) { parseErrs = append(parseErrs, err) })
	}()

	var rows [][]any
	for row := range out {
		rows = append(rows, append([]any(nil), row.V...))
		row.Free()
	}
	if err := <-errc; err != nil {
		t.Fatalf("StreamRows: %v", err)
	}
	return rows, parseErrs
}

func TestStreamRows_HeaderNormalizationAndAlignment(t *testing.T) {
	input := "Product ID,Description,Extra\np1,nice shoe,ignored\n"
	rows, errs := collect(t, input, []string{"product_id", "description"}, nil)

	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0][0] != "p1" || rows[0][1] != "nice shoe" {
		t.Fatalf("unexpected row: %v", rows[0])
	}
}

func TestStreamRows_HeaderMapAndBOM(t *testing.T) {
	input := "\uFEFFBrand Name,product_id\nAdidas,p1\n"
	opt := config.Options{
		"header_map": map[string]any{"Brand Name": "brand"},
	}
	rows, _ := collect(t, input, []string{"product_id", "brand"}, opt)

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0][0] != "p1" || rows[0][1] != "Adidas" {
		t.Fatalf("header_map or BOM strip failed: %v", rows[0])
	}
}

func TestStreamRows_EmptyAndWhitespaceBecomeNil(t *testing.T) {
	input := "a,b,c\n x ,,  \n"
	rows, _ := collect(t, input, []string{"a", "b", "c"}, nil)

	if rows[0][0] != "x" {
		t.Fatalf("expected trimmed value, got %v", rows[0][0])
	}
	if rows[0][1] != nil || rows[0][2] != nil {
		t.Fatalf("empty cells must be nil, got %v", rows[0])
	}
}

func TestStreamRows_MissingRequestedColumnYieldsNil(t *testing.T) {
	input := "a\n1\n"
	rows, _ := collect(t, input, []string{"a", "missing"}, nil)

	if rows[0][0] != "1" || rows[0][1] != nil {
		t.Fatalf("missing source column must read as nil, got %v", rows[0])
	}
}

func TestStreamRows_Headerless(t *testing.T) {
	input := "p1;Adidas\n"
	opt := config.Options{"has_header": false, "comma": ";"}
	rows, _ := collect(t, input, []string{"product_id", "brand"}, opt)

	if len(rows) != 1 || rows[0][0] != "p1" || rows[0][1] != "Adidas" {
		t.Fatalf("headerless positional read failed: %v", rows)
	}
}

func TestStreamRows_Windows1252Encoding(t *testing.T) {
	// 0xE9 is é in windows-1252 and invalid UTF-8 on its own.
	input := "name\ncaf\xe9\n"
	opt := config.Options{"encoding": "windows-1252"}
	rows, _ := collect(t, input, []string{"name"}, opt)

	if len(rows) != 1 || rows[0][0] != "café" {
		t.Fatalf("expected decoded café, got %v", rows)
	}
}

func TestStreamRows_UnsupportedEncodingFails(t *testing.T) {
	out := make(chan *parser.Row, 1)
	err := StreamRows(context.Background(), io.NopCloser(strings.NewReader("a\n1\n")),
		[]string{"a"}, config.Options{"encoding": "ebcdic"}, out, nil)
	if err == nil {
		t.Fatal("expected an error for an unsupported encoding")
	}
}

func TestStreamRows_BadRecordReportedAndSkipped(t *testing.T) {
	input := "a,b\n1,2\nx,\"y\n3,4\n"
	opt := config.Options{"fields_per_record": 2}
	rows, errs := collect(t, input, []string{"a", "b"}, opt)

	if len(errs) == 0 {
		t.Fatal("expected a parse error for the unterminated quote")
	}
	if len(rows) == 0 {
		t.Fatal("rows before the bad record must still be emitted")
	}
	if rows[0][0] != "1" || rows[0][1] != "2" {
		t.Fatalf("unexpected first row: %v", rows[0])
	}
}

func TestStreamRows_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan *parser.Row) // unbuffered, nobody reading
	err := StreamRows(ctx, io.NopCloser(strings.NewReader("a\n1\n2\n")),
		[]string{"a"}, nil, out, nil)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
