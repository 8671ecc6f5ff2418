// Package htmltable reads a tabular dataset out of an HTML document, so a
// table export published as a web page can be ingested like a CSV file.
package htmltable

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"prodlens/internal/config"
	"prodlens/internal/parser"
)

// StreamRows parses the first <table> (or the one matched by the "selector"
// option) and emits its body rows as pooled *parser.Row objects aligned to
// the target 'columns' order.
//
// Header cells (<th>, or the first row when no <th> exists) are normalized
// the same way as CSV headers: trimmed, lowercased, spaces replaced by
// underscores, then passed through the optional header_map option.
//
// Unlike the CSV reader this parses the whole document up front; HTML table
// exports are small by nature and goquery needs a full DOM anyway.
func StreamRows(
	ctx context.Context,
	src io.ReadCloser,
	columns []string,
	opt config.Options,
	out chan<- *parser.Row,
	onErr func(line int, err error),
) error {
	defer src.Close()

	doc, err := goquery.NewDocumentFromReader(src)
	if err != nil {
		if onErr != nil {
			onErr(0, fmt.Errorf("parse html: %w", err))
		}
		return err
	}

	selector := opt.String("selector", "table")
	hm := opt.StringMap("header_map")

	table := doc.Find(selector).First()
	if table.Length() == 0 {
		err := fmt.Errorf("no element matches %q", selector)
		if onErr != nil {
			onErr(0, err)
		}
		return err
	}

	header, bodyRows := splitHeader(table)
	if len(header) == 0 {
		err := fmt.Errorf("table %q has no header row", selector)
		if onErr != nil {
			onErr(0, err)
		}
		return err
	}

	colIx := make([]int, len(columns))
	for i := range colIx {
		colIx[i] = -1
	}
	srcToIdx := make(map[string]int, len(header))
	for i, h := range header {
		if mapped, ok := hm[h]; ok {
			h = mapped
		} else {
			h = strings.ReplaceAll(strings.ToLower(h), " ", "_")
		}
		srcToIdx[h] = i
	}
	for t, target := range columns {
		if si, ok := srcToIdx[target]; ok {
			colIx[t] = si
		}
	}

	for line, cells := range bodyRows {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		row := parser.GetRow(len(columns))
		row.Line = line + 1

		for t := range columns {
			si := colIx[t]
			if si < 0 || si >= len(cells) {
				row.V[t] = nil
				continue
			}
			if v := cells[si]; v != "" {
				row.V[t] = v
			}
		}

		select {
		case out <- row:
		case <-ctx.Done():
			row.Drop()
			return ctx.Err()
		}
	}

	return nil
}

// splitHeader returns the header cell texts and the body rows of a table.
//
// Preference order for the header: a row containing <th> cells, otherwise
// the first <tr>. Remaining rows become the body.
func splitHeader(table *goquery.Selection) (header []string, body [][]string) {
	rows := table.Find("tr")
	headerIdx := -1

	rows.EachWithBreak(func(i int, tr *goquery.Selection) bool {
		if cells := cellTexts(tr, "th"); len(cells) > 0 {
			header = cells
			headerIdx = i
			return false
		}
		return true
	})
	if headerIdx < 0 && rows.Length() > 0 {
		header = cellTexts(rows.First(), "td")
		headerIdx = 0
	}

	rows.Each(func(i int, tr *goquery.Selection) {
		if i == headerIdx {
			return
		}
		if cells := cellTexts(tr, "td"); len(cells) > 0 {
			body = append(body, cells)
		}
	})

	return header, body
}

func cellTexts(tr *goquery.Selection, tag string) []string {
	var out []string
	tr.Find(tag).Each(func(_ int, c *goquery.Selection) {
		out = append(out, strings.TrimSpace(c.Text()))
	})
	return out
}
