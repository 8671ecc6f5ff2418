package report

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"prodlens/internal/dataset"
)

// DescriptionLengthRating joins Info and Reviews, drops rows with a null
// description, buckets the description length (in characters) down to the
// nearest multiple of 100, and reports the mean rating per bucket rounded
// to two decimals, shortest bucket first.
//
// Ratings arrive as text in some exports. Non-numeric content fails the
// report with a ConversionError rather than coercing to null; null ratings
// are simply ignored by the mean.
func DescriptionLengthRating(ds *dataset.Dataset) (Result, error) {
	reviews := ds.ReviewsByProduct()

	type agg struct {
		sum float64
		n   int64
	}
	groups := make(map[int64]*agg)

	for i := range ds.Info {
		p := &ds.Info[i]
		if p.Description == nil {
			continue
		}
		r, ok := reviews[p.ProductID]
		if !ok {
			continue
		}
		if r.Rating == nil {
			continue
		}

		rating, err := strconv.ParseFloat(strings.TrimSpace(*r.Rating), 64)
		if err != nil {
			return Result{}, &ConversionError{Column: "rating", Value: *r.Rating, Err: err}
		}

		bucket := int64(utf8.RuneCountInString(*p.Description)) / 100 * 100
		g := groups[bucket]
		if g == nil {
			g = &agg{}
			groups[bucket] = g
		}
		g.sum += rating
		g.n++
	}

	buckets := make([]int64, 0, len(groups))
	for b := range groups {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i] < buckets[j] })

	rows := make([][]any, 0, len(buckets))
	for _, b := range buckets {
		g := groups[b]
		rows = append(rows, []any{b, round2(g.sum / float64(g.n))})
	}

	return Result{
		Name: "description_length_rating",
		Columns: []Column{
			{Name: "description_length", Kind: KindInteger},
			{Name: "average_rating", Kind: KindReal},
		},
		Rows: rows,
	}, nil
}
