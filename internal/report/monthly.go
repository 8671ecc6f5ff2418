package report

import (
	"sort"

	"prodlens/internal/dataset"
)

// MonthlyReviewVolume joins Brand, Traffic and Reviews three ways on
// product_id, extracts the calendar month (1-12) from last_visited, drops
// rows with a null brand or null visit timestamp, and counts matched review
// rows per (brand, month), ordered by brand then month ascending.
func MonthlyReviewVolume(ds *dataset.Dataset) (Result, error) {
	brands := ds.BrandByProduct()
	traffic := ds.TrafficByProduct()

	type key struct {
		brand string
		month int64
	}
	counts := make(map[key]int64)

	for i := range ds.Reviews {
		r := &ds.Reviews[i]
		b, ok := brands[r.ProductID]
		if !ok || b.Brand == nil {
			continue
		}
		t, ok := traffic[r.ProductID]
		if !ok || t.LastVisited == nil {
			continue
		}

		counts[key{brand: *b.Brand, month: int64(t.LastVisited.Month())}]++
	}

	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].brand != keys[j].brand {
			return keys[i].brand < keys[j].brand
		}
		return keys[i].month < keys[j].month
	})

	rows := make([][]any, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []any{k.brand, k.month, counts[k]})
	}

	return Result{
		Name: "monthly_review_volume",
		Columns: []Column{
			{Name: "brand", Kind: KindText},
			{Name: "month", Kind: KindInteger},
			{Name: "reviews", Kind: KindInteger},
		},
		Rows: rows,
	}, nil
}
