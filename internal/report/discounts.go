package report

import (
	"sort"

	"prodlens/internal/dataset"
)

// AverageDiscountByBrand joins Brand and Finance, drops rows with a null
// brand, and reports the mean discount per brand on a percentage scale
// (discount is stored as a fraction), smallest average first.
//
// Null discounts are ignored by the mean, matching AVG semantics; a brand
// whose discounts are all null is omitted.
func AverageDiscountByBrand(ds *dataset.Dataset) (Result, error) {
	finance := ds.FinanceByProduct()

	type agg struct {
		sum float64
		n   int64
	}
	groups := make(map[string]*agg)

	for i := range ds.Brands {
		b := &ds.Brands[i]
		if b.Brand == nil {
			continue
		}
		f, ok := finance[b.ProductID]
		if !ok || f.Discount == nil {
			continue
		}

		g := groups[*b.Brand]
		if g == nil {
			g = &agg{}
			groups[*b.Brand] = g
		}
		g.sum += *f.Discount
		g.n++
	}

	type row struct {
		brand string
		avg   float64
	}
	out := make([]row, 0, len(groups))
	for brand, g := range groups {
		out = append(out, row{brand: brand, avg: g.sum / float64(g.n) * 100})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].avg != out[j].avg {
			return out[i].avg < out[j].avg
		}
		return out[i].brand < out[j].brand
	})

	rows := make([][]any, 0, len(out))
	for _, r := range out {
		rows = append(rows, []any{r.brand, r.avg})
	}

	return Result{
		Name: "average_discount_by_brand",
		Columns: []Column{
			{Name: "brand", Kind: KindText},
			{Name: "average_discount", Kind: KindReal},
		},
		Rows: rows,
	}, nil
}
