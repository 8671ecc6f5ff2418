package report

import (
	"sort"

	"prodlens/internal/dataset"
)

// Price bands are half-open on the upper edge; a row that matches no band
// falls through to Elite, CASE-expression style. A null listing price
// matches no band and therefore lands in Elite as well.
var priceBands = []struct {
	name  string
	below float64
}{
	{"Budget", 42},
	{"Average", 74},
	{"Expensive", 129},
}

const eliteBand = "Elite"

func bandFor(listingPrice *float64) (name string, order int) {
	if listingPrice != nil {
		for i, b := range priceBands {
			if *listingPrice < b.below {
				return b.name, i
			}
		}
	}
	return eliteBand, len(priceBands)
}

// RevenueByPriceBand joins Finance and Brand, drops rows with a null brand,
// classifies each row into Budget/Average/Expensive/Elite, and aggregates
// product count and summed revenue per (brand, band), largest revenue first.
//
// Null revenues contribute nothing to the sum but the row still counts,
// matching SUM semantics over nullable columns.
func RevenueByPriceBand(ds *dataset.Dataset) (Result, error) {
	brands := ds.BrandByProduct()

	type key struct {
		brand string
		band  string
		order int
	}
	type agg struct {
		count   int64
		revenue float64
	}
	groups := make(map[key]*agg)

	for i := range ds.Finance {
		f := &ds.Finance[i]
		b, ok := brands[f.ProductID]
		if !ok || b.Brand == nil {
			continue
		}

		band, order := bandFor(f.ListingPrice)
		k := key{brand: *b.Brand, band: band, order: order}
		g := groups[k]
		if g == nil {
			g = &agg{}
			groups[k] = g
		}
		g.count++
		if f.Revenue != nil {
			g.revenue += *f.Revenue
		}
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		gi, gj := groups[keys[i]], groups[keys[j]]
		if gi.revenue != gj.revenue {
			return gi.revenue > gj.revenue
		}
		if keys[i].brand != keys[j].brand {
			return keys[i].brand < keys[j].brand
		}
		return keys[i].order < keys[j].order
	})

	rows := make([][]any, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		rows = append(rows, []any{k.brand, k.band, g.count, g.revenue})
	}

	return Result{
		Name: "revenue_by_price_band",
		Columns: []Column{
			{Name: "brand", Kind: KindText},
			{Name: "price_category", Kind: KindText},
			{Name: "count", Kind: KindInteger},
			{Name: "total_revenue", Kind: KindReal},
		},
		Rows: rows,
	}, nil
}
