package report

import (
	"sort"

	"prodlens/internal/dataset"
)

// PricePoints joins Finance and Brand, keeps rows with a positive listing
// price, truncates the price to a whole amount (truncation, not rounding)
// and counts products per (brand, price point), highest price first.
//
// A listing price of exactly 0 is excluded; a missing brand value
// still groups (only the revenue and discount reports exclude null brands).
func PricePoints(ds *dataset.Dataset) (Result, error) {
	brands := ds.BrandByProduct()

	type key struct {
		brand    string
		hasBrand bool
		price    int64
	}
	counts := make(map[key]int64)

	for i := range ds.Finance {
		f := &ds.Finance[i]
		b, ok := brands[f.ProductID]
		if !ok {
			continue
		}
		if f.ListingPrice == nil || *f.ListingPrice <= 0 {
			continue
		}

		k := key{price: int64(*f.ListingPrice)}
		if b.Brand != nil {
			k.brand = *b.Brand
			k.hasBrand = true
		}
		counts[k]++
	}

	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].price != keys[j].price {
			return keys[i].price > keys[j].price
		}
		if keys[i].hasBrand != keys[j].hasBrand {
			return !keys[i].hasBrand
		}
		return keys[i].brand < keys[j].brand
	})

	rows := make([][]any, 0, len(keys))
	for _, k := range keys {
		brand := any(nil)
		if k.hasBrand {
			brand = k.brand
		}
		rows = append(rows, []any{brand, k.price, counts[k]})
	}

	return Result{
		Name: "price_points",
		Columns: []Column{
			{Name: "brand", Kind: KindText},
			{Name: "listing_price", Kind: KindInteger},
			{Name: "count", Kind: KindInteger},
		},
		Rows: rows,
	}, nil
}
