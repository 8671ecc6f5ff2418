package report

import "prodlens/internal/dataset"

// Completeness joins Info, Finance and Traffic and reports the joined row
// count plus non-null counts for description, listing_price and
// last_visited.
//
// The counts measure missing data *after* the join: a product absent from
// finance or traffic does not show up in total_rows at all.
func Completeness(ds *dataset.Dataset) (Result, error) {
	finance := ds.FinanceByProduct()
	traffic := ds.TrafficByProduct()

	var total, nDescription, nListingPrice, nLastVisited int64
	for i := range ds.Info {
		p := &ds.Info[i]
		f, ok := finance[p.ProductID]
		if !ok {
			continue
		}
		t, ok := traffic[p.ProductID]
		if !ok {
			continue
		}

		total++
		if p.Description != nil {
			nDescription++
		}
		if f.ListingPrice != nil {
			nListingPrice++
		}
		if t.LastVisited != nil {
			nLastVisited++
		}
	}

	return Result{
		Name: "completeness",
		Columns: []Column{
			{Name: "total_rows", Kind: KindInteger},
			{Name: "count_description", Kind: KindInteger},
			{Name: "count_listing_price", Kind: KindInteger},
			{Name: "count_last_visited", Kind: KindInteger},
		},
		Rows: [][]any{{total, nDescription, nListingPrice, nLastVisited}},
	}, nil
}
