package report

import "prodlens/internal/dataset"

// ReviewsRevenueCorrelation joins Reviews and Finance and returns the
// Pearson correlation between review counts and revenue as a single scalar.
//
// Rows where either side is null are dropped, matching CORR semantics.
//
// Errors:
//   - ErrUndefined when fewer than two matched rows remain or either series
//     has zero variance. The value is never silently reported as 0.
func ReviewsRevenueCorrelation(ds *dataset.Dataset) (Result, error) {
	finance := ds.FinanceByProduct()

	var reviews, revenue []float64
	for i := range ds.Reviews {
		r := &ds.Reviews[i]
		f, ok := finance[r.ProductID]
		if !ok {
			continue
		}
		if r.Reviews == nil || f.Revenue == nil {
			continue
		}
		reviews = append(reviews, *r.Reviews)
		revenue = append(revenue, *f.Revenue)
	}

	coeff, err := pearson(reviews, revenue)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Name: "reviews_revenue_correlation",
		Columns: []Column{
			{Name: "correlation", Kind: KindReal},
		},
		Rows: [][]any{{coeff}},
	}, nil
}
