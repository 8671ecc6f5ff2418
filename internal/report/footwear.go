package report

import (
	"fmt"
	"strings"

	"prodlens/internal/dataset"
)

// isFootwear reports whether a description marks a footwear product:
// it contains "shoe", "trainer", or "foot" (case-insensitive). A missing
// description never matches a contains predicate, so it is not footwear.
func isFootwear(description *string) bool {
	if description == nil {
		return false
	}
	d := strings.ToLower(*description)
	return strings.Contains(d, "shoe") ||
		strings.Contains(d, "trainer") ||
		strings.Contains(d, "foot")
}

// FootwearVsClothing splits Info⋈Finance into a footwear subset (keyword
// match on the description) and a clothing subset (description not present
// in the footwear description set) and reports product count and discrete
// lower-value median revenue for each.
//
// Exclusion is by exact description string against the footwear set, so
// matching follows NOT IN semantics: rows with a null description are in
// neither subset.
//
// Errors:
//   - ErrUndefined when either subset has no rows to take a median over.
func FootwearVsClothing(ds *dataset.Dataset) (Result, error) {
	finance := ds.FinanceByProduct()

	footwearDescs := make(map[string]struct{})
	var footwearCount, clothingCount int64
	var footwearRevenue, clothingRevenue []float64

	for i := range ds.Info {
		p := &ds.Info[i]
		if _, ok := finance[p.ProductID]; !ok {
			continue
		}
		if isFootwear(p.Description) {
			footwearDescs[*p.Description] = struct{}{}
		}
	}

	for i := range ds.Info {
		p := &ds.Info[i]
		f, ok := finance[p.ProductID]
		if !ok {
			continue
		}

		switch {
		case isFootwear(p.Description):
			footwearCount++
			if f.Revenue != nil {
				footwearRevenue = append(footwearRevenue, *f.Revenue)
			}
		case p.Description == nil:
			// NOT IN over a description set never matches a null.
		default:
			if _, excluded := footwearDescs[*p.Description]; excluded {
				continue
			}
			clothingCount++
			if f.Revenue != nil {
				clothingRevenue = append(clothingRevenue, *f.Revenue)
			}
		}
	}

	footwearMedian, err := medianLower(footwearRevenue)
	if err != nil {
		return Result{}, fmt.Errorf("footwear median: %w", err)
	}
	clothingMedian, err := medianLower(clothingRevenue)
	if err != nil {
		return Result{}, fmt.Errorf("clothing median: %w", err)
	}

	return Result{
		Name: "footwear_vs_clothing",
		Columns: []Column{
			{Name: "segment", Kind: KindText},
			{Name: "count", Kind: KindInteger},
			{Name: "median_revenue", Kind: KindReal},
		},
		Rows: [][]any{
			{"footwear", footwearCount, footwearMedian},
			{"clothing", clothingCount, clothingMedian},
		},
	}, nil
}
