// Package dataset holds the five read-only product tables and their loader.
//
// Every table is keyed by product_id. Joins across tables are equality joins
// on that key and are expected to be 1:1; unmatched rows are dropped by the
// reports (inner-join semantics). Nothing mutates a table after load.
package dataset

import "time"

// Product is one row of the product info table.
type Product struct {
	ProductID   string
	ProductName *string
	Description *string
}

// Finance is one row of the finance table. All measures are nullable.
// Discount is a fraction in [0,1], not a percentage.
type Finance struct {
	ProductID    string
	ListingPrice *float64
	SalePrice    *float64
	Discount     *float64
	Revenue      *float64
}

// Review is one row of the reviews table.
//
// Rating is carried as raw text: some exports store it as a string, and the
// description-length report is the single consumer that converts it,
// failing explicitly on non-numeric content.
type Review struct {
	ProductID string
	Rating    *string
	Reviews   *float64
}

// Traffic is one row of the web traffic table.
type Traffic struct {
	ProductID   string
	LastVisited *time.Time
}

// Brand is one row of the brand table.
type Brand struct {
	ProductID string
	Brand     *string
}

// Dataset is the immutable five-table input set shared by all reports.
type Dataset struct {
	Info    []Product
	Finance []Finance
	Reviews []Review
	Traffic []Traffic
	Brands  []Brand
}

// FinanceByProduct indexes the finance table by product_id.
func (d *Dataset) FinanceByProduct() map[string]*Finance {
	out := make(map[string]*Finance, len(d.Finance))
	for i := range d.Finance {
		out[d.Finance[i].ProductID] = &d.Finance[i]
	}
	return out
}

// InfoByProduct indexes the info table by product_id.
func (d *Dataset) InfoByProduct() map[string]*Product {
	out := make(map[string]*Product, len(d.Info))
	for i := range d.Info {
		out[d.Info[i].ProductID] = &d.Info[i]
	}
	return out
}

// ReviewsByProduct indexes the reviews table by product_id.
func (d *Dataset) ReviewsByProduct() map[string]*Review {
	out := make(map[string]*Review, len(d.Reviews))
	for i := range d.Reviews {
		out[d.Reviews[i].ProductID] = &d.Reviews[i]
	}
	return out
}

// TrafficByProduct indexes the traffic table by product_id.
func (d *Dataset) TrafficByProduct() map[string]*Traffic {
	out := make(map[string]*Traffic, len(d.Traffic))
	for i := range d.Traffic {
		out[d.Traffic[i].ProductID] = &d.Traffic[i]
	}
	return out
}

// BrandByProduct indexes the brand table by product_id.
func (d *Dataset) BrandByProduct() map[string]*Brand {
	out := make(map[string]*Brand, len(d.Brands))
	for i := range d.Brands {
		out[d.Brands[i].ProductID] = &d.Brands[i]
	}
	return out
}
