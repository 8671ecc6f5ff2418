package report

import (
	"time"

	"prodlens/internal/dataset"
)

func sptr(s string) *string    { return &s }
func fptr(f float64) *float64  { return &f }
func tptr(t time.Time) *time.Time {
	return &t
}

func mustTime(s string) time.Time {
	ts, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return ts
}

// catalog builds a small but fully joined dataset used by several tests.
func catalog() *dataset.Dataset {
	return &dataset.Dataset{
		Info: []dataset.Product{
			{ProductID: "P1", ProductName: sptr("Runner X"), Description: sptr("Men's Running Shoe")},
			{ProductID: "P2", ProductName: sptr("Tee"), Description: sptr("Cotton T-Shirt")},
			{ProductID: "P3", ProductName: sptr("Hoodie")},
		},
		Finance: []dataset.Finance{
			{ProductID: "P1", ListingPrice: fptr(99.99), SalePrice: fptr(79.99), Discount: fptr(0.2), Revenue: fptr(1200)},
			{ProductID: "P2", ListingPrice: fptr(19.5), SalePrice: fptr(19.5), Discount: fptr(0), Revenue: fptr(300)},
			{ProductID: "P3", ListingPrice: fptr(49), Discount: fptr(0.1), Revenue: fptr(450)},
		},
		Reviews: []dataset.Review{
			{ProductID: "P1", Rating: sptr("4.5"), Reviews: fptr(120)},
			{ProductID: "P2", Rating: sptr("3.8"), Reviews: fptr(40)},
			{ProductID: "P3", Rating: sptr("4.0"), Reviews: fptr(15)},
		},
		Traffic: []dataset.Traffic{
			{ProductID: "P1", LastVisited: tptr(mustTime("2020-03-14 10:00:00"))},
			{ProductID: "P2", LastVisited: tptr(mustTime("2020-03-02 09:30:00"))},
			{ProductID: "P3"},
		},
		Brands: []dataset.Brand{
			{ProductID: "P1", Brand: sptr("Adidas")},
			{ProductID: "P2", Brand: sptr("Adidas")},
			{ProductID: "P3", Brand: sptr("Nike")},
		},
	}
}
