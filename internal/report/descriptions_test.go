package report

import (
	"errors"
	"strings"
	"testing"

	"prodlens/internal/dataset"
)

func TestDescriptionLengthRating_BucketsAndMean(t *testing.T) {
	res, err := DescriptionLengthRating(catalog())
	if err != nil {
		t.Fatalf("DescriptionLengthRating: %v", err)
	}

	// Both described products land in the 0 bucket; the product without a
	// description is dropped. Mean of 4.5 and 3.8 is 4.15.
	if len(res.Rows) != 1 {
		t.Fatalf("expected a single bucket, got %v", res.Rows)
	}
	if res.Rows[0][0] != int64(0) || res.Rows[0][1] != 4.15 {
		t.Fatalf("expected (0, 4.15), got %v", res.Rows[0])
	}
}

func TestDescriptionLengthRating_FlooredTo100s(t *testing.T) {
	ds := &dataset.Dataset{
		Info: []dataset.Product{
			{ProductID: "P1", Description: sptr(strings.Repeat("x", 247))},
		},
		Reviews: []dataset.Review{
			{ProductID: "P1", Rating: sptr("4.0")},
		},
	}

	res, err := DescriptionLengthRating(ds)
	if err != nil {
		t.Fatalf("DescriptionLengthRating: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0][0] != int64(200) {
		t.Fatalf("247 characters must bucket to 200, got %v", res.Rows)
	}
}

func TestDescriptionLengthRating_CountsRunesNotBytes(t *testing.T) {
	// 120 two-byte runes: 240 bytes but 120 characters, so bucket 100.
	ds := &dataset.Dataset{
		Info: []dataset.Product{
			{ProductID: "P1", Description: sptr(strings.Repeat("é", 120))},
		},
		Reviews: []dataset.Review{
			{ProductID: "P1", Rating: sptr("5")},
		},
	}

	res, err := DescriptionLengthRating(ds)
	if err != nil {
		t.Fatalf("DescriptionLengthRating: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0][0] != int64(100) {
		t.Fatalf("expected bucket 100 for 120 runes, got %v", res.Rows)
	}
}

func TestDescriptionLengthRating_BadRatingFailsReport(t *testing.T) {
	ds := catalog()
	ds.Reviews[1].Rating = sptr("great")

	_, err := DescriptionLengthRating(ds)
	if err == nil {
		t.Fatal("expected a conversion error for a non-numeric rating")
	}
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected *ConversionError, got %T: %v", err, err)
	}
	if convErr.Column != "rating" || convErr.Value != "great" {
		t.Fatalf("unexpected error detail: %+v", convErr)
	}
}

func TestDescriptionLengthRating_NullRatingIgnored(t *testing.T) {
	ds := catalog()
	ds.Reviews[0].Rating = nil

	res, err := DescriptionLengthRating(ds)
	if err != nil {
		t.Fatalf("DescriptionLengthRating: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0][1] != 3.8 {
		t.Fatalf("null rating must drop out of the mean, got %v", res.Rows)
	}
}
