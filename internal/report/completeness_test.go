package report

import (
	"testing"

	"prodlens/internal/dataset"
)

func TestCompleteness_CountsAfterJoin(t *testing.T) {
	ds := catalog()
	// P4 exists only in info: must not join and must not count anywhere.
	ds.Info = append(ds.Info, dataset.Product{ProductID: "P4", Description: sptr("orphan")})

	res, err := Completeness(ds)
	if err != nil {
		t.Fatalf("Completeness: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("expected a single summary row, got %d", len(res.Rows))
	}

	row := res.Rows[0]
	total := row[0].(int64)
	nDesc := row[1].(int64)
	nPrice := row[2].(int64)
	nVisited := row[3].(int64)

	if total != 3 {
		t.Fatalf("expected total_rows=3 (three-way join), got %d", total)
	}
	// P3 has no description; P3 has no last_visited.
	if nDesc != 2 {
		t.Fatalf("expected count_description=2, got %d", nDesc)
	}
	if nPrice != 3 {
		t.Fatalf("expected count_listing_price=3, got %d", nPrice)
	}
	if nVisited != 2 {
		t.Fatalf("expected count_last_visited=2, got %d", nVisited)
	}

	for i, n := range []int64{nDesc, nPrice, nVisited} {
		if n > total {
			t.Fatalf("non-null count %d (col %d) exceeds total %d", n, i+1, total)
		}
	}
}
