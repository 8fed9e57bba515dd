package premium

import (
	"testing"

	"github.com/etnz/premium/date"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// jan returns the date of day 'd' in January 2024.
func jan(d int) date.Date { return date.New(2024, 1, d) }

// series builds a series from alternating (date, value) pairs.
func series(t *testing.T, points ...any) *Series {
	t.Helper()
	if len(points)%2 != 0 {
		t.Fatalf("series() needs pairs, got %d items", len(points))
	}
	s := new(Series)
	for i := 0; i < len(points); i += 2 {
		on, ok := points[i].(date.Date)
		if !ok {
			t.Fatalf("series() item %d is not a date: %v", i, points[i])
		}
		v, ok := points[i+1].(float64)
		if !ok {
			t.Fatalf("series() item %d is not a float64: %v", i+1, points[i+1])
		}
		s.Append(on, v)
	}
	return s
}

// cmpOpts compares dates by value and floats to a tolerance of 1e-9.
var cmpOpts = cmp.Options{
	cmp.Comparer(func(a, b date.Date) bool { return a == b }),
	cmpopts.EquateApprox(0, 1e-9),
	cmpopts.EquateEmpty(),
}
