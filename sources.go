package premium

import (
	"fmt"

	"github.com/etnz/premium/date"
)

// Series is a chronological series of daily observations, one per date.
type Series = date.History[float64]

// Sources groups the three input series of the premium computation.
type Sources struct {
	Prices *Series // market close of the fund's units, per trading day.
	NAVs   *Series // official NAV, per valuation day.
	Rates  *Series // forex rate, quote currency per unit of NAV currency.
}

// Window returns a copy of s where the NAV series is restricted to r.
//
// NAV sources usually return the whole history of the fund, while prices and
// rates are fetched for a given period only.
func (s Sources) Window(r date.Range) Sources {
	if s.NAVs != nil {
		s.NAVs = s.NAVs.Between(r)
	}
	return s
}

// Span returns the range covered by all three series together.
func (s Sources) Span() (date.Range, bool) {
	return date.Span(s.Prices, s.NAVs, s.Rates)
}

// Validate checks that all three series are present and not empty.
func (s Sources) Validate() error {
	for _, x := range []struct {
		name string
		h    *Series
	}{
		{"prices", s.Prices},
		{"navs", s.NAVs},
		{"rates", s.Rates},
	} {
		if x.h == nil || x.h.Len() == 0 {
			return fmt.Errorf("no %s: %w", x.name, ErrSourceUnavailable)
		}
	}
	return nil
}
