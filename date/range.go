package date

import "fmt"

// Range represents a range of dates.
type Range struct{ From, To Date }

// LastDays returns the range of n days ending on 'to'.
func LastDays(to Date, n int) Range { return Range{From: to.Add(-n), To: to} }

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Days returns the number of calendar days in the range, boundaries included.
func (r Range) Days() int {
	if r.To.Before(r.From) {
		return 0
	}
	return r.To.Sub(r.From) + 1
}

func (r Range) String() string { return fmt.Sprintf("%s_%s", r.From, r.To) }

// Span returns the smallest range covering every day of every history.
// ok is false if all histories are empty.
func Span[T float32 | float64 | string](histories ...*History[T]) (r Range, ok bool) {
	for _, h := range histories {
		if h == nil || h.Len() == 0 {
			continue
		}
		first, last := h.days[0], h.days[len(h.days)-1]
		if !ok || first.Before(r.From) {
			r.From = first
		}
		if !ok || last.After(r.To) {
			r.To = last
		}
		ok = true
	}
	return r, ok
}
