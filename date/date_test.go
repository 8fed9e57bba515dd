package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNewNormalizes(t *testing.T) {
	if got, want := New(2024, 2, 30), New(2024, 3, 1); got != want {
		t.Errorf("New(2024, 2, 30) = %v want %v", got, want)
	}
	if got, want := New(2025, 1, 0), New(2024, 12, 31); got != want {
		t.Errorf("New(2025, 1, 0) = %v want %v", got, want)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b Date
		want int
	}{
		{New(2024, 1, 1), New(2024, 1, 1), 0},
		{New(2024, 1, 1), New(2024, 1, 2), -1},
		{New(2024, 2, 1), New(2024, 1, 31), 1},
		{New(2023, 12, 31), New(2024, 1, 1), -1},
	}
	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%v.Compare(%v) = %d want %d", tt.a, tt.b, got, tt.want)
		}
		if got := tt.a.Before(tt.b); got != (tt.want < 0) {
			t.Errorf("%v.Before(%v) = %v", tt.a, tt.b, got)
		}
		if got := tt.a.After(tt.b); got != (tt.want > 0) {
			t.Errorf("%v.After(%v) = %v", tt.a, tt.b, got)
		}
	}
}

func TestSub(t *testing.T) {
	if got := New(2024, 3, 1).Sub(New(2024, 2, 1)); got != 29 {
		t.Errorf("Sub() = %d want 29", got)
	}
	if got := New(2024, 1, 1).Sub(New(2024, 1, 5)); got != -4 {
		t.Errorf("Sub() = %d want -4", got)
	}
}

func TestOf(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 2024-06-10 21:00 UTC is already the 11th in India.
	ts := time.Date(2024, 6, 10, 21, 0, 0, 0, time.UTC).In(ist)
	if got, want := Of(ts), New(2024, 6, 11); got != want {
		t.Errorf("Of(%v) = %v want %v", ts, got, want)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2025-07-01", New(2025, 7, 1), false},
		{"2025-7-1", New(2025, 7, 1), false},
		{"01-07-2025", Date{}, true},
		{"", Date{}, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLayout(t *testing.T) {
	got, err := ParseLayout("02-01-2006", "25-12-2024")
	if err != nil {
		t.Fatalf("ParseLayout() unexpected error: %v", err)
	}
	if want := New(2024, 12, 25); got != want {
		t.Errorf("ParseLayout() = %v want %v", got, want)
	}
}

func TestJSON(t *testing.T) {
	d := New(2024, 1, 5)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"2024-01-05"` {
		t.Errorf("json.Marshal() = %s want %q", data, "2024-01-05")
	}
	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != d {
		t.Errorf("json.Unmarshal() = %v want %v", back, d)
	}
}
