package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestSameISOWeek(t *testing.T) {
	cases := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{"monday and sunday of one week", date(2025, time.June, 2), date(2025, time.June, 8), true},
		{"sunday and next monday", date(2025, time.June, 8), date(2025, time.June, 9), false},
		{"year boundary same iso week", date(2024, time.December, 30), date(2025, time.January, 5), true},
		{"same date", date(2025, time.March, 3), date(2025, time.March, 3), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SameISOWeek(tc.a, tc.b); got != tc.want {
				t.Fatalf("SameISOWeek(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestStartOfISOWeek(t *testing.T) {
	// Sunday 2025-06-08 belongs to the week starting Monday 2025-06-02.
	got := StartOfISOWeek(date(2025, time.June, 8))
	want := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("StartOfISOWeek = %v, want %v", got, want)
	}

	// A Monday maps to itself at midnight.
	got = StartOfISOWeek(date(2025, time.June, 2))
	if !got.Equal(want) {
		t.Fatalf("StartOfISOWeek(monday) = %v, want %v", got, want)
	}
}

func TestAddMonthsClamped(t *testing.T) {
	cases := []struct {
		name   string
		in     time.Time
		months int
		want   time.Time
	}{
		{"jan 31 plus one month clamps to feb 28", date(2025, time.January, 31), 1, date(2025, time.February, 28)},
		{"jan 31 plus one month leap year", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"mid month unaffected", date(2025, time.April, 15), 1, date(2025, time.May, 15)},
		{"year rollover", date(2025, time.November, 30), 3, date(2026, time.February, 28)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AddMonthsClamped(tc.in, tc.months); !got.Equal(tc.want) {
				t.Fatalf("AddMonthsClamped(%v, %d) = %v, want %v", tc.in, tc.months, got, tc.want)
			}
		})
	}
}

func TestLocalHour(t *testing.T) {
	// 12:00 UTC is 21:00 in Seoul.
	ts := date(2025, time.June, 2)
	if got := LocalHour(ts, "Asia/Seoul"); got != 21 {
		t.Fatalf("LocalHour(Seoul) = %d, want 21", got)
	}
	if got := LocalHour(ts, ""); got != 12 {
		t.Fatalf("LocalHour(empty tz) = %d, want 12", got)
	}
	if got := LocalHour(ts, "Not/AZone"); got != 12 {
		t.Fatalf("LocalHour(bad tz) = %d, want 12", got)
	}
}
