package analytics

import (
	"testing"
	"time"

	"github.com/shelfsense/backend/internal/domain"
)

func TestPeakPeriod(t *testing.T) {
	e := newTestEngine()

	cases := []struct {
		hour int
		want string
	}{
		{10, ""},
		{11, domain.PeakLunch},
		{13, domain.PeakLunch},
		{14, ""},
		{17, domain.PeakDinner},
		{19, domain.PeakDinner},
		{20, ""},
	}
	for _, c := range cases {
		if got := e.PeakPeriod(c.hour); got != c.want {
			t.Fatalf("PeakPeriod(%d) = %q, want %q", c.hour, got, c.want)
		}
	}
}

func TestIsOpenHour(t *testing.T) {
	e := newTestEngine()

	if e.IsOpenHour(5) || e.IsOpenHour(22) {
		t.Fatalf("hours outside 6-22 reported open")
	}
	if !e.IsOpenHour(6) || !e.IsOpenHour(21) {
		t.Fatalf("trading hours reported closed")
	}
}

func TestPeakSummary(t *testing.T) {
	e := newTestEngine()
	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	morning := e.PeakSummary(day.Add(9 * time.Hour))
	if morning.NextPeakPeriod != domain.PeakLunch || morning.HoursUntilPeak != 2 {
		t.Fatalf("09:00 summary = %+v, want lunch in 2 hours", morning)
	}
	if morning.IsCurrentlyPeak {
		t.Fatalf("09:00 flagged as peak")
	}

	lunch := e.PeakSummary(day.Add(12 * time.Hour))
	if !lunch.IsCurrentlyPeak || lunch.NextPeakPeriod != domain.PeakLunch {
		t.Fatalf("12:00 summary = %+v, want in-lunch", lunch)
	}

	afternoon := e.PeakSummary(day.Add(15 * time.Hour))
	if afternoon.NextPeakPeriod != domain.PeakDinner || afternoon.HoursUntilPeak != 2 {
		t.Fatalf("15:00 summary = %+v, want dinner in 2 hours", afternoon)
	}

	// Past dinner the next peak is tomorrow's lunch: 3 hours to midnight
	// plus 11.
	late := e.PeakSummary(day.Add(21 * time.Hour))
	if late.NextPeakPeriod != domain.PeakLunch || late.HoursUntilPeak != 14 {
		t.Fatalf("21:00 summary = %+v, want lunch in 14 hours", late)
	}
}
