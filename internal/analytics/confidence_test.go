package analytics

import (
	"testing"
	"time"

	"github.com/shelfsense/backend/internal/domain"
)

var scoreAsOf = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	d := scoreAsOf.AddDate(0, 0, -n)
	return &d
}

func TestScoreConfidenceCleanItem(t *testing.T) {
	e := newTestEngine()

	r := e.ScoreConfidence(ConfidenceInput{
		LastCounted: daysAgo(2),
		AsOf:        scoreAsOf,
	})

	if r.Score != 100 {
		t.Fatalf("Score = %v, want 100 for a clean recently counted item", r.Score)
	}
	if r.Grade != "A" {
		t.Fatalf("Grade = %q, want A", r.Grade)
	}
	if len(r.Deductions) != 0 {
		t.Fatalf("unexpected deductions: %v", r.Deductions)
	}
	if r.DaysSinceCount == nil || *r.DaysSinceCount != 2 {
		t.Fatalf("DaysSinceCount = %v, want 2", r.DaysSinceCount)
	}
}

func TestScoreConfidenceNeverCounted(t *testing.T) {
	e := newTestEngine()

	r := e.ScoreConfidence(ConfidenceInput{AsOf: scoreAsOf})

	if r.Score != 70 {
		t.Fatalf("Score = %v, want 70 (100 - 30 never counted)", r.Score)
	}
	if r.Grade != "C" {
		t.Fatalf("Grade = %q, want C", r.Grade)
	}
	if r.DaysSinceCount != nil {
		t.Fatalf("DaysSinceCount = %v, want nil", r.DaysSinceCount)
	}
}

func TestScoreConfidenceAnomalyDeductions(t *testing.T) {
	e := newTestEngine()

	// Two anomalies totaling 14 units: -10 for events, -7 for magnitude.
	r := e.ScoreConfidence(ConfidenceInput{
		Anomalies: []domain.Anomaly{
			{Residual: -8},
			{Residual: -6},
		},
		LastCounted: daysAgo(2),
		AsOf:        scoreAsOf,
	})

	if r.Score != 83 {
		t.Fatalf("Score = %v, want 83", r.Score)
	}
	if r.AnomalyCount != 2 {
		t.Fatalf("AnomalyCount = %d, want 2", r.AnomalyCount)
	}
	if len(r.Deductions) != 2 {
		t.Fatalf("deductions = %v, want 2 entries", r.Deductions)
	}
}

func TestScoreConfidenceDeductionCaps(t *testing.T) {
	e := newTestEngine()

	// 10 events of 50 units each would deduct 50 + 250 uncapped; the caps
	// hold it to 30 + 20.
	anomalies := make([]domain.Anomaly, 10)
	for i := range anomalies {
		anomalies[i] = domain.Anomaly{Residual: -50}
	}

	r := e.ScoreConfidence(ConfidenceInput{
		Anomalies:   anomalies,
		LastCounted: daysAgo(2),
		AsOf:        scoreAsOf,
	})

	if r.Score != 50 {
		t.Fatalf("Score = %v, want 50 with both caps hit", r.Score)
	}
}

func TestScoreConfidenceStalenessGrace(t *testing.T) {
	e := newTestEngine()

	within := e.ScoreConfidence(ConfidenceInput{LastCounted: daysAgo(14), AsOf: scoreAsOf})
	if within.Score != 100 {
		t.Fatalf("count at grace boundary scored %v, want 100", within.Score)
	}

	// 24 days: 10 past grace at 0.3/day.
	past := e.ScoreConfidence(ConfidenceInput{LastCounted: daysAgo(24), AsOf: scoreAsOf})
	if past.Score != 97 {
		t.Fatalf("Score = %v, want 97", past.Score)
	}
}

func TestScoreConfidencePerishable(t *testing.T) {
	e := newTestEngine()

	// Counted long ago: spoilage uncertainty applies on top of staleness.
	r := e.ScoreConfidence(ConfidenceInput{
		Perishable:  true,
		LastCounted: daysAgo(14),
		AsOf:        scoreAsOf,
	})
	if r.Score != 90 {
		t.Fatalf("Score = %v, want 90", r.Score)
	}

	// A count this week neutralizes the perishable deduction.
	fresh := e.ScoreConfidence(ConfidenceInput{
		Perishable:  true,
		LastCounted: daysAgo(3),
		AsOf:        scoreAsOf,
	})
	if fresh.Score != 100 {
		t.Fatalf("Score = %v, want 100 when counted recently", fresh.Score)
	}
}

func TestScoreConfidenceClampsAtZero(t *testing.T) {
	e := newTestEngine()

	anomalies := make([]domain.Anomaly, 20)
	for i := range anomalies {
		anomalies[i] = domain.Anomaly{Residual: -100}
	}

	r := e.ScoreConfidence(ConfidenceInput{
		Anomalies:  anomalies,
		Perishable: true,
		Pattern:    domain.AnomalyPattern{HasPattern: true},
		AsOf:       scoreAsOf,
	})

	// 30 + 20 + 30 + 10 + 15 = 105 in deductions.
	if r.Score != 0 {
		t.Fatalf("Score = %v, want clamp at 0", r.Score)
	}
	if r.Grade != "F" {
		t.Fatalf("Grade = %q, want F", r.Grade)
	}
	if !r.HasPattern {
		t.Fatalf("HasPattern not carried through")
	}
}

func TestScoreConfidenceMonotoneInAnomalies(t *testing.T) {
	e := newTestEngine()

	var prev = 101.0
	for n := 0; n <= 6; n++ {
		anomalies := make([]domain.Anomaly, n)
		for i := range anomalies {
			anomalies[i] = domain.Anomaly{Residual: -6}
		}
		r := e.ScoreConfidence(ConfidenceInput{
			Anomalies:   anomalies,
			LastCounted: daysAgo(1),
			AsOf:        scoreAsOf,
		})
		if r.Score > prev {
			t.Fatalf("score rose from %v to %v when anomalies grew to %d", prev, r.Score, n)
		}
		prev = r.Score
	}
}

func TestGradeForScore(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{95, "A"}, {90, "A"}, {85, "B"}, {75, "C"}, {65, "D"}, {10, "F"},
	}
	for _, c := range cases {
		if got := domain.GradeForScore(c.score); got != c.want {
			t.Fatalf("GradeForScore(%v) = %q, want %q", c.score, got, c.want)
		}
	}
}
