package analytics

import (
	"testing"
	"time"

	"github.com/shelfsense/backend/internal/domain"
)

func prepItems(e *Engine, now time.Time) []PrepItem {
	curve := busyDayCurve(e)
	return []PrepItem{
		{
			SKUID: 11, SKUName: "Beef Rendang", Category: "hot_food",
			OnHand:     30,
			Curve:      curve,
			Prediction: e.PredictStockout(30, curve, now),
		},
		{
			SKUID: 12, SKUName: "Iced Tea", Category: "beverages",
			OnHand:     35,
			Curve:      curve,
			Prediction: e.PredictStockout(35, curve, now),
		},
		{
			SKUID: 13, SKUName: "Mineral Water", Category: "beverages",
			OnHand:     500,
			Curve:      curve,
			Prediction: e.PredictStockout(500, curve, now),
		},
	}
}

func TestPrepScheduleBuildsOrderedTasks(t *testing.T) {
	e := newTestEngine()
	open := time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC)

	tasks := e.PrepSchedule(prepItems(e, open), open)

	// The well-stocked SKU contributes no task.
	if len(tasks) != 2 {
		t.Fatalf("tasks = %d, want 2:\n%+v", len(tasks), tasks)
	}

	// Rendang stocks out 13:30 during lunch: prep by 11:30, covering the
	// rest of the lunch window.
	rendang := tasks[0]
	if rendang.SKUID != 11 {
		t.Fatalf("first task is SKU %d, want the earlier deadline (11)", rendang.SKUID)
	}
	wantPrepBy := time.Date(2026, 8, 31, 11, 30, 0, 0, time.UTC)
	if !rendang.PrepBy.Equal(wantPrepBy) {
		t.Fatalf("PrepBy = %v, want %v", rendang.PrepBy, wantPrepBy)
	}
	if !rendang.IsPeakStockout {
		t.Fatalf("lunch stockout not flagged as peak")
	}
	if rendang.Priority != domain.PriorityHigh {
		t.Fatalf("Priority = %q, want high for a peak stockout with lead time to spare", rendang.Priority)
	}
	// Hour 13 demand of 8 with the 10 percent buffer.
	if rendang.QtyToPrep != 9 {
		t.Fatalf("QtyToPrep = %d, want 9", rendang.QtyToPrep)
	}
	if rendang.Overdue {
		t.Fatalf("task due 11:30 flagged overdue at 06:00")
	}

	// Iced tea stocks out 14:30 off peak: prep by 12:30, two-hour window.
	tea := tasks[1]
	if tea.SKUID != 12 {
		t.Fatalf("second task is SKU %d, want 12", tea.SKUID)
	}
	if got := time.Date(2026, 8, 31, 12, 30, 0, 0, time.UTC); !tea.PrepBy.Equal(got) {
		t.Fatalf("PrepBy = %v, want %v", tea.PrepBy, got)
	}
	// Hours 14 and 15 at 2 each, buffered: ceil(4.4).
	if tea.QtyToPrep != 5 {
		t.Fatalf("QtyToPrep = %d, want 5", tea.QtyToPrep)
	}
	if tea.Priority != domain.PriorityLow {
		t.Fatalf("Priority = %q, want low", tea.Priority)
	}
}

func TestPrepScheduleSurfacesOverdueTasks(t *testing.T) {
	e := newTestEngine()
	open := time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC)
	noon := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	// Predictions made at open, schedule regenerated at noon: the 11:30
	// deadline has passed but the task must survive, escalated.
	tasks := e.PrepSchedule(prepItems(e, open), noon)
	if len(tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(tasks))
	}

	rendang := tasks[0]
	if !rendang.Overdue {
		t.Fatalf("missed 11:30 deadline not flagged overdue at noon")
	}
	if rendang.Priority != domain.PriorityCritical {
		t.Fatalf("Priority = %q, want critical for an overdue peak task", rendang.Priority)
	}
}

func TestPrepScheduleEmptyWhenNothingAtRisk(t *testing.T) {
	e := newTestEngine()
	now := time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC)
	curve := busyDayCurve(e)

	items := []PrepItem{{
		SKUID: 13, OnHand: 500, Curve: curve,
		Prediction: e.PredictStockout(500, curve, now),
	}}

	if tasks := e.PrepSchedule(items, now); len(tasks) != 0 {
		t.Fatalf("no at-risk items but got %+v", tasks)
	}
}
