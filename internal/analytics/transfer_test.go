package analytics

import (
	"math"
	"testing"

	"github.com/shelfsense/backend/internal/domain"
)

func ptrFloat(v float64) *float64 { return &v }

// transferTestEngine tightens the balancing policy to a 5-day target with no
// extra buffer so the arithmetic below stays easy to follow by hand.
func transferTestEngine() *Engine {
	cfg := testEngineConfig()
	cfg.TargetCoverDays = 5
	cfg.SafetyBufferDays = 0
	return NewEngine(cfg)
}

func fiveStoreNetwork() ([]StoreCoverage, *DistanceMatrix) {
	stores := []StoreCoverage{
		{Store: domain.Store{ID: 1, Name: "Alpha"}, SKUID: 7, SKUName: "Croissant", OnHand: 1, DailyDemand: 2},
		{Store: domain.Store{ID: 2, Name: "Bravo"}, SKUID: 7, SKUName: "Croissant", OnHand: 4, DailyDemand: 4},
		{Store: domain.Store{ID: 3, Name: "Charlie"}, SKUID: 7, SKUName: "Croissant", OnHand: 80, DailyDemand: 10},
		{Store: domain.Store{ID: 4, Name: "Delta"}, SKUID: 7, SKUName: "Croissant", OnHand: 4, DailyDemand: 2},
		{Store: domain.Store{ID: 5, Name: "Echo"}, SKUID: 7, SKUName: "Croissant", OnHand: 60, DailyDemand: 10},
	}
	dist := NewDistanceMatrix([]domain.StoreDistance{
		{FromStoreID: 3, ToStoreID: 1, DistanceKm: 10},
		{FromStoreID: 3, ToStoreID: 2, DistanceKm: 10},
		{FromStoreID: 3, ToStoreID: 4, DistanceKm: 200},
		{FromStoreID: 5, ToStoreID: 1, DistanceKm: 150},
		{FromStoreID: 5, ToStoreID: 2, DistanceKm: 150},
		{FromStoreID: 5, ToStoreID: 4, DistanceKm: 1},
	})
	return stores, dist
}

func TestRecommendTransfersBalancesNetwork(t *testing.T) {
	e := transferTestEngine()
	stores, dist := fiveStoreNetwork()

	recs := e.RecommendTransfers(stores, dist)
	if len(recs) != 3 {
		t.Fatalf("recommendations = %d, want 3:\n%+v", len(recs), recs)
	}

	// Most urgent receiver first, each paired with the best-scoring donor:
	// Charlie serves the nearby Alpha and Bravo, Echo serves next-door Delta.
	type move struct {
		from, to int64
		qty      int
	}
	want := []move{{3, 1, 9}, {3, 2, 16}, {5, 4, 6}}
	for i, w := range want {
		r := recs[i]
		if r.FromStoreID != w.from || r.ToStoreID != w.to || r.Qty != w.qty {
			t.Fatalf("rec %d = %d->%d qty %d, want %d->%d qty %d",
				i, r.FromStoreID, r.ToStoreID, r.Qty, w.from, w.to, w.qty)
		}
	}

	wantUrgency := []float64{0.9, 0.8, 0.6}
	for i, u := range wantUrgency {
		if !almostEqual(recs[i].UrgencyScore, u) {
			t.Fatalf("rec %d urgency = %v, want %v", i, recs[i].UrgencyScore, u)
		}
	}

	for _, r := range recs {
		if r.DonorDaysAfter < e.cfg.MinDonorCoverDays {
			t.Fatalf("donor %d drawn to %v days, below the %v floor",
				r.FromStoreID, r.DonorDaysAfter, e.cfg.MinDonorCoverDays)
		}
		if r.ReceiverDaysAfter <= r.ReceiverDaysBefore {
			t.Fatalf("receiver %d not improved: %v -> %v",
				r.ToStoreID, r.ReceiverDaysBefore, r.ReceiverDaysAfter)
		}
	}

	// Alpha ends exactly at target cover.
	if !almostEqual(recs[0].ReceiverDaysAfter, 5) {
		t.Fatalf("Alpha after = %v days, want 5", recs[0].ReceiverDaysAfter)
	}
}

func TestRecommendTransfersSkipsMildShortfall(t *testing.T) {
	e := transferTestEngine()

	// 3 of 5 target days is urgency 0.4, under the 0.5 bar.
	stores := []StoreCoverage{
		{Store: domain.Store{ID: 1, Name: "Alpha"}, SKUID: 7, OnHand: 6, DailyDemand: 2},
		{Store: domain.Store{ID: 3, Name: "Charlie"}, SKUID: 7, OnHand: 80, DailyDemand: 10},
	}

	if recs := e.RecommendTransfers(stores, NewDistanceMatrix(nil)); len(recs) != 0 {
		t.Fatalf("mild shortfall produced transfers: %+v", recs)
	}
}

func TestRecommendTransfersNoDonors(t *testing.T) {
	e := transferTestEngine()

	stores := []StoreCoverage{
		{Store: domain.Store{ID: 1}, SKUID: 7, OnHand: 1, DailyDemand: 2},
		{Store: domain.Store{ID: 2}, SKUID: 7, OnHand: 2, DailyDemand: 4},
	}

	if recs := e.RecommendTransfers(stores, NewDistanceMatrix(nil)); recs != nil {
		t.Fatalf("no donors available but got %+v", recs)
	}
}

func TestRecommendTransfersDeterministic(t *testing.T) {
	e := transferTestEngine()

	for run := 0; run < 3; run++ {
		stores, dist := fiveStoreNetwork()
		recs := e.RecommendTransfers(stores, dist)
		if len(recs) != 3 || recs[0].ToStoreID != 1 || recs[1].ToStoreID != 2 || recs[2].ToStoreID != 4 {
			t.Fatalf("run %d produced a different plan: %+v", run, recs)
		}
	}
}

func TestSummarize(t *testing.T) {
	e := transferTestEngine()
	stores, dist := fiveStoreNetwork()

	s := e.Summarize(e.RecommendTransfers(stores, dist))

	if s.TotalOpportunities != 3 || s.TotalUnits != 31 {
		t.Fatalf("summary = %+v, want 3 opportunities over 31 units", s)
	}
	if s.HighUrgency != 2 || s.MediumUrgency != 1 || s.LowUrgency != 0 {
		t.Fatalf("urgency split = %d/%d/%d, want 2/1/0",
			s.HighUrgency, s.MediumUrgency, s.LowUrgency)
	}
	// Two high-urgency moves at 10km each: (50 - 15) * 2.
	if !almostEqual(s.EstimatedSavings, 70) {
		t.Fatalf("EstimatedSavings = %v, want 70", s.EstimatedSavings)
	}
}

func TestDistanceMatrixFallbacks(t *testing.T) {
	m := NewDistanceMatrix([]domain.StoreDistance{
		{FromStoreID: 1, ToStoreID: 2, DistanceKm: 12.5},
	})

	a := domain.Store{ID: 1}
	b := domain.Store{ID: 2}
	if got := m.Between(b, a); !almostEqual(got, 12.5) {
		t.Fatalf("recorded pair (reversed) = %v, want 12.5", got)
	}

	// Jakarta to Bandung is roughly 120km great-circle.
	lat1, lon1 := -6.2088, 106.8456
	lat2, lon2 := -6.9175, 107.6191
	c := domain.Store{ID: 3, Lat: &lat1, Lon: &lon1}
	d := domain.Store{ID: 4, Lat: &lat2, Lon: &lon2}
	got := m.Between(c, d)
	if math.Abs(got-120) > 10 {
		t.Fatalf("haversine distance = %v, want ~120km", got)
	}

	// No record, no coordinates: the conservative default.
	if got := m.Between(domain.Store{ID: 5}, domain.Store{ID: 6}); got != defaultDistanceKm {
		t.Fatalf("unknown pair = %v, want default %v", got, defaultDistanceKm)
	}
}

func TestDistanceMatrixCost(t *testing.T) {
	m := NewDistanceMatrix([]domain.StoreDistance{
		{FromStoreID: 1, ToStoreID: 2, DistanceKm: 10, TransferCost: ptrFloat(4.25)},
		{FromStoreID: 1, ToStoreID: 3, DistanceKm: 20},
	})

	a := domain.Store{ID: 1}
	b := domain.Store{ID: 2}
	c := domain.Store{ID: 3}

	// A recorded cost wins over distance pricing, in both directions.
	if got := m.Cost(a, b, 1.5); !almostEqual(got, 4.25) {
		t.Fatalf("recorded cost = %v, want 4.25", got)
	}
	if got := m.Cost(b, a, 1.5); !almostEqual(got, 4.25) {
		t.Fatalf("recorded cost (reversed) = %v, want 4.25", got)
	}

	// No cost on file: fall back to distance at the per-km rate.
	if got := m.Cost(a, c, 1.5); !almostEqual(got, 30) {
		t.Fatalf("priced cost = %v, want 20km * 1.5", got)
	}
	if got := m.Cost(domain.Store{ID: 5}, domain.Store{ID: 6}, 1.5); !almostEqual(got, defaultDistanceKm*1.5) {
		t.Fatalf("unknown pair cost = %v, want default distance * 1.5", got)
	}
}

func TestRecommendTransfersUsesRecordedCost(t *testing.T) {
	e := transferTestEngine()

	stores := []StoreCoverage{
		{Store: domain.Store{ID: 1, Name: "Alpha"}, SKUID: 7, SKUName: "Croissant", OnHand: 1, DailyDemand: 2},
		{Store: domain.Store{ID: 3, Name: "Charlie"}, SKUID: 7, SKUName: "Croissant", OnHand: 80, DailyDemand: 10},
	}
	dist := NewDistanceMatrix([]domain.StoreDistance{
		{FromStoreID: 3, ToStoreID: 1, DistanceKm: 10, TransferCost: ptrFloat(4.25)},
	})

	recs := e.RecommendTransfers(stores, dist)
	if len(recs) != 1 {
		t.Fatalf("recommendations = %d, want 1:\n%+v", len(recs), recs)
	}
	if !almostEqual(recs[0].TransferCost, 4.25) {
		t.Fatalf("TransferCost = %v, want the recorded 4.25 over 10km * rate", recs[0].TransferCost)
	}
	if !almostEqual(recs[0].DistanceKm, 10) {
		t.Fatalf("DistanceKm = %v, want 10", recs[0].DistanceKm)
	}
}
