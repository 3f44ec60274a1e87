package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/shelfsense/backend/internal/domain"
)

// defaultDistanceKm stands in when neither a recorded distance nor store
// coordinates are available for a pair.
const defaultDistanceKm = 50.0

// StoreCoverage is one store's position for a single SKU: how much it holds
// and how fast it sells.
type StoreCoverage struct {
	Store       domain.Store
	SKUID       int64
	SKUName     string
	OnHand      int
	DailyDemand float64
}

// DistanceMatrix resolves inter-store distances and haulage costs,
// preferring recorded pairs and falling back to great-circle distance from
// store coordinates.
type DistanceMatrix struct {
	pairs map[[2]int64]storePair
}

type storePair struct {
	km      float64
	cost    float64
	hasCost bool
}

// NewDistanceMatrix builds a lookup from recorded store distances. Pairs are
// stored symmetrically.
func NewDistanceMatrix(distances []domain.StoreDistance) *DistanceMatrix {
	pairs := make(map[[2]int64]storePair, len(distances)*2)
	for _, d := range distances {
		p := storePair{km: d.DistanceKm}
		if d.TransferCost != nil {
			p.cost = *d.TransferCost
			p.hasCost = *d.TransferCost > 0
		}
		pairs[[2]int64{d.FromStoreID, d.ToStoreID}] = p
		pairs[[2]int64{d.ToStoreID, d.FromStoreID}] = p
	}
	return &DistanceMatrix{pairs: pairs}
}

// Between returns the distance in km between two stores.
func (m *DistanceMatrix) Between(from, to domain.Store) float64 {
	if m != nil {
		if p, ok := m.pairs[[2]int64{from.ID, to.ID}]; ok {
			return p.km
		}
	}
	if from.Lat != nil && from.Lon != nil && to.Lat != nil && to.Lon != nil {
		return haversineKm(*from.Lat, *from.Lon, *to.Lat, *to.Lon)
	}
	return defaultDistanceKm
}

// Cost returns the haulage cost for a pair: the recorded cost when one is on
// file, otherwise the distance priced at perKmRate.
func (m *DistanceMatrix) Cost(from, to domain.Store, perKmRate float64) float64 {
	if m != nil {
		if p, ok := m.pairs[[2]int64{from.ID, to.ID}]; ok && p.hasCost {
			return p.cost
		}
	}
	return m.Between(from, to) * perKmRate
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// donorState tracks a donor's remaining stock as the plan is built.
type donorState struct {
	StoreCoverage
	onHand int
}

// RecommendTransfers balances one SKU across stores. Stores below the target
// cover receive, stores above it donate, and a donor is never drawn below its
// own safety floor. Receivers are served most-urgent first; each receiver may
// draw from several donors when no single donor can cover the need. Output
// order is by urgency descending, so re-running on unchanged data yields the
// same plan.
func (e *Engine) RecommendTransfers(stores []StoreCoverage, dist *DistanceMatrix) []domain.TransferRecommendation {
	target := e.cfg.TargetCoverDays + e.cfg.SafetyBufferDays

	var receivers []StoreCoverage
	var donors []*donorState
	for _, s := range stores {
		cover := e.DaysOfCover(s.OnHand, s.DailyDemand)
		switch {
		case cover < target && s.DailyDemand > 0:
			receivers = append(receivers, s)
		case cover > target:
			donors = append(donors, &donorState{StoreCoverage: s, onHand: s.OnHand})
		}
	}
	if len(receivers) == 0 || len(donors) == 0 {
		return nil
	}

	sort.Slice(receivers, func(i, j int) bool {
		ui, uj := e.transferUrgency(receivers[i], target), e.transferUrgency(receivers[j], target)
		if ui != uj {
			return ui > uj
		}
		return receivers[i].Store.ID < receivers[j].Store.ID
	})

	var recs []domain.TransferRecommendation
	for _, r := range receivers {
		urgency := e.transferUrgency(r, target)
		if urgency < e.cfg.MinUrgency {
			continue
		}

		need := int(math.Ceil(target*r.DailyDemand)) - r.OnHand
		if maxQty := int(math.Ceil(e.cfg.MaxTransferDays * r.DailyDemand)); need > maxQty {
			need = maxQty
		}

		received := 0
		for need > 0 {
			d := e.pickDonor(donors, r, target, dist)
			if d == nil {
				break
			}

			qty := need
			if surplus := donorSurplus(d.onHand, d.DailyDemand, target); qty > surplus {
				qty = surplus
			}
			floor := int(math.Ceil(e.cfg.MinDonorCoverDays * d.DailyDemand))
			if spare := d.onHand - floor; qty > spare {
				qty = spare
			}
			if qty <= 0 {
				break
			}

			km := dist.Between(d.Store, r.Store)
			cost := dist.Cost(d.Store, r.Store, e.cfg.PerKmRate)
			receiverBefore := e.DaysOfCover(r.OnHand+received, r.DailyDemand)
			donorBefore := e.DaysOfCover(d.onHand, d.DailyDemand)
			d.onHand -= qty
			received += qty
			need -= qty

			recs = append(recs, domain.TransferRecommendation{
				FromStoreID:        d.Store.ID,
				FromStoreName:      d.Store.Name,
				ToStoreID:          r.Store.ID,
				ToStoreName:        r.Store.Name,
				SKUID:              r.SKUID,
				SKUName:            r.SKUName,
				Qty:                qty,
				UrgencyScore:       round2(urgency),
				Rationale:          transferRationale(r, d.Store.Name, qty, receiverBefore, target),
				DistanceKm:         round1(km),
				TransferCost:       round2(cost),
				ReceiverDaysBefore: receiverBefore,
				ReceiverDaysAfter:  e.DaysOfCover(r.OnHand+received, r.DailyDemand),
				DonorDaysBefore:    donorBefore,
				DonorDaysAfter:     e.DaysOfCover(d.onHand, d.DailyDemand),
			})
		}
	}

	return recs
}

// transferUrgency grows linearly as cover falls below target: 0 at target
// cover, 1 at zero cover. Continuous so receivers rank strictly by shortfall.
func (e *Engine) transferUrgency(s StoreCoverage, target float64) float64 {
	u := 1 - e.DaysOfCover(s.OnHand, s.DailyDemand)/target
	return math.Min(math.Max(u, 0), 1)
}

// pickDonor scores each donor by spare surplus discounted by distance, so a
// nearby moderate surplus beats a distant large one. Ties fall back to
// transfer cost ascending, then store id, keeping selection deterministic.
func (e *Engine) pickDonor(donors []*donorState, r StoreCoverage, target float64, dist *DistanceMatrix) *donorState {
	var best *donorState
	var bestScore, bestCost float64

	for _, d := range donors {
		surplus := donorSurplus(d.onHand, d.DailyDemand, target)
		floor := int(math.Ceil(e.cfg.MinDonorCoverDays * d.DailyDemand))
		if surplus <= 0 || d.onHand <= floor {
			continue
		}

		km := dist.Between(d.Store, r.Store)
		cost := dist.Cost(d.Store, r.Store, e.cfg.PerKmRate)
		score := float64(surplus) / (1 + km/100)
		switch {
		case best == nil,
			score > bestScore,
			score == bestScore && cost < bestCost,
			score == bestScore && cost == bestCost && d.Store.ID < best.Store.ID:
			best, bestScore, bestCost = d, score, cost
		}
	}

	return best
}

func donorSurplus(onHand int, dailyDemand, target float64) int {
	s := onHand - int(math.Ceil(target*dailyDemand))
	if s < 0 {
		return 0
	}
	return s
}

func transferRationale(r StoreCoverage, donorName string, qty int, coverBefore, target float64) string {
	return fmt.Sprintf("%s has %.1f days of cover against a %.1f day target; transfer %d units from %s to close the gap",
		r.Store.Name, coverBefore, target, qty, donorName)
}

// Summarize rolls a recommendation set up for the dashboard. Savings assume
// each high-urgency transfer averts one stockout event, net of haulage.
func (e *Engine) Summarize(recs []domain.TransferRecommendation) domain.TransferSummary {
	s := domain.TransferSummary{TotalOpportunities: len(recs)}

	var savings float64
	for _, r := range recs {
		s.TotalUnits += r.Qty
		switch {
		case r.UrgencyScore >= 0.8:
			s.HighUrgency++
			if net := e.cfg.StockoutSavings - r.TransferCost; net > 0 {
				savings += net
			}
		case r.UrgencyScore >= 0.5:
			s.MediumUrgency++
		default:
			s.LowUrgency++
		}
	}
	s.EstimatedSavings = round2(savings)

	return s
}
