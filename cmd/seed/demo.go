package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"
)

type demoOptions struct {
	Stores   int
	SKUs     int
	Days     int
	RandSeed int64
}

type demoStats struct {
	Stores      int
	SKUs        int
	Days        int
	Snapshots   int
	SalesRows   int
	HourlyRows  int
	Receipts    int
	ShrinkSpots int
	CycleCounts int
	Drafts      int
	Telemetry   int
}

type storeSeed struct {
	Name     string
	Location string
	Lat      float64
	Lon      float64
}

var storeSeeds = []storeSeed{
	{"Atlanta Store", "Atlanta, GA", 33.7490, -84.3880},
	{"Boston Store", "Boston, MA", 42.3601, -71.0589},
	{"Chicago Store", "Chicago, IL", 41.8781, -87.6298},
	{"Denver Store", "Denver, CO", 39.7392, -104.9903},
	{"Seattle Store", "Seattle, WA", 47.6062, -122.3321},
}

type categorySeed struct {
	Name       string
	Count      int
	MinDemand  float64
	MaxDemand  float64
	Perishable bool
	Hourly     bool
	BaseNames  []string
}

// Hot grab-and-go categories also get hourly sales so the intraday
// forecaster has an observed curve to learn from.
var categorySeeds = []categorySeed{
	{"Beverages", 40, 5, 15, false, true, []string{"Coca-Cola 12pk", "Pepsi 12pk", "Orange Juice 64oz", "Water 24pk", "Energy Drink"}},
	{"Snacks", 35, 4, 12, false, true, []string{"Potato Chips", "Pretzels", "Cookies", "Crackers", "Candy Bar"}},
	{"Dairy", 25, 3, 10, true, false, []string{"Milk 1gal", "Yogurt 6pk", "Cheese Block", "Butter 1lb", "Eggs Dozen"}},
	{"Produce", 20, 2, 8, true, false, []string{"Bananas", "Apples", "Lettuce", "Tomatoes", "Carrots"}},
	{"Frozen", 20, 2, 6, false, false, []string{"Ice Cream", "Frozen Pizza", "Frozen Vegetables", "Frozen Chicken", "Frozen Fries"}},
	{"Bakery", 15, 3, 9, true, true, []string{"Bread Wheat", "Bread White", "Bagels", "Muffins", "Donuts"}},
	{"Meat", 15, 2, 7, true, false, []string{"Ground Beef", "Chicken Breast", "Pork Chops", "Steak", "Bacon"}},
	{"Household", 30, 1, 5, false, false, []string{"Paper Towels", "Toilet Paper", "Dish Soap", "Laundry Detergent", "Trash Bags"}},
}

var skuBrands = []string{"Brand A", "Brand B", "Brand C", "Generic"}

const (
	openHour        = 6
	closeHour       = 22
	transferCostKm  = 0.05
	hourlyLookback  = 56 // days of hourly rows, 8 weeks
	countCoverage   = 0.2
	shrinkTargets   = 15
	draftCandidates = 20
)

var peakHours = map[int]bool{11: true, 12: true, 13: true, 17: true, 18: true, 19: true}

type demoSKU struct {
	ID         int64
	Category   string
	BaseDemand float64
	Hourly     bool
}

func seedDemoData(ctx context.Context, tx *sql.Tx, opts demoOptions) (demoStats, error) {
	r := rand.New(rand.NewSource(opts.RandSeed))
	stats := demoStats{Days: opts.Days}

	log.Println("Clearing existing data...")
	if _, err := tx.ExecContext(ctx, `
		TRUNCATE telemetry, cycle_counts, transfers, receipts_daily,
			sales_hourly, sales_daily, inventory_snapshots,
			store_distances, skus, stores
		RESTART IDENTITY CASCADE
	`); err != nil {
		return stats, fmt.Errorf("failed to clear tables: %w", err)
	}

	storeIDs, err := seedStores(ctx, tx, opts.Stores)
	if err != nil {
		return stats, err
	}
	stats.Stores = len(storeIDs)

	if err := seedStoreDistances(ctx, tx, storeIDs); err != nil {
		return stats, err
	}

	skus, err := seedSKUs(ctx, tx, r, opts.SKUs)
	if err != nil {
		return stats, err
	}
	stats.SKUs = len(skus)

	if err := seedHistory(ctx, tx, r, storeIDs, skus, opts.Days, &stats); err != nil {
		return stats, err
	}

	if err := seedShrink(ctx, tx, r, storeIDs, skus, opts.Days, &stats); err != nil {
		return stats, err
	}

	if err := seedCycleCounts(ctx, tx, r, storeIDs, skus, opts.Days, &stats); err != nil {
		return stats, err
	}

	if err := seedDraftTransfers(ctx, tx, r, storeIDs, skus, &stats); err != nil {
		return stats, err
	}

	if err := seedTelemetry(ctx, tx, r, storeIDs, &stats); err != nil {
		return stats, err
	}

	return stats, nil
}

func seedStores(ctx context.Context, tx *sql.Tx, count int) ([]int64, error) {
	if count > len(storeSeeds) {
		count = len(storeSeeds)
	}
	log.Printf("Creating %d stores...", count)

	ids := make([]int64, 0, count)
	for _, s := range storeSeeds[:count] {
		var id int64
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO stores (name, location, lat, lon)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, s.Name, s.Location, s.Lat, s.Lon).Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to insert store %s: %w", s.Name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func seedStoreDistances(ctx context.Context, tx *sql.Tx, storeIDs []int64) error {
	log.Println("Calculating store distances...")

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO store_distances (from_store_id, to_store_id, distance_km, transfer_cost)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare distance insert: %w", err)
	}
	defer stmt.Close()

	for i, from := range storeIDs {
		for j, to := range storeIDs {
			if i == j {
				continue
			}
			km := haversineKm(
				storeSeeds[i].Lat, storeSeeds[i].Lon,
				storeSeeds[j].Lat, storeSeeds[j].Lon,
			)
			km = math.Round(km*100) / 100
			cost := math.Round(km*transferCostKm*100) / 100
			if _, err := stmt.ExecContext(ctx, from, to, km, cost); err != nil {
				return fmt.Errorf("failed to insert distance %d->%d: %w", from, to, err)
			}
		}
	}
	return nil
}

func seedSKUs(ctx context.Context, tx *sql.Tx, r *rand.Rand, count int) ([]demoSKU, error) {
	log.Printf("Creating %d SKUs...", count)

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO skus (name, category, cost, price, is_perishable)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare sku insert: %w", err)
	}
	defer stmt.Close()

	skus := make([]demoSKU, 0, count)
	for _, cat := range categorySeeds {
		for i := 0; i < cat.Count && len(skus) < count; i++ {
			name := fmt.Sprintf("%s %s",
				cat.BaseNames[r.Intn(len(cat.BaseNames))],
				skuBrands[r.Intn(len(skuBrands))],
			)
			cost := math.Round((r.Float64()*19+1)*100) / 100
			price := math.Round(cost*(1.3+r.Float64()*0.7)*100) / 100

			var id int64
			if err := stmt.QueryRowContext(ctx, name, cat.Name, cost, price, cat.Perishable).Scan(&id); err != nil {
				return nil, fmt.Errorf("failed to insert sku %s: %w", name, err)
			}
			skus = append(skus, demoSKU{
				ID:         id,
				Category:   cat.Name,
				BaseDemand: cat.MinDemand + r.Float64()*(cat.MaxDemand-cat.MinDemand),
				Hourly:     cat.Hourly,
			})
		}
	}
	return skus, nil
}

// seedHistory walks each store/SKU pair day by day, selling against a
// running on-hand figure so snapshots, sales and receipts reconcile.
func seedHistory(ctx context.Context, tx *sql.Tx, r *rand.Rand, storeIDs []int64, skus []demoSKU, days int, stats *demoStats) error {
	log.Printf("Generating %d days of sales history...", days)

	salesStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sales_daily (store_id, sku_id, ts_date, qty_sold)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare sales insert: %w", err)
	}
	defer salesStmt.Close()

	receiptStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO receipts_daily (store_id, sku_id, ts_date, qty_received)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare receipt insert: %w", err)
	}
	defer receiptStmt.Close()

	snapshotStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO inventory_snapshots (store_id, sku_id, ts_date, on_hand)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot insert: %w", err)
	}
	defer snapshotStmt.Close()

	hourlyStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sales_hourly (store_id, sku_id, ts_datetime, hour_of_day, day_of_week, qty_sold)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare hourly insert: %w", err)
	}
	defer hourlyStmt.Close()

	today := time.Now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -days)

	for si, storeID := range storeIDs {
		// Some stores are simply busier.
		storeMultiplier := 1.0 + float64(si%3)*0.2

		for _, sku := range skus {
			onHand := 20 + r.Intn(81)
			demand := sku.BaseDemand * storeMultiplier

			for offset := 0; offset < days; offset++ {
				day := start.AddDate(0, 0, offset)
				weekday := day.Weekday()

				multiplier := 1.0
				if weekday == time.Saturday || weekday == time.Sunday {
					multiplier = 1.3
				}

				sold := int(demand * multiplier * (0.7 + r.Float64()*0.6))
				if sold > onHand {
					sold = onHand
				}
				if sold > 0 {
					if _, err := salesStmt.ExecContext(ctx, storeID, sku.ID, day, sold); err != nil {
						return fmt.Errorf("failed to insert sales row: %w", err)
					}
					stats.SalesRows++
					onHand -= sold
				}

				if r.Float64() < 0.15 {
					received := int(demand * (5 + r.Float64()*5))
					if _, err := receiptStmt.ExecContext(ctx, storeID, sku.ID, day, received); err != nil {
						return fmt.Errorf("failed to insert receipt row: %w", err)
					}
					stats.Receipts++
					onHand += received
				}

				if _, err := snapshotStmt.ExecContext(ctx, storeID, sku.ID, day, onHand); err != nil {
					return fmt.Errorf("failed to insert snapshot row: %w", err)
				}
				stats.Snapshots++

				if sku.Hourly && days-offset <= hourlyLookback && sold > 0 {
					n, err := spreadHourly(ctx, hourlyStmt, r, storeID, sku.ID, day, sold)
					if err != nil {
						return err
					}
					stats.HourlyRows += n
				}
			}
		}
	}

	log.Println("Sales history generated")
	return nil
}

// spreadHourly splits one day's sales over the open hours with extra
// weight on the lunch and dinner windows.
func spreadHourly(ctx context.Context, stmt *sql.Stmt, r *rand.Rand, storeID, skuID int64, day time.Time, sold int) (int, error) {
	weights := make([]float64, 0, closeHour-openHour)
	var total float64
	for h := openHour; h < closeHour; h++ {
		w := 1.0
		if peakHours[h] {
			w = 2.2
		}
		w *= 0.8 + r.Float64()*0.4
		weights = append(weights, w)
		total += w
	}

	rows := 0
	remaining := sold
	for i, w := range weights {
		hour := openHour + i
		qty := int(math.Round(float64(sold) * w / total))
		if qty > remaining {
			qty = remaining
		}
		if i == len(weights)-1 {
			qty = remaining
		}
		if qty == 0 {
			continue
		}
		remaining -= qty

		ts := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC)
		if _, err := stmt.ExecContext(ctx, storeID, skuID, ts, hour, int(day.Weekday()), qty); err != nil {
			return rows, fmt.Errorf("failed to insert hourly row: %w", err)
		}
		rows++
	}
	return rows, nil
}

// seedShrink carves unexplained drops into recent snapshots. The drop
// persists forward so the book quantity stays wrong until a count fixes
// it, which is what the anomaly detector looks for.
func seedShrink(ctx context.Context, tx *sql.Tx, r *rand.Rand, storeIDs []int64, skus []demoSKU, days int, stats *demoStats) error {
	log.Println("Injecting shrink events...")

	today := time.Now().UTC().Truncate(24 * time.Hour)

	apply := func(storeID, skuID int64, day time.Time, drop int) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE inventory_snapshots
			SET on_hand = GREATEST(on_hand - $4, 0)
			WHERE store_id = $1 AND sku_id = $2 AND ts_date >= $3
		`, storeID, skuID, day, drop)
		if err != nil {
			return fmt.Errorf("failed to apply shrink: %w", err)
		}
		return nil
	}

	recent := days - 30
	if recent < 0 {
		recent = 0
	}

	for i := 0; i < shrinkTargets; i++ {
		storeID := storeIDs[r.Intn(len(storeIDs))]
		sku := skus[r.Intn(len(skus))]
		day := today.AddDate(0, 0, -(1 + r.Intn(days-recent)))
		if err := apply(storeID, sku.ID, day, 5+r.Intn(16)); err != nil {
			return err
		}
		stats.ShrinkSpots++
	}

	// One pair gets a weekly cadence, enough events for the pattern
	// detector to flag systematic shrink.
	storeID := storeIDs[0]
	sku := skus[r.Intn(len(skus))]
	back := (int(today.Weekday()) + 6) % 7
	if back == 0 {
		back = 7
	}
	monday := today.AddDate(0, 0, -back)
	for week := 0; week < 5; week++ {
		day := monday.AddDate(0, 0, -7*week)
		if err := apply(storeID, sku.ID, day, 6+r.Intn(7)); err != nil {
			return err
		}
		stats.ShrinkSpots++
	}

	return nil
}

func seedCycleCounts(ctx context.Context, tx *sql.Tx, r *rand.Rand, storeIDs []int64, skus []demoSKU, days int, stats *demoStats) error {
	log.Println("Generating cycle counts...")

	today := time.Now().UTC().Truncate(24 * time.Hour)
	perStore := int(float64(len(skus)) * countCoverage)

	for _, storeID := range storeIDs {
		for _, idx := range r.Perm(len(skus))[:perStore] {
			sku := skus[idx]
			day := today.AddDate(0, 0, -r.Intn(days))

			var onHand int
			err := tx.QueryRowContext(ctx, `
				SELECT on_hand FROM inventory_snapshots
				WHERE store_id = $1 AND sku_id = $2 AND ts_date = $3
			`, storeID, sku.ID, day).Scan(&onHand)
			if err == sql.ErrNoRows {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to look up snapshot for count: %w", err)
			}

			counted := onHand + r.Intn(7) - 3
			if counted < 0 {
				counted = 0
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO cycle_counts (store_id, sku_id, ts_date, counted_qty)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (store_id, sku_id, ts_date) DO UPDATE SET counted_qty = EXCLUDED.counted_qty
			`, storeID, sku.ID, day, counted); err != nil {
				return fmt.Errorf("failed to insert cycle count: %w", err)
			}
			stats.CycleCounts++
		}
	}
	return nil
}

// seedDraftTransfers creates drafts for SKUs whose stock is clearly
// imbalanced across the network, mirroring what the recommender would
// propose.
func seedDraftTransfers(ctx context.Context, tx *sql.Tx, r *rand.Rand, storeIDs []int64, skus []demoSKU, stats *demoStats) error {
	log.Println("Creating draft transfers...")

	tomorrow := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)

	candidates := draftCandidates
	if candidates > len(skus) {
		candidates = len(skus)
	}

	for _, idx := range r.Perm(len(skus))[:candidates] {
		sku := skus[idx]

		type level struct {
			storeID int64
			onHand  int
		}
		levels := make([]level, 0, len(storeIDs))
		for _, storeID := range storeIDs {
			var onHand int
			err := tx.QueryRowContext(ctx, `
				SELECT on_hand FROM inventory_snapshots
				WHERE store_id = $1 AND sku_id = $2
				ORDER BY ts_date DESC LIMIT 1
			`, storeID, sku.ID).Scan(&onHand)
			if err == sql.ErrNoRows {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to look up latest on-hand: %w", err)
			}
			levels = append(levels, level{storeID, onHand})
		}
		if len(levels) < 2 {
			continue
		}

		lo, hi := levels[0], levels[0]
		for _, l := range levels[1:] {
			if l.onHand < lo.onHand {
				lo = l
			}
			if l.onHand > hi.onHand {
				hi = l
			}
		}
		if hi.onHand < lo.onHand*3 || hi.onHand < 8 {
			continue
		}

		qty := hi.onHand / 4
		if qty > 20 {
			qty = 20
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO transfers (from_store_id, to_store_id, sku_id, qty, status, requested_for)
			VALUES ($1, $2, $3, $4, 'draft', $5)
			ON CONFLICT DO NOTHING
		`, hi.storeID, lo.storeID, sku.ID, qty, tomorrow); err != nil {
			return fmt.Errorf("failed to insert draft transfer: %w", err)
		}
		stats.Drafts++
	}
	return nil
}

func seedTelemetry(ctx context.Context, tx *sql.Tx, r *rand.Rand, storeIDs []int64, stats *demoStats) error {
	log.Println("Generating telemetry readings...")

	sensors := []struct {
		name string
		unit string
		base float64
		jit  float64
	}{
		{"cooler_temp", "C", 3.5, 1.0},
		{"freezer_temp", "C", -18.0, 1.5},
		{"footfall", "count", 40, 25},
	}

	now := time.Now().UTC()
	for _, storeID := range storeIDs {
		for _, s := range sensors {
			for h := 24; h > 0; h-- {
				value := s.base + (r.Float64()*2-1)*s.jit
				value = math.Round(value*10) / 10
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO telemetry (store_id, sensor, value, unit, ts_datetime)
					VALUES ($1, $2, $3, $4, $5)
				`, storeID, s.name, value, s.unit, now.Add(-time.Duration(h)*time.Hour)); err != nil {
					return fmt.Errorf("failed to insert telemetry: %w", err)
				}
				stats.Telemetry++
			}
		}
	}
	return nil
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
