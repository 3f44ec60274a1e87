// internal/domain/models.go
package domain

import "time"

// Store represents a store location
type Store struct {
	ID       int64    `json:"id" db:"id"`
	Name     string   `json:"name" db:"name"`
	Location string   `json:"location" db:"location"`
	Lat      *float64 `json:"lat,omitempty" db:"lat"`
	Lon      *float64 `json:"lon,omitempty" db:"lon"`
}

// SKU represents a stock keeping unit
type SKU struct {
	ID           int64   `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	Category     string  `json:"category" db:"category"`
	Cost         float64 `json:"cost" db:"cost"`
	Price        float64 `json:"price" db:"price"`
	IsPerishable bool    `json:"is_perishable" db:"is_perishable"`
}

// InventorySnapshot is the recorded on-hand quantity for a store/SKU/day.
// Append-only; the latest row per key is the current state.
type InventorySnapshot struct {
	StoreID int64     `json:"store_id" db:"store_id"`
	SKUID   int64     `json:"sku_id" db:"sku_id"`
	TsDate  time.Time `json:"ts_date" db:"ts_date"`
	OnHand  int       `json:"on_hand" db:"on_hand"`
}

// SalesRecord is one day of recorded sales for a store/SKU
type SalesRecord struct {
	StoreID int64     `json:"store_id" db:"store_id"`
	SKUID   int64     `json:"sku_id" db:"sku_id"`
	TsDate  time.Time `json:"ts_date" db:"ts_date"`
	QtySold int       `json:"qty_sold" db:"qty_sold"`
}

// HourlySales is one hour of recorded sales. Hourly data is sparse: only
// some categories have it, and its absence is not an error.
type HourlySales struct {
	StoreID   int64     `json:"store_id" db:"store_id"`
	SKUID     int64     `json:"sku_id" db:"sku_id"`
	TsTime    time.Time `json:"ts_datetime" db:"ts_datetime"`
	HourOfDay int       `json:"hour_of_day" db:"hour_of_day"`
	DayOfWeek int       `json:"day_of_week" db:"day_of_week"`
	QtySold   int       `json:"qty_sold" db:"qty_sold"`
}

// ReceiptRecord is one day of received (incoming) stock
type ReceiptRecord struct {
	StoreID     int64     `json:"store_id" db:"store_id"`
	SKUID       int64     `json:"sku_id" db:"sku_id"`
	TsDate      time.Time `json:"ts_date" db:"ts_date"`
	QtyReceived int       `json:"qty_received" db:"qty_received"`
}

// CycleCount is a physically verified on-hand quantity. Used only for
// confidence scoring, never as on-hand truth.
type CycleCount struct {
	StoreID    int64     `json:"store_id" db:"store_id"`
	SKUID      int64     `json:"sku_id" db:"sku_id"`
	TsDate     time.Time `json:"ts_date" db:"ts_date"`
	CountedQty int       `json:"counted_qty" db:"counted_qty"`
}

// Transfer is a committed (or in-flight) stock movement between stores
type Transfer struct {
	ID           int64      `json:"id" db:"id"`
	FromStoreID  int64      `json:"from_store_id" db:"from_store_id"`
	FromStore    string     `json:"from_store_name" db:"from_store_name"`
	ToStoreID    int64      `json:"to_store_id" db:"to_store_id"`
	ToStore      string     `json:"to_store_name" db:"to_store_name"`
	SKUID        int64      `json:"sku_id" db:"sku_id"`
	SKUName      string     `json:"sku_name" db:"sku_name"`
	Qty          int        `json:"qty" db:"qty"`
	Status       string     `json:"status" db:"status"`
	RequestedFor time.Time  `json:"requested_for" db:"requested_for"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	ReceivedAt   *time.Time `json:"received_at,omitempty" db:"received_at"`
}

// DayMovements aggregates the recorded stock movements for one day,
// used to reconcile snapshot deltas.
type DayMovements struct {
	TsDate       time.Time `db:"ts_date"`
	Receipts     int       `db:"receipts"`
	Sales        int       `db:"sales"`
	TransfersIn  int       `db:"transfers_in"`
	TransfersOut int       `db:"transfers_out"`
}

// CurrentPosition is the latest snapshot for a store/SKU joined with the
// catalog, the unit the overview listing is computed from.
type CurrentPosition struct {
	StoreID      int64      `json:"store_id" db:"store_id"`
	StoreName    string     `json:"store_name" db:"store_name"`
	SKUID        int64      `json:"sku_id" db:"sku_id"`
	SKUName      string     `json:"sku_name" db:"sku_name"`
	Category     string     `json:"category" db:"category"`
	IsPerishable bool       `json:"is_perishable" db:"is_perishable"`
	OnHand       int        `json:"on_hand" db:"on_hand"`
	TsDate       time.Time  `json:"ts_date" db:"ts_date"`
	LastCounted  *time.Time `json:"last_counted,omitempty" db:"last_counted"`
}

// StoreDistance is one row of the store distance matrix
type StoreDistance struct {
	FromStoreID  int64    `json:"from_store_id" db:"from_store_id"`
	ToStoreID    int64    `json:"to_store_id" db:"to_store_id"`
	DistanceKm   float64  `json:"distance_km" db:"distance_km"`
	TransferCost *float64 `json:"transfer_cost,omitempty" db:"transfer_cost"`
}

// TelemetryReading is an environmental sensor reading. Independent of the
// inventory model; never mutates inventory state.
type TelemetryReading struct {
	ID      int64     `json:"id" db:"id"`
	StoreID int64     `json:"store_id" db:"store_id"`
	Sensor  string    `json:"sensor" db:"sensor"`
	Value   float64   `json:"value" db:"value"`
	Unit    string    `json:"unit" db:"unit"`
	TsTime  time.Time `json:"ts_datetime" db:"ts_datetime"`
}
