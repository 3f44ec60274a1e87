// internal/domain/analytics.go
//
// Typed results for every derived output of the analytics engine. Each of
// these is a pure function of the snapshot/sales data visible at read time;
// estimation fallbacks are tagged explicitly instead of being inferred from
// zero-valued fields.
package domain

import "time"

// Hourly curve sources
const (
	CurveObserved  = "observed"
	CurveEstimated = "estimated"
)

// DemandForecast is the demand estimate for one store/SKU
type DemandForecast struct {
	DailyDemand float64           `json:"daily_demand"`
	DemandStd   float64           `json:"demand_std"`
	WeekdayAvg  float64           `json:"weekday_avg"`
	WeekendAvg  float64           `json:"weekend_avg"`
	Confidence  string            `json:"confidence"`
	DataPoints  int               `json:"data_points"`
	Estimated   bool              `json:"estimated"`
	Next7Days   []DailyPrediction `json:"next_7_days,omitempty"`
}

// DailyPrediction is one projected day of demand
type DailyPrediction struct {
	Date            time.Time `json:"date"`
	PredictedDemand float64   `json:"predicted_demand"`
	IsWeekend       bool      `json:"is_weekend"`
}

// HourlySlot is one hour of the intraday demand curve
type HourlySlot struct {
	Hour            int     `json:"hour"`
	PredictedDemand float64 `json:"predicted_demand"`
	IsPeakHour      bool    `json:"is_peak_hour"`
	PeakPeriod      string  `json:"peak_period,omitempty"`
}

// HourlyCurve is the 24-slot intraday demand shape. Source is "observed"
// when derived from hourly sales and "estimated" when synthesized from the
// daily estimate.
type HourlyCurve struct {
	Slots      []HourlySlot `json:"slots"`
	Source     string       `json:"source"`
	Confidence string       `json:"confidence"`
	DataPoints int          `json:"data_points"`
}

// Anomaly is an unexplained inventory change on one day. Derived, not
// authoritative; recomputed per request.
type Anomaly struct {
	StoreID       int64     `json:"store_id"`
	SKUID         int64     `json:"sku_id"`
	TsDate        time.Time `json:"date"`
	Residual      float64   `json:"residual"`
	Severity      string    `json:"severity"`
	Explanation   string    `json:"explanation"`
	ExpectedDelta int       `json:"expected_delta"`
	ActualDelta   int       `json:"actual_delta"`
}

// AnomalyPattern summarizes recurring anomalies over the lookback window
type AnomalyPattern struct {
	HasPattern    bool    `json:"has_pattern"`
	PatternType   string  `json:"pattern_type,omitempty"`
	Frequency     int     `json:"frequency"`
	TotalLoss     float64 `json:"total_loss"`
	NegativeRatio float64 `json:"negative_ratio"`
	CadenceDay    string  `json:"cadence_day,omitempty"`
}

// ConfidenceReport grades trust in the current on-hand figure. Deductions
// are listed in the order they were applied so the score is auditable.
type ConfidenceReport struct {
	Score          float64  `json:"score"`
	Grade          string   `json:"grade"`
	Deductions     []string `json:"deductions"`
	AnomalyCount   int      `json:"anomaly_count"`
	DaysSinceCount *int     `json:"days_since_count"`
	HasPattern     bool     `json:"has_systematic_pattern"`
}

// StockoutPrediction is the projected stockout for one store/SKU
type StockoutPrediction struct {
	WillStockout   bool       `json:"will_stockout"`
	StockoutTime   *time.Time `json:"stockout_time,omitempty"`
	StockoutHour   int        `json:"stockout_hour,omitempty"`
	HoursUntil     int        `json:"hours_until_stockout,omitempty"`
	IsDuringPeak   bool       `json:"is_during_peak"`
	PeakPeriod     string     `json:"peak_period,omitempty"`
	Severity       string     `json:"severity,omitempty"`
	Deficit        float64    `json:"deficit,omitempty"`
	SafeUntil      *time.Time `json:"safe_until,omitempty"`
	RemainingAtEnd float64    `json:"remaining_at_close,omitempty"`
}

// TransferRecommendation is an advisory, uncommitted transfer proposal
type TransferRecommendation struct {
	FromStoreID        int64   `json:"from_store_id"`
	FromStoreName      string  `json:"from_store_name"`
	ToStoreID          int64   `json:"to_store_id"`
	ToStoreName        string  `json:"to_store_name"`
	SKUID              int64   `json:"sku_id"`
	SKUName            string  `json:"sku_name"`
	Qty                int     `json:"qty"`
	UrgencyScore       float64 `json:"urgency_score"`
	Rationale          string  `json:"rationale"`
	DistanceKm         float64 `json:"distance_km"`
	TransferCost       float64 `json:"transfer_cost"`
	ReceiverDaysBefore float64 `json:"receiver_days_before"`
	ReceiverDaysAfter  float64 `json:"receiver_days_after"`
	DonorDaysBefore    float64 `json:"donor_days_before"`
	DonorDaysAfter     float64 `json:"donor_days_after"`
}

// TransferSummary aggregates transfer opportunities for the dashboard
type TransferSummary struct {
	TotalOpportunities int     `json:"total_opportunities"`
	HighUrgency        int     `json:"high_urgency"`
	MediumUrgency      int     `json:"medium_urgency"`
	LowUrgency         int     `json:"low_urgency"`
	TotalUnits         int     `json:"total_units"`
	EstimatedSavings   float64 `json:"estimated_savings"`
}

// PrepTask is one entry in a store's prep schedule
type PrepTask struct {
	SKUID          int64     `json:"sku_id"`
	SKUName        string    `json:"sku_name"`
	Category       string    `json:"category"`
	PrepBy         time.Time `json:"prep_by"`
	QtyToPrep      int       `json:"qty_to_prep"`
	Priority       string    `json:"priority"`
	Reason         string    `json:"reason"`
	Overdue        bool      `json:"overdue"`
	CurrentOnHand  int       `json:"current_on_hand"`
	StockoutTime   time.Time `json:"stockout_time"`
	IsPeakStockout bool      `json:"is_peak_stockout"`
}

// ReorderAdvice is the reorder point calculation for one store/SKU
type ReorderAdvice struct {
	ReorderPoint float64 `json:"reorder_point"`
	OrderQty     float64 `json:"order_qty"`
	SafetyStock  float64 `json:"safety_stock"`
	LeadTimeDays int     `json:"lead_time_days"`
}
