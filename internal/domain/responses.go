// internal/domain/responses.go
package domain

import "time"

// OverviewFilter holds the query filters for the overview listing
type OverviewFilter struct {
	StoreID       int64 `json:"store_id"`
	RiskOnly      bool  `json:"risk_only"`
	MinConfidence int   `json:"min_confidence"`
	Limit         int   `json:"limit"`
	Offset        int   `json:"offset"`
}

// OverviewItem is one store/SKU row of the overview listing
type OverviewItem struct {
	StoreID         int64      `json:"store_id"`
	StoreName       string     `json:"store_name"`
	SKUID           int64      `json:"sku_id"`
	SKUName         string     `json:"sku_name"`
	Category        string     `json:"category"`
	OnHand          int        `json:"on_hand"`
	DailyDemand     float64    `json:"daily_demand"`
	DaysOfCover     float64    `json:"days_of_cover"`
	StockoutDate    *time.Time `json:"stockout_date"`
	ConfidenceScore float64    `json:"confidence_score"`
	ConfidenceGrade string     `json:"confidence_grade"`
	RiskLevel       string     `json:"risk_level"`
	SuggestedAction string     `json:"suggested_action"`
	Estimated       bool       `json:"estimated"`
}

// OverviewAlerts are the alert counters on the overview dashboard
type OverviewAlerts struct {
	CriticalStockouts     int `json:"critical_stockouts"`
	LowConfidence         int `json:"low_confidence"`
	TransferOpportunities int `json:"transfer_opportunities"`
}

// OverviewResponse is the overview listing with alerts and echo of filters
type OverviewResponse struct {
	Items   []OverviewItem `json:"items"`
	Total   int            `json:"total"`
	Alerts  OverviewAlerts `json:"alerts"`
	Filters OverviewFilter `json:"filters"`
}

// StockoutAlert is one critical stockout entry for the alerts endpoint
type StockoutAlert struct {
	StoreName   string  `json:"store_name"`
	SKUName     string  `json:"sku_name"`
	DaysOfCover float64 `json:"days_of_cover"`
	Message     string  `json:"message"`
}

// AlertsResponse is the top-alerts payload
type AlertsResponse struct {
	CriticalStockouts []StockoutAlert `json:"critical_stockouts"`
	TotalCritical     int             `json:"total_critical"`
}

// HistoryPoint is one day of on-hand and sales history
type HistoryPoint struct {
	Date   time.Time `json:"date" db:"ts_date"`
	OnHand int       `json:"on_hand" db:"on_hand"`
	Sales  int       `json:"sales" db:"sales"`
}

// SKUCurrentState is the derived current state of one store/SKU
type SKUCurrentState struct {
	OnHand          int        `json:"on_hand"`
	DailyDemand     float64    `json:"daily_demand"`
	DaysOfCover     float64    `json:"days_of_cover"`
	StockoutDate    *time.Time `json:"stockout_date"`
	ConfidenceScore float64    `json:"confidence_score"`
	ConfidenceGrade string     `json:"confidence_grade"`
}

// ActionAdvice is one suggested action on the SKU detail page
type ActionAdvice struct {
	Recommended bool   `json:"recommended"`
	Priority    string `json:"priority,omitempty"`
	Qty         int    `json:"qty,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// SKUDetail is the full SKU detail payload
type SKUDetail struct {
	Store             Store                   `json:"store"`
	SKU               SKU                     `json:"sku"`
	CurrentState      SKUCurrentState         `json:"current_state"`
	Forecast          DemandForecast          `json:"forecast"`
	History           []HistoryPoint          `json:"history"`
	Anomalies         []Anomaly               `json:"anomalies"`
	AnomalyPatterns   AnomalyPattern          `json:"anomaly_patterns"`
	ConfidenceDetails ConfidenceReport        `json:"confidence_details"`
	Reorder           ReorderAdvice           `json:"reorder"`
	Actions           map[string]ActionAdvice `json:"recommendations"`
}

// HourlyForecastSlot is one hour of the SKU hourly forecast, annotated
// with the projected remaining inventory.
type HourlyForecastSlot struct {
	HourlySlot
	RemainingInventory float64 `json:"remaining_inventory"`
	WillStockoutHour   bool    `json:"will_stockout_this_hour"`
}

// SKUHourlyForecast is the hourly forecast payload for one store/SKU
type SKUHourlyForecast struct {
	Store          Store                `json:"store"`
	SKU            SKU                  `json:"sku"`
	CurrentOnHand  int                  `json:"current_on_hand"`
	Curve          HourlyCurve          `json:"curve"`
	HourlyForecast []HourlyForecastSlot `json:"hourly_forecast"`
	Stockout       StockoutPrediction   `json:"stockout_prediction"`
}

// TransferRecommendationsResponse is the transfer listing grouped by receiver
type TransferRecommendationsResponse struct {
	Recommendations   []TransferRecommendation            `json:"recommendations"`
	GroupedByReceiver map[string][]TransferRecommendation `json:"grouped_by_receiver"`
	Total             int                                 `json:"total"`
	Summary           TransferSummary                     `json:"summary"`
}

// PeakSummary describes the current/next peak period for a store
type PeakSummary struct {
	CurrentTime      time.Time `json:"current_time"`
	CurrentHour      int       `json:"current_hour"`
	NextPeakPeriod   string    `json:"next_peak_period"`
	NextPeakHour     int       `json:"next_peak_hour"`
	HoursUntilPeak   int       `json:"hours_until_peak"`
	MinutesUntilPeak int       `json:"minutes_until_peak"`
	IsCurrentlyPeak  bool      `json:"is_currently_peak"`
}

// AtRiskItem is one SKU projected to stock out during a peak window
type AtRiskItem struct {
	SKUID        int64     `json:"sku_id"`
	SKUName      string    `json:"sku_name"`
	Category     string    `json:"category"`
	OnHand       int       `json:"on_hand"`
	StockoutTime time.Time `json:"stockout_time"`
	HoursUntil   int       `json:"hours_until"`
	PeakPeriod   string    `json:"peak_period"`
}

// PeakHoursDashboard is the peak-hours dashboard payload for one store
type PeakHoursDashboard struct {
	Store          Store        `json:"store"`
	Summary        PeakSummary  `json:"summary"`
	PrepSchedule   []PrepTask   `json:"prep_schedule"`
	AtRiskItems    []AtRiskItem `json:"at_risk_items"`
	TotalAtRisk    int          `json:"total_at_risk"`
	TotalPrepTasks int          `json:"total_prep_tasks"`
}
