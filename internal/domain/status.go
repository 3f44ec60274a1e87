package domain

import "strings"

// Risk levels for overview items
const (
	RiskCritical = "critical"
	RiskHigh     = "high"
	RiskMedium   = "medium"
	RiskLow      = "low"
)

// Anomaly severities
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
)

// Forecast confidence tiers
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Prep task priorities
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// Peak periods
const (
	PeakLunch  = "lunch"
	PeakDinner = "dinner"
)

// Transfer lifecycle statuses
const (
	TransferDraft     = "draft"
	TransferApproved  = "approved"
	TransferInTransit = "in_transit"
	TransferReceived  = "received"
	TransferCancelled = "cancelled"
)

var transferStatuses = map[string]struct{}{
	TransferDraft:     {},
	TransferApproved:  {},
	TransferInTransit: {},
	TransferReceived:  {},
	TransferCancelled: {},
}

// ValidTransferStatus reports whether label is a known transfer status
// (case-insensitive).
func ValidTransferStatus(label string) bool {
	_, ok := transferStatuses[strings.ToLower(label)]

	return ok
}

// riskRank orders risk levels for sorting, critical first.
var riskRank = map[string]int{
	RiskCritical: 0,
	RiskHigh:     1,
	RiskMedium:   2,
	RiskLow:      3,
}

// RiskRank returns the sort rank of a risk level; unknown levels sort last.
func RiskRank(level string) int {
	if r, ok := riskRank[level]; ok {
		return r
	}

	return len(riskRank)
}

// GradeForScore buckets a 0-100 confidence score into a letter grade.
func GradeForScore(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
