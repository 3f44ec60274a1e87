package domain

import "errors"

// Structural errors rejected at the boundary. Data-quality issues (thin
// history, missing hourly data, uncounted SKUs) are never errors; they are
// absorbed into confidence tiers and estimation flags.
var (
	ErrNotFound     = errors.New("entity not found")
	ErrInvalidRange = errors.New("invalid range")
)
