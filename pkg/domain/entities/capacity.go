package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CenterCapacity represents the hours a work center has available over the
// planning horizon. Zero capacity is tolerated and surfaces as a saturation
// sentinel, never as a division fault.
type CenterCapacity struct {
	Center         CenterID
	AvailableHours decimal.Decimal
}

// NewCenterCapacity creates a validated CenterCapacity
func NewCenterCapacity(center CenterID, availableHours decimal.Decimal) (*CenterCapacity, error) {
	if center == "" {
		return nil, fmt.Errorf("center id cannot be empty")
	}
	if availableHours.IsNegative() {
		return nil, fmt.Errorf("available hours must be non-negative, got %s", availableHours)
	}
	return &CenterCapacity{
		Center:         center,
		AvailableHours: availableHours,
	}, nil
}
