package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RoutingStep represents one operation of an article's manufacturing process.
// SetupHours is expressed in hours; HourlyRate in units per hour. A zero
// HourlyRate is tolerated and resolved to a sentinel load downstream.
type RoutingStep struct {
	Article    ArticleID
	Sequence   int
	Center     CenterID
	SetupHours decimal.Decimal
	HourlyRate decimal.Decimal
}

// NewRoutingStep creates a validated RoutingStep
func NewRoutingStep(article ArticleID, sequence int, center CenterID, setupHours, hourlyRate decimal.Decimal) (*RoutingStep, error) {
	if article == "" {
		return nil, fmt.Errorf("article id cannot be empty")
	}
	if setupHours.IsNegative() {
		return nil, fmt.Errorf("setup hours must be non-negative, got %s", setupHours)
	}
	if hourlyRate.IsNegative() {
		return nil, fmt.Errorf("hourly rate must be non-negative, got %s", hourlyRate)
	}
	return &RoutingStep{
		Article:    article,
		Sequence:   sequence,
		Center:     center,
		SetupHours: setupHours,
		HourlyRate: hourlyRate,
	}, nil
}
