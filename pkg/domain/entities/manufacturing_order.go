package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// UrgencyThresholdDays is the days-remaining cutoff at or below which a
// manufacturing order is classified urgent.
const UrgencyThresholdDays = 7

// OrderStatus represents the urgency classification of a manufacturing order
type OrderStatus int

const (
	StatusNormal OrderStatus = iota
	StatusUrgent
	// StatusNoRouting marks the fallback order emitted for an article with no
	// routing steps defined.
	StatusNoRouting
)

// String method for OrderStatus enum. The string forms are part of the wire
// contract with downstream consumers.
func (s OrderStatus) String() string {
	switch s {
	case StatusNormal:
		return "NORMAL"
	case StatusUrgent:
		return "URGENTE"
	case StatusNoRouting:
		return "ERROR_RUTA"
	default:
		return "Unknown"
	}
}

// ClassifyUrgency derives the order status from the days remaining until the
// due date.
func ClassifyUrgency(daysRemaining int) OrderStatus {
	if daysRemaining <= UrgencyThresholdDays {
		return StatusUrgent
	}
	return StatusNormal
}

// ManufacturingOrder is one generated production order for a single routing
// step. Sequence is zero until the aggregator assigns canonical numbering.
// Ephemeral: recomputed per scenario, never persisted.
type ManufacturingOrder struct {
	Sequence      int
	OrderID       string
	Article       ArticleID
	Center        CenterID
	RoutingSeq    int
	Quantity      decimal.Decimal
	RequiredHours decimal.Decimal
	DueDate       time.Time
	Status        OrderStatus
	DaysRemaining int
	RawMaterial   string
}
