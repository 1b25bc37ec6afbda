package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ArticleID represents a unique article identifier
type ArticleID string

// CenterID represents a unique work center identifier
type CenterID string

// Order represents one line of external demand for an article
type Order struct {
	OrderRef string
	Article  ArticleID
	Quantity decimal.Decimal
	DueDate  time.Time
}

// NewOrder creates a validated Order
func NewOrder(orderRef string, article ArticleID, quantity decimal.Decimal, dueDate time.Time) (*Order, error) {
	if article == "" {
		return nil, fmt.Errorf("article id cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("order quantity must be non-negative, got %s", quantity)
	}
	return &Order{
		OrderRef: orderRef,
		Article:  article,
		Quantity: quantity,
		DueDate:  dueDate,
	}, nil
}
