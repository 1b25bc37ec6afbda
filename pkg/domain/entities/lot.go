package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LotRule defines the minimum production increment for an article. An article
// without a rule (or with a non-positive size) is built lot-for-lot.
// RawMaterial is an optional raw-material code carried onto generated orders.
type LotRule struct {
	Article     ArticleID
	LotSize     decimal.Decimal
	RawMaterial string
}

// NewLotRule creates a validated LotRule
func NewLotRule(article ArticleID, lotSize decimal.Decimal, rawMaterial string) (*LotRule, error) {
	if article == "" {
		return nil, fmt.Errorf("article id cannot be empty")
	}
	if !lotSize.IsPositive() {
		return nil, fmt.Errorf("lot size must be positive, got %s", lotSize)
	}
	return &LotRule{
		Article:     article,
		LotSize:     lotSize,
		RawMaterial: rawMaterial,
	}, nil
}
