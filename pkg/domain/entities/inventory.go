package entities

import "github.com/shopspring/decimal"

// StockLevel represents on-hand inventory for an article. Multiple rows for
// the same article are summed when the plan context is built.
type StockLevel struct {
	Article  ArticleID
	Quantity decimal.Decimal
}

// WipRecord represents work-in-progress quantity available for an article.
// Summed per article across records.
type WipRecord struct {
	Article  ArticleID
	Quantity decimal.Decimal
}
