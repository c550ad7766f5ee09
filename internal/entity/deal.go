package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Verdict is the outcome of reconciling a listing against a resolved offer.
// When Computed is false none of the amounts are meaningful.
type Verdict struct {
	Computed   bool
	Fee        decimal.Decimal
	TotalCost  decimal.Decimal
	Profit     decimal.Decimal
	Recordable bool
}

// Deal is a recordable verdict together with its full provenance.
// It mirrors the `deals` PostgreSQL table schema.
type Deal struct {
	ID        string
	FoundAt   time.Time
	Category  string
	Listing   Listing
	Offer     ResolvedOffer
	TotalCost decimal.Decimal
	Profit    decimal.Decimal
}
