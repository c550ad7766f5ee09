package entity

import "github.com/shopspring/decimal"

// Listing is one marketplace item. It is created at discovery with only Link set
// and enriched in place by the extractor.
type Listing struct {
	Link        string
	Title       string
	Price       decimal.Decimal
	Postage     *decimal.Decimal // nil when the postage figure could not be read
	Attributes  map[string]string
	Description string
}

// NewListing creates a listing known only by its link.
func NewListing(link string) *Listing {
	return &Listing{Link: link, Attributes: make(map[string]string)}
}

// HasPostage reports whether a numeric postage figure was read.
func (l *Listing) HasPostage() bool {
	return l.Postage != nil
}
