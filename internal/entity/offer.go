package entity

import "github.com/shopspring/decimal"

// CandidateOffer is one retailer search result considered during resolution.
type CandidateOffer struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// ResolvedOffer is the retailer's cash buy price for the matched product page.
type ResolvedOffer struct {
	Price decimal.Decimal
	Link  string
}
