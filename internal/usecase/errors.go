package usecase

import (
	"errors"

	"github.com/user/resale-arbitrage/internal/repository"
)

var (
	ErrItemSold        = errors.New("item is sold")
	ErrUnusable        = errors.New("listing title or price unreadable")
	ErrNoQuery         = errors.New("no identifiable product to search for")
	ErrNoResults       = errors.New("no retailer search results")
	ErrPriceNotFound   = errors.New("retailer cash price not found")
	ErrRankingDeclined = errors.New("no candidate matched the listing")
)

// isTransport reports whether err means the browsing session itself failed.
func isTransport(err error) bool {
	return errors.Is(err, repository.ErrTransport)
}
