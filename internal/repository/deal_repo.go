package repository

import (
	"context"

	"github.com/user/resale-arbitrage/internal/entity"
)

// DealRepository durably records profitable deals.
type DealRepository interface {
	// Save appends a deal. Entries are never interleaved or rewritten.
	Save(ctx context.Context, deal *entity.Deal) error
}
