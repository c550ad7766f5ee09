package repository

import (
	"context"
	"time"
)

// VisitedRepository remembers listings that were already evaluated.
type VisitedRepository interface {
	// MarkVisited marks a listing link as evaluated with a specific expiry time.
	MarkVisited(ctx context.Context, link string, expiry time.Duration) error
	// IsVisited checks if a listing was evaluated recently.
	IsVisited(ctx context.Context, link string) (bool, error)
}
