package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/resale-arbitrage/pkg/utils"
)

const visitedListingPrefix = "arbitrage:seen:"

// VisitedRepoImpl remembers evaluated listings in Redis, one expiring key per listing.
type VisitedRepoImpl struct {
	client *redis.Client
}

// NewVisitedRepo creates a new instance of VisitedRepoImpl.
func NewVisitedRepo(client *redis.Client) *VisitedRepoImpl {
	return &VisitedRepoImpl{client: client}
}

// Connect opens a client and verifies the server answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func visitedKey(link string) string {
	return visitedListingPrefix + utils.HashURL(link)
}

// MarkVisited marks a listing as evaluated until expiry elapses.
func (r *VisitedRepoImpl) MarkVisited(ctx context.Context, link string, expiry time.Duration) error {
	return r.client.SetEx(ctx, visitedKey(link), time.Now().UTC().Format(time.RFC3339), expiry).Err()
}

// IsVisited checks if a listing was evaluated within its expiry.
func (r *VisitedRepoImpl) IsVisited(ctx context.Context, link string) (bool, error) {
	n, err := r.client.Exists(ctx, visitedKey(link)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
