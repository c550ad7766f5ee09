package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/resale-arbitrage/internal/entity"
)

const schema = `
CREATE TABLE IF NOT EXISTS deals (
	id                  UUID PRIMARY KEY,
	found_at            TIMESTAMPTZ NOT NULL,
	category            TEXT NOT NULL,
	listing_link        TEXT NOT NULL,
	listing_title       TEXT NOT NULL,
	listing_price       NUMERIC(10, 2) NOT NULL,
	listing_postage     NUMERIC(10, 2) NOT NULL,
	listing_description TEXT NOT NULL DEFAULT '',
	offer_link          TEXT NOT NULL,
	offer_price         NUMERIC(10, 2) NOT NULL,
	total_cost          NUMERIC(10, 2) NOT NULL,
	profit              NUMERIC(10, 2) NOT NULL
);

CREATE TABLE IF NOT EXISTS deal_attributes (
	deal_id    UUID NOT NULL REFERENCES deals (id) ON DELETE CASCADE,
	attr_key   TEXT NOT NULL,
	attr_value TEXT NOT NULL,
	PRIMARY KEY (deal_id, attr_key)
);`

const insertDeal = `
	INSERT INTO deals (id, found_at, category, listing_link, listing_title, listing_price, listing_postage,
		listing_description, offer_link, offer_price, total_cost, profit)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

const insertAttribute = `INSERT INTO deal_attributes (deal_id, attr_key, attr_value) VALUES ($1, $2, $3)`

// DealRepoImpl stores recorded deals in PostgreSQL.
type DealRepoImpl struct {
	db *pgxpool.Pool
}

// NewDealRepo creates a new instance of DealRepoImpl.
func NewDealRepo(db *pgxpool.Pool) *DealRepoImpl {
	return &DealRepoImpl{db: db}
}

// Connect opens a pool and verifies the database answers.
func Connect(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}
	return db, nil
}

// Migrate creates the deal tables if they do not exist.
func (r *DealRepoImpl) Migrate(ctx context.Context) error {
	_, err := r.db.Exec(ctx, schema)
	return err
}

// Save inserts a deal and its attributes within a single transaction.
func (r *DealRepoImpl) Save(ctx context.Context, deal *entity.Deal) error {
	if deal.Listing.Postage == nil {
		return fmt.Errorf("deal %s has no postage", deal.ID)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, insertDeal, dealArgs(deal)...); err != nil {
		return fmt.Errorf("insert deal: %w", err)
	}

	if len(deal.Listing.Attributes) > 0 {
		batch := &pgx.Batch{}
		for key, value := range deal.Listing.Attributes {
			batch.Queue(insertAttribute, deal.ID, key, value)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert deal attributes: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// dealArgs orders a deal's columns as insertDeal expects. Amounts are passed
// as strings so NUMERIC keeps the exact decimal value.
func dealArgs(deal *entity.Deal) []any {
	return []any{
		deal.ID,
		deal.FoundAt,
		deal.Category,
		deal.Listing.Link,
		deal.Listing.Title,
		deal.Listing.Price.StringFixed(2),
		deal.Listing.Postage.StringFixed(2),
		deal.Listing.Description,
		deal.Offer.Link,
		deal.Offer.Price.StringFixed(2),
		deal.TotalCost.StringFixed(2),
		deal.Profit.StringFixed(2),
	}
}
