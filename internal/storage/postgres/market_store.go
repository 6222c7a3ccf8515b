package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AIBlockOfficial/valence-market/internal/market"
	"github.com/AIBlockOfficial/valence-market/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MarketStore implements ListingStore and BookStore using PostgreSQL. Order
// books are kept as one JSONB document per listing and replaced wholesale on
// save, mirroring the document-store contract.
type MarketStore struct {
	pool *pgxpool.Pool
}

// NewMarketStore creates a new PostgreSQL-backed market store
func NewMarketStore(cfg PostgresConfig) (*MarketStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := NewPostgresPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &MarketStore{pool: pool}, nil
}

func (s *MarketStore) SaveListing(ctx context.Context, listing *market.Listing) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		INSERT INTO listings (listing_id, title, description, initial_price, quantity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (listing_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			initial_price = EXCLUDED.initial_price,
			quantity = EXCLUDED.quantity
	`

	_, err := s.pool.Exec(ctx, query,
		listing.ID, listing.Title, listing.Description, listing.InitialPrice, listing.Quantity,
	)

	return err
}

func (s *MarketStore) GetListing(ctx context.Context, id string) (*market.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT listing_id, title, description, initial_price, quantity
		FROM listings
		WHERE listing_id = $1
	`

	var listing market.Listing
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&listing.ID, &listing.Title, &listing.Description, &listing.InitialPrice, &listing.Quantity,
	)

	if err == pgx.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &listing, nil
}

func (s *MarketStore) GetListings(ctx context.Context) ([]*market.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := `
		SELECT listing_id, title, description, initial_price, quantity
		FROM listings
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []*market.Listing{}
	for rows.Next() {
		var listing market.Listing
		err := rows.Scan(
			&listing.ID, &listing.Title, &listing.Description, &listing.InitialPrice, &listing.Quantity,
		)
		if err != nil {
			continue
		}
		listings = append(listings, &listing)
	}

	return listings, rows.Err()
}

func (s *MarketStore) SaveBook(ctx context.Context, listingID string, book *market.OrderBook) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	snapshot, err := json.Marshal(book)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO order_books (listing_id, snapshot, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (listing_id) DO UPDATE SET
			snapshot = EXCLUDED.snapshot,
			updated_at = EXCLUDED.updated_at
	`

	_, err = s.pool.Exec(ctx, query, listingID, snapshot, time.Now())
	return err
}

func (s *MarketStore) LoadBook(ctx context.Context, listingID string) (*market.OrderBook, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `SELECT snapshot FROM order_books WHERE listing_id = $1`

	var snapshot []byte
	err := s.pool.QueryRow(ctx, query, listingID).Scan(&snapshot)

	if err == pgx.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var book market.OrderBook
	if err := json.Unmarshal(snapshot, &book); err != nil {
		return nil, err
	}

	return &book, nil
}

// Pool exposes the underlying connection pool so a trade log can be built on
// the same pool as the market store.
func (s *MarketStore) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *MarketStore) Close() error {
	s.pool.Close()
	return nil
}
