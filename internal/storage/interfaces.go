package storage

import (
	"context"
	"errors"

	"github.com/AIBlockOfficial/valence-market/internal/market"
)

// ErrNotFound is returned when a listing or order book does not exist in a
// store. Callers use errors.Is to tell "not found" apart from storage failure.
var ErrNotFound = errors.New("not found")

// ListingStore abstracts listing metadata storage.
// Implementations can be in-memory (map), Redis, PostgreSQL, etc.
type ListingStore interface {
	// SaveListing stores or replaces a listing
	SaveListing(ctx context.Context, listing *market.Listing) error

	// GetListing retrieves a listing by ID
	GetListing(ctx context.Context, id string) (*market.Listing, error)

	// GetListings returns all listings
	GetListings(ctx context.Context) ([]*market.Listing, error)

	// Close releases any resources held by the store
	Close() error
}

// BookStore abstracts order book snapshot storage. Books are whole documents
// keyed by listing ID: LoadBook hands out a full snapshot, SaveBook replaces
// it. The matching core itself performs no I/O.
type BookStore interface {
	// SaveBook stores or replaces the order book snapshot for a listing
	SaveBook(ctx context.Context, listingID string, book *market.OrderBook) error

	// LoadBook retrieves the order book snapshot for a listing
	LoadBook(ctx context.Context, listingID string) (*market.OrderBook, error)

	// Close releases any resources held by the store
	Close() error
}

// TradeLog abstracts the append-only trade audit trail.
// Implementations can be a file log, PostgreSQL, etc.
type TradeLog interface {
	// Append records trades emitted by a single matching call
	Append(ctx context.Context, listingID string, trades []market.PendingTrade) error

	// Close releases any resources held by the log
	Close() error
}
