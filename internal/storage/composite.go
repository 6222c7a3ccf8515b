package storage

import (
	"context"
	"errors"

	"github.com/AIBlockOfficial/valence-market/internal/market"
)

// CompositeMarketStore layers multiple ListingStore/BookStore implementations.
// Writes go to ALL layers (write-through), reads come from the FIRST layer
// that succeeds. Example: layering [memoryStore, redisStore, postgresStore]
// writes to all three and reads from memory first, falling back to Redis,
// then Postgres.
type CompositeMarketStore struct {
	listings []ListingStore
	books    []BookStore
}

// NewCompositeMarketStore creates a composite store from matched layer slices
func NewCompositeMarketStore(listings []ListingStore, books []BookStore) *CompositeMarketStore {
	return &CompositeMarketStore{
		listings: listings,
		books:    books,
	}
}

func (c *CompositeMarketStore) SaveListing(ctx context.Context, listing *market.Listing) error {
	// Write to all layers
	var lastErr error
	for _, store := range c.listings {
		if err := store.SaveListing(ctx, listing); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (c *CompositeMarketStore) GetListing(ctx context.Context, id string) (*market.Listing, error) {
	// Read from first layer that succeeds
	err := error(ErrNotFound)
	for _, store := range c.listings {
		listing, getErr := store.GetListing(ctx, id)
		if getErr == nil {
			return listing, nil
		}
		if !errors.Is(getErr, ErrNotFound) {
			err = getErr
		}
	}
	return nil, err
}

func (c *CompositeMarketStore) GetListings(ctx context.Context) ([]*market.Listing, error) {
	// Read from first layer that returns data
	var lastErr error
	for _, store := range c.listings {
		listings, err := store.GetListings(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		if len(listings) > 0 {
			return listings, nil
		}
	}
	return []*market.Listing{}, lastErr
}

func (c *CompositeMarketStore) SaveBook(ctx context.Context, listingID string, book *market.OrderBook) error {
	// Write to all layers
	var lastErr error
	for _, store := range c.books {
		if err := store.SaveBook(ctx, listingID, book); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (c *CompositeMarketStore) LoadBook(ctx context.Context, listingID string) (*market.OrderBook, error) {
	// Read from first layer that succeeds
	err := error(ErrNotFound)
	for _, store := range c.books {
		book, loadErr := store.LoadBook(ctx, listingID)
		if loadErr == nil {
			return book, nil
		}
		if !errors.Is(loadErr, ErrNotFound) {
			err = loadErr
		}
	}
	return nil, err
}

func (c *CompositeMarketStore) Close() error {
	// Close all layers, deduplicating stores registered for both concerns
	closed := make(map[Closer]bool)
	var lastErr error

	for _, store := range c.listings {
		if !closed[store] {
			closed[store] = true
			if err := store.Close(); err != nil {
				lastErr = err
			}
		}
	}
	for _, store := range c.books {
		if !closed[store] {
			closed[store] = true
			if err := store.Close(); err != nil {
				lastErr = err
			}
		}
	}
	return lastErr
}

// Closer is the shared close surface of every store layer.
type Closer interface {
	Close() error
}

// CompositeTradeLog fans trade records out to every registered log.
type CompositeTradeLog struct {
	logs []TradeLog
}

// NewCompositeTradeLog creates a composite trade log
func NewCompositeTradeLog(logs ...TradeLog) *CompositeTradeLog {
	return &CompositeTradeLog{logs: logs}
}

func (c *CompositeTradeLog) Append(ctx context.Context, listingID string, trades []market.PendingTrade) error {
	var lastErr error
	for _, log := range c.logs {
		if err := log.Append(ctx, listingID, trades); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (c *CompositeTradeLog) Close() error {
	var lastErr error
	for _, log := range c.logs {
		if err := log.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
