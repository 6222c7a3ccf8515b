// Package exchange orchestrates the marketplace: listing lifecycle, order
// placement against per-listing order books, and the read-only query surface.
// The matching itself lives in internal/market; this layer loads a book
// snapshot, applies the match in memory, and persists only on success.
package exchange

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AIBlockOfficial/valence-market/internal/api/logger"
	"github.com/AIBlockOfficial/valence-market/internal/market"
	"github.com/AIBlockOfficial/valence-market/internal/storage"
)

// Exchange wires the matching core to its collaborators: listing metadata
// storage, order book snapshot storage, and the trade audit log.
type Exchange struct {
	listings storage.ListingStore
	books    storage.BookStore
	trades   storage.TradeLog
	token    market.TokenFunc

	// One lock per listing: books assume exclusive access for the duration
	// of a matching call, and books of different listings are independent.
	mutex sync.Mutex
	locks map[string]*sync.Mutex
}

// NewExchange creates an exchange using the default DRUID token generator.
// The trade log may be nil when no audit trail is configured.
func NewExchange(listings storage.ListingStore, books storage.BookStore, trades storage.TradeLog) *Exchange {
	return NewExchangeWithTokens(listings, books, trades, market.NewDruid)
}

// NewExchangeWithTokens creates an exchange with an injected trade token
// generator.
func NewExchangeWithTokens(listings storage.ListingStore, books storage.BookStore, trades storage.TradeLog, token market.TokenFunc) *Exchange {
	return &Exchange{
		listings: listings,
		books:    books,
		trades:   trades,
		token:    token,
		locks:    make(map[string]*sync.Mutex),
	}
}

// bookLock returns the serialization lock for a listing's book.
func (e *Exchange) bookLock(listingID string) *sync.Mutex {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	lock, exists := e.locks[listingID]
	if !exists {
		lock = &sync.Mutex{}
		e.locks[listingID] = lock
	}
	return lock
}

// CreateListing persists a listing and seeds its order book with a single
// resting ask at the initial price. A missing listing ID is filled in.
func (e *Exchange) CreateListing(ctx context.Context, listing *market.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}

	if err := e.listings.SaveListing(ctx, listing); err != nil {
		return fmt.Errorf("failed to save listing: %w", err)
	}

	book := market.NewListingBook(listing.ID, listing.InitialPrice, listing.Quantity, "")
	if err := e.books.SaveBook(ctx, listing.ID, book); err != nil {
		return fmt.Errorf("failed to seed order book: %w", err)
	}

	logger.Info("Listing created", map[string]interface{}{
		"listing_id":    listing.ID,
		"initial_price": listing.InitialPrice,
		"quantity":      listing.Quantity,
	})

	return nil
}

// Listings returns all listings.
func (e *Exchange) Listings(ctx context.Context) ([]*market.Listing, error) {
	return e.listings.GetListings(ctx)
}

// ListingByID returns a single listing. storage.ErrNotFound when absent.
func (e *Exchange) ListingByID(ctx context.Context, id string) (*market.Listing, error) {
	return e.listings.GetListing(ctx, id)
}

// PlaceOrder loads the order book for the order's listing, matches the order
// in memory, and persists the updated book only when both steps succeed. The
// trades emitted by this call are returned; the order's Quantity reflects the
// unfilled remainder.
func (e *Exchange) PlaceOrder(ctx context.Context, order *market.Order) ([]market.PendingTrade, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	lock := e.bookLock(order.ListingID)
	lock.Lock()
	defer lock.Unlock()

	book, err := e.books.LoadBook(ctx, order.ListingID)
	if err != nil {
		return nil, err
	}

	trades := book.AddOrderWith(order, e.token)

	if err := e.books.SaveBook(ctx, order.ListingID, book); err != nil {
		return nil, fmt.Errorf("failed to save order book: %w", err)
	}

	if e.trades != nil && len(trades) > 0 {
		if err := e.trades.Append(ctx, order.ListingID, trades); err != nil {
			// The book is already persisted; a failed audit write must not
			// fail the order.
			logger.Warn("Failed to append trades to audit log", map[string]interface{}{
				"listing_id": order.ListingID,
				"error":      err.Error(),
			})
		}
	}

	logger.Info("Order placed", map[string]interface{}{
		"order_id":   order.ID,
		"listing_id": order.ListingID,
		"is_bid":     order.IsBid,
		"remaining":  order.Quantity,
		"trades":     len(trades),
	})

	return trades, nil
}

// BookByListing returns the full order book for a listing.
func (e *Exchange) BookByListing(ctx context.Context, listingID string) (*market.OrderBook, error) {
	return e.books.LoadBook(ctx, listingID)
}

// PendingTradesByListing returns every trade ever produced for a listing's
// book.
func (e *Exchange) PendingTradesByListing(ctx context.Context, listingID string) ([]market.PendingTrade, error) {
	book, err := e.books.LoadBook(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return book.PendingTrades, nil
}

// Close releases the underlying stores.
func (e *Exchange) Close() error {
	var lastErr error
	if err := e.listings.Close(); err != nil {
		lastErr = err
	}
	// Listing and book storage are often the same layered store; close once.
	if interface{}(e.books) != interface{}(e.listings) {
		if err := e.books.Close(); err != nil {
			lastErr = err
		}
	}
	if e.trades != nil {
		if err := e.trades.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
