package memory

import (
	"context"
	"sync"

	"github.com/AIBlockOfficial/valence-market/internal/market"
	"github.com/AIBlockOfficial/valence-market/internal/storage"
)

// MarketStore implements ListingStore and BookStore using in-memory maps.
// Thread-safe for concurrent access via RWMutex. Books are stored and handed
// out as deep copies so callers always work on an isolated snapshot.
type MarketStore struct {
	listings map[string]market.Listing
	books    map[string]*market.OrderBook
	mutex    sync.RWMutex
}

// NewMarketStore creates a new in-memory market store
func NewMarketStore() *MarketStore {
	return &MarketStore{
		listings: make(map[string]market.Listing),
		books:    make(map[string]*market.OrderBook),
	}
}

func (s *MarketStore) SaveListing(ctx context.Context, listing *market.Listing) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.listings[listing.ID] = *listing
	return nil
}

func (s *MarketStore) GetListing(ctx context.Context, id string) (*market.Listing, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	listing, exists := s.listings[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return &listing, nil
}

func (s *MarketStore) GetListings(ctx context.Context) ([]*market.Listing, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	listings := make([]*market.Listing, 0, len(s.listings))
	for id := range s.listings {
		listing := s.listings[id]
		listings = append(listings, &listing)
	}
	return listings, nil
}

func (s *MarketStore) SaveBook(ctx context.Context, listingID string, book *market.OrderBook) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.books[listingID] = book.Clone()
	return nil
}

func (s *MarketStore) LoadBook(ctx context.Context, listingID string) (*market.OrderBook, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	book, exists := s.books[listingID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return book.Clone(), nil
}

func (s *MarketStore) Close() error {
	return nil
}
