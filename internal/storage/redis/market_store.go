package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AIBlockOfficial/valence-market/internal/market"
	"github.com/AIBlockOfficial/valence-market/internal/storage"
)

const (
	listingKeyPrefix = "listing:"
	bookKeyPrefix    = "book:"
	listingIndexKey  = "listings:index" // Set of all listing IDs
)

// MarketStore implements ListingStore and BookStore using Redis. Listings and
// order books are stored as whole JSON documents keyed by listing ID, the book
// document being replaced on every save.
type MarketStore struct {
	client *redis.Client
}

// NewMarketStore creates a new Redis-backed market store
func NewMarketStore(cfg RedisConfig) (*MarketStore, error) {
	client, err := NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &MarketStore{client: client}, nil
}

func (s *MarketStore) SaveListing(ctx context.Context, listing *market.Listing) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	data, err := json.Marshal(listing)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, listingKeyPrefix+listing.ID, data, 0)
	pipe.SAdd(ctx, listingIndexKey, listing.ID)

	_, err = pipe.Exec(ctx)
	return err
}

func (s *MarketStore) GetListing(ctx context.Context, id string) (*market.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	data, err := s.client.Get(ctx, listingKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var listing market.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, err
	}

	return &listing, nil
}

func (s *MarketStore) GetListings(ctx context.Context) ([]*market.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ids, err := s.client.SMembers(ctx, listingIndexKey).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*market.Listing{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = listingKeyPrefix + id
	}

	// Use MGET for efficient batch retrieval
	results, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	listings := make([]*market.Listing, 0, len(results))
	for _, result := range results {
		data, ok := result.(string)
		if !ok {
			continue
		}

		var listing market.Listing
		if err := json.Unmarshal([]byte(data), &listing); err != nil {
			continue
		}
		listings = append(listings, &listing)
	}

	return listings, nil
}

func (s *MarketStore) SaveBook(ctx context.Context, listingID string, book *market.OrderBook) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	data, err := json.Marshal(book)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, bookKeyPrefix+listingID, data, 0).Err()
}

func (s *MarketStore) LoadBook(ctx context.Context, listingID string) (*market.OrderBook, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	data, err := s.client.Get(ctx, bookKeyPrefix+listingID).Bytes()
	if err == redis.Nil {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var book market.OrderBook
	if err := json.Unmarshal(data, &book); err != nil {
		return nil, err
	}

	return &book, nil
}

func (s *MarketStore) Close() error {
	return s.client.Close()
}
