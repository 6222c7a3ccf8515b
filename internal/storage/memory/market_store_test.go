package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/AIBlockOfficial/valence-market/internal/market"
	"github.com/AIBlockOfficial/valence-market/internal/storage"
)

func TestListingRoundTrip(t *testing.T) {
	store := NewMarketStore()
	ctx := context.Background()

	listing := &market.Listing{
		ID:           "listing-1",
		Title:        "Vintage synth",
		InitialPrice: 250.0,
		Quantity:     1.0,
	}

	if err := store.SaveListing(ctx, listing); err != nil {
		t.Fatalf("SaveListing failed: %v", err)
	}

	got, err := store.GetListing(ctx, "listing-1")
	if err != nil {
		t.Fatalf("GetListing failed: %v", err)
	}
	if got.Title != "Vintage synth" || got.InitialPrice != 250.0 {
		t.Errorf("Unexpected listing returned: %+v", got)
	}

	all, err := store.GetListings(ctx)
	if err != nil {
		t.Fatalf("GetListings failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 listing, got %d", len(all))
	}
}

func TestGetListingNotFound(t *testing.T) {
	store := NewMarketStore()

	_, err := store.GetListing(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestBookRoundTrip(t *testing.T) {
	store := NewMarketStore()
	ctx := context.Background()

	book := market.NewListingBook("listing-1", 10.0, 3.0, "")
	if err := store.SaveBook(ctx, "listing-1", book); err != nil {
		t.Fatalf("SaveBook failed: %v", err)
	}

	got, err := store.LoadBook(ctx, "listing-1")
	if err != nil {
		t.Fatalf("LoadBook failed: %v", err)
	}
	if len(got.Asks) != 1 || got.Asks[0].Price != 10.0 {
		t.Errorf("Unexpected book returned: %+v", got)
	}
}

func TestLoadBookNotFound(t *testing.T) {
	store := NewMarketStore()

	_, err := store.LoadBook(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

// TestBookSnapshotIsolation verifies that mutating a loaded book does not leak
// back into the stored copy, and that mutating the book after saving does not
// corrupt the saved snapshot.
func TestBookSnapshotIsolation(t *testing.T) {
	store := NewMarketStore()
	ctx := context.Background()

	book := market.NewListingBook("listing-1", 10.0, 3.0, "")
	if err := store.SaveBook(ctx, "listing-1", book); err != nil {
		t.Fatalf("SaveBook failed: %v", err)
	}

	// Mutation after save must not alter the stored snapshot.
	book.Asks[0].Quantity = 99.0

	loaded, err := store.LoadBook(ctx, "listing-1")
	if err != nil {
		t.Fatalf("LoadBook failed: %v", err)
	}
	if loaded.Asks[0].Quantity != 3.0 {
		t.Errorf("Stored snapshot was mutated: quantity = %f", loaded.Asks[0].Quantity)
	}

	// Mutation of a loaded copy must not alter the stored snapshot either.
	loaded.Asks[0].Quantity = 42.0

	reloaded, err := store.LoadBook(ctx, "listing-1")
	if err != nil {
		t.Fatalf("LoadBook failed: %v", err)
	}
	if reloaded.Asks[0].Quantity != 3.0 {
		t.Errorf("Loaded copy aliased the stored snapshot: quantity = %f", reloaded.Asks[0].Quantity)
	}
}
