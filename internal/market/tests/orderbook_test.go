package market

import (
	"math/rand"
	"testing"

	"github.com/AIBlockOfficial/valence-market/internal/market"
)

func createBid(id string, price, quantity float64) *market.Order {
	return &market.Order{
		ID:        id,
		ListingID: "listing-1",
		Price:     price,
		Quantity:  quantity,
		IsBid:     true,
	}
}

func createAsk(id string, price, quantity float64) *market.Order {
	return &market.Order{
		ID:        id,
		ListingID: "listing-1",
		Price:     price,
		Quantity:  quantity,
		IsBid:     false,
	}
}

// checkSorted verifies both sides keep their sort convention: asks ascending
// by price, bids descending, and no resting order with zero quantity.
func checkSorted(t *testing.T, ob *market.OrderBook) {
	t.Helper()

	for i := 1; i < len(ob.Asks); i++ {
		if ob.Asks[i-1].Price > ob.Asks[i].Price {
			t.Errorf("Asks not ascending at %d: %f > %f", i, ob.Asks[i-1].Price, ob.Asks[i].Price)
		}
	}
	for i := 1; i < len(ob.Bids); i++ {
		if ob.Bids[i-1].Price < ob.Bids[i].Price {
			t.Errorf("Bids not descending at %d: %f < %f", i, ob.Bids[i-1].Price, ob.Bids[i].Price)
		}
	}
	for _, order := range ob.Asks {
		if order.Quantity <= 0 {
			t.Errorf("Resting ask %s has quantity %f", order.ID, order.Quantity)
		}
	}
	for _, order := range ob.Bids {
		if order.Quantity <= 0 {
			t.Errorf("Resting bid %s has quantity %f", order.ID, order.Quantity)
		}
	}
}

// TestAddFirstOrder adds a single bid to an empty book
func TestAddFirstOrder(t *testing.T) {
	ob := market.NewOrderBook()
	order := createBid("1", 1.0, 1.0)

	trades := ob.AddOrder(order)

	if len(trades) != 0 {
		t.Errorf("Expected no trades, got %d", len(trades))
	}
	if len(ob.Bids) != 1 {
		t.Fatalf("Expected 1 bid, got %d", len(ob.Bids))
	}
	if ob.Bids[0].Price != 1.0 || ob.Bids[0].Quantity != 1.0 {
		t.Errorf("Unexpected resting bid: %+v", ob.Bids[0])
	}
	if len(ob.Asks) != 0 {
		t.Errorf("Expected no asks, got %d", len(ob.Asks))
	}
	if len(ob.PendingTrades) != 0 {
		t.Errorf("Expected no pending trades, got %d", len(ob.PendingTrades))
	}
}

// TestMatchBidToAsk matches an incoming bid against a resting ask
func TestMatchBidToAsk(t *testing.T) {
	ob := market.NewOrderBook()
	ask := createAsk("a1", 1.5, 10.0)
	bid := createBid("b1", 2.0, 3.0)

	ob.AddOrder(ask)
	trades := ob.AddOrder(bid)

	if len(trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(trades))
	}
	if trades[0].Quantity != 3.0 {
		t.Errorf("Expected trade quantity 3.0, got %f", trades[0].Quantity)
	}
	if trades[0].Price != 1.5 {
		t.Errorf("Expected trade price 1.5, got %f", trades[0].Price)
	}
	if trades[0].BidID != "b1" || trades[0].AskID != "a1" {
		t.Errorf("Unexpected trade sides: bid=%s ask=%s", trades[0].BidID, trades[0].AskID)
	}
	if trades[0].Druid == "" {
		t.Error("Expected trade druid to be set")
	}

	if len(ob.Bids) != 0 {
		t.Errorf("Expected no bids, got %d", len(ob.Bids))
	}
	if len(ob.Asks) != 1 || ob.Asks[0].Quantity != 7.0 {
		t.Errorf("Expected ask with quantity 7.0 remaining, got %+v", ob.Asks)
	}
	if bid.Quantity != 0 {
		t.Errorf("Expected incoming bid fully filled, remaining %f", bid.Quantity)
	}
	if len(ob.PendingTrades) != 1 {
		t.Errorf("Expected 1 pending trade recorded, got %d", len(ob.PendingTrades))
	}
}

// TestMatchAskToBid matches an incoming ask against a resting bid
func TestMatchAskToBid(t *testing.T) {
	ob := market.NewOrderBook()
	bid := createBid("b1", 1.5, 10.0)
	ask := createAsk("a1", 1.0, 3.0)

	ob.AddOrder(bid)
	trades := ob.AddOrder(ask)

	if len(trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(trades))
	}
	if trades[0].Quantity != 3.0 {
		t.Errorf("Expected trade quantity 3.0, got %f", trades[0].Quantity)
	}
	if trades[0].Price != 1.0 {
		t.Errorf("Expected trade price 1.0, got %f", trades[0].Price)
	}
	if trades[0].BidID != "b1" || trades[0].AskID != "a1" {
		t.Errorf("Unexpected trade sides: bid=%s ask=%s", trades[0].BidID, trades[0].AskID)
	}

	if len(ob.Bids) != 1 || ob.Bids[0].Quantity != 7.0 {
		t.Errorf("Expected bid with quantity 7.0 remaining, got %+v", ob.Bids)
	}
	if len(ob.Asks) != 0 {
		t.Errorf("Expected no asks, got %d", len(ob.Asks))
	}
}

// TestUnmatchedOrders rests incompatible orders on both sides
func TestUnmatchedOrders(t *testing.T) {
	ob := market.NewOrderBook()
	bid := createBid("b1", 1.5, 10.0)
	ask := createAsk("a1", 2.0, 3.0)

	ob.AddOrder(bid)
	trades := ob.AddOrder(ask)

	if len(trades) != 0 {
		t.Errorf("Expected no trades, got %d", len(trades))
	}
	if len(ob.Bids) != 1 || ob.Bids[0].Quantity != 10.0 {
		t.Errorf("Expected untouched bid, got %+v", ob.Bids)
	}
	if len(ob.Asks) != 1 || ob.Asks[0].Quantity != 3.0 {
		t.Errorf("Expected resting ask, got %+v", ob.Asks)
	}
	if len(ob.PendingTrades) != 0 {
		t.Errorf("Expected no pending trades, got %d", len(ob.PendingTrades))
	}
}

// TestMultiFillCleanup consumes two resting asks in one call and verifies
// only those two are removed
func TestMultiFillCleanup(t *testing.T) {
	ob := market.NewOrderBook()
	ob.AddOrder(createAsk("a1", 1.0, 2.0))
	ob.AddOrder(createAsk("a2", 1.1, 3.0))
	ob.AddOrder(createAsk("a3", 5.0, 4.0))

	bid := createBid("b1", 2.0, 5.0)
	trades := ob.AddOrder(bid)

	if len(trades) != 2 {
		t.Fatalf("Expected 2 trades, got %d", len(trades))
	}
	if trades[0].Quantity != 2.0 || trades[0].Price != 1.0 {
		t.Errorf("Unexpected first trade: %+v", trades[0])
	}
	if trades[1].Quantity != 3.0 || trades[1].Price != 1.1 {
		t.Errorf("Unexpected second trade: %+v", trades[1])
	}

	if len(ob.Asks) != 1 {
		t.Fatalf("Expected 1 remaining ask, got %d", len(ob.Asks))
	}
	if ob.Asks[0].ID != "a3" || ob.Asks[0].Quantity != 4.0 {
		t.Errorf("Wrong ask survived cleanup: %+v", ob.Asks[0])
	}
	if len(ob.Bids) != 0 {
		t.Errorf("Expected no bids, got %d", len(ob.Bids))
	}
	checkSorted(t, ob)
}

// TestSweepInsertsRemainder empties the opposite side and rests the remainder
func TestSweepInsertsRemainder(t *testing.T) {
	ob := market.NewOrderBook()
	ob.AddOrder(createAsk("a1", 1.0, 1.0))
	ob.AddOrder(createAsk("a2", 1.1, 1.0))

	bid := createBid("b1", 2.0, 5.0)
	trades := ob.AddOrder(bid)

	if len(trades) != 2 {
		t.Fatalf("Expected 2 trades, got %d", len(trades))
	}
	if len(ob.Asks) != 0 {
		t.Errorf("Expected all asks consumed, got %d", len(ob.Asks))
	}
	if len(ob.Bids) != 1 {
		t.Fatalf("Expected remainder bid to rest, got %d bids", len(ob.Bids))
	}
	if ob.Bids[0].Quantity != 3.0 {
		t.Errorf("Expected remainder quantity 3.0, got %f", ob.Bids[0].Quantity)
	}
	if bid.Quantity != 3.0 {
		t.Errorf("Expected incoming order to report remainder 3.0, got %f", bid.Quantity)
	}
}

// TestPartialMatchRestsRemainder stops at the first incompatible resting
// order and rests the rest of the incoming order
func TestPartialMatchRestsRemainder(t *testing.T) {
	ob := market.NewOrderBook()
	ob.AddOrder(createAsk("a1", 1.0, 2.0))
	ob.AddOrder(createAsk("a2", 3.0, 2.0))

	bid := createBid("b1", 2.0, 5.0)
	trades := ob.AddOrder(bid)

	if len(trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(trades))
	}
	if trades[0].Quantity != 2.0 || trades[0].Price != 1.0 {
		t.Errorf("Unexpected trade: %+v", trades[0])
	}
	if len(ob.Asks) != 1 || ob.Asks[0].ID != "a2" {
		t.Errorf("Expected incompatible ask untouched, got %+v", ob.Asks)
	}
	if len(ob.Bids) != 1 || ob.Bids[0].Quantity != 3.0 {
		t.Errorf("Expected remainder bid with quantity 3.0, got %+v", ob.Bids)
	}
}

// TestZeroQuantityOrderNoOp accepts a zero-quantity order without effect
func TestZeroQuantityOrderNoOp(t *testing.T) {
	ob := market.NewOrderBook()
	ob.AddOrder(createAsk("a1", 1.0, 5.0))

	trades := ob.AddOrder(createBid("b1", 2.0, 0.0))

	if len(trades) != 0 {
		t.Errorf("Expected no trades, got %d", len(trades))
	}
	if len(ob.PendingTrades) != 0 {
		t.Errorf("Expected no pending trades, got %d", len(ob.PendingTrades))
	}
	if len(ob.Bids) != 0 {
		t.Errorf("Expected zero-quantity order not to rest, got %d bids", len(ob.Bids))
	}
	if len(ob.Asks) != 1 || ob.Asks[0].Quantity != 5.0 {
		t.Errorf("Expected resting ask untouched, got %+v", ob.Asks)
	}
}

// TestInjectedTokenFunc stamps trades with the injected token generator
func TestInjectedTokenFunc(t *testing.T) {
	ob := market.NewOrderBook()
	ob.AddOrder(createAsk("a1", 1.0, 1.0))

	trades := ob.AddOrderWith(createBid("b1", 1.0, 1.0), func() string { return "fixed-token" })

	if len(trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(trades))
	}
	if trades[0].Druid != "fixed-token" {
		t.Errorf("Expected injected token, got %q", trades[0].Druid)
	}
}

// TestEqualPricesMatch trades when bid and ask prices are exactly equal
func TestEqualPricesMatch(t *testing.T) {
	ob := market.NewOrderBook()
	ob.AddOrder(createAsk("a1", 2.5, 4.0))

	trades := ob.AddOrder(createBid("b1", 2.5, 4.0))

	if len(trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(trades))
	}
	if trades[0].Price != 2.5 || trades[0].Quantity != 4.0 {
		t.Errorf("Unexpected trade: %+v", trades[0])
	}
	if len(ob.Bids) != 0 || len(ob.Asks) != 0 {
		t.Errorf("Expected empty book, got %d bids / %d asks", len(ob.Bids), len(ob.Asks))
	}
}

// TestConservation verifies every fill decrements both sides by exactly the
// fill amount and never exceeds either side's pre-match quantity
func TestConservation(t *testing.T) {
	ob := market.NewOrderBook()
	ob.AddOrder(createAsk("a1", 1.0, 4.0))
	ob.AddOrder(createAsk("a2", 1.5, 6.0))

	bid := createBid("b1", 2.0, 7.0)
	trades := ob.AddOrder(bid)

	filled := 0.0
	for _, trade := range trades {
		if trade.Quantity <= 0 {
			t.Errorf("Trade with non-positive quantity: %+v", trade)
		}
		filled += trade.Quantity
	}

	if filled != 7.0 {
		t.Errorf("Expected total fill 7.0, got %f", filled)
	}
	if bid.Quantity != 0 {
		t.Errorf("Expected bid fully filled, remaining %f", bid.Quantity)
	}
	// a1 consumed entirely, a2 partially
	if len(ob.Asks) != 1 || ob.Asks[0].ID != "a2" || ob.Asks[0].Quantity != 3.0 {
		t.Errorf("Unexpected remaining asks: %+v", ob.Asks)
	}
}

// TestRandomizedSortInvariant throws a fixed random order stream at the book
// and verifies the sort and no-empty-order invariants hold throughout
func TestRandomizedSortInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ob := market.NewOrderBook()

	for i := 0; i < 500; i++ {
		order := &market.Order{
			ID:        "order-" + string(rune('a'+i%26)),
			ListingID: "listing-1",
			Price:     float64(rng.Intn(50)) / 10.0,
			Quantity:  float64(1 + rng.Intn(20)),
			IsBid:     rng.Intn(2) == 0,
		}
		ob.AddOrder(order)
		checkSorted(t, ob)
	}

	// The book must never hold crossed sides after matching settles.
	if len(ob.Bids) > 0 && len(ob.Asks) > 0 {
		if ob.Bids[0].Price >= ob.Asks[0].Price {
			t.Errorf("Book left crossed: best bid %f >= best ask %f", ob.Bids[0].Price, ob.Asks[0].Price)
		}
	}
}

// TestNewListingBook seeds a fresh book with one initial ask
func TestNewListingBook(t *testing.T) {
	ob := market.NewListingBook("listing-1", 12.5, 100.0, "")

	if len(ob.Asks) != 1 {
		t.Fatalf("Expected 1 seeded ask, got %d", len(ob.Asks))
	}
	ask := ob.Asks[0]
	if ask.Price != 12.5 || ask.Quantity != 100.0 || ask.IsBid {
		t.Errorf("Unexpected seeded ask: %+v", ask)
	}
	if ask.ListingID != "listing-1" {
		t.Errorf("Expected listing id on seeded ask, got %q", ask.ListingID)
	}
	if ask.ID == "" {
		t.Error("Expected generated ask ID")
	}
	if len(ob.Bids) != 0 || len(ob.PendingTrades) != 0 {
		t.Errorf("Expected empty bids and trades, got %d / %d", len(ob.Bids), len(ob.PendingTrades))
	}
}

// TestClone verifies snapshot isolation of cloned books
func TestClone(t *testing.T) {
	ob := market.NewOrderBook()
	ob.AddOrder(createAsk("a1", 1.0, 5.0))

	clone := ob.Clone()
	clone.AddOrder(createBid("b1", 2.0, 5.0))

	if len(ob.Asks) != 1 || ob.Asks[0].Quantity != 5.0 {
		t.Errorf("Mutating clone changed original: %+v", ob.Asks)
	}
	if len(ob.PendingTrades) != 0 {
		t.Errorf("Mutating clone recorded trades on original: %d", len(ob.PendingTrades))
	}
	if len(clone.Asks) != 0 || len(clone.PendingTrades) != 1 {
		t.Errorf("Clone did not match independently: %d asks / %d trades", len(clone.Asks), len(clone.PendingTrades))
	}
}
