package market

import (
	"math"
	"time"
)

// OrderBook is the two-sided book for a single listing: resting bids, resting
// asks, and the append-only record of every trade ever produced for the book.
//
// Sort convention: asks are held ascending by price and bids descending, so
// index 0 is always the best price on either side and the match scan can walk
// each side from the front. Every resting order has Quantity > 0.
//
// The book performs no locking; callers must serialize access to a given book,
// e.g. with one lock per listing.
type OrderBook struct {
	Bids          []*Order       `json:"bids"`
	Asks          []*Order       `json:"asks"`
	PendingTrades []PendingTrade `json:"pending_trades"`
}

// NewOrderBook creates an empty order book.
func NewOrderBook() *OrderBook {
	return &OrderBook{
		Bids:          []*Order{},
		Asks:          []*Order{},
		PendingTrades: []PendingTrade{},
	}
}

// NewListingBook creates the order book for a freshly created listing: a
// single resting ask at the listing's initial price and quantity, no bids, no
// trades. The initial order's ID is generated the same way as a DRUID.
func NewListingBook(listingID string, price, quantity float64, desiredListingID string) *OrderBook {
	book := NewOrderBook()
	book.Asks = append(book.Asks, &Order{
		ID:               NewDruid(),
		ListingID:        listingID,
		Price:            price,
		Quantity:         quantity,
		IsBid:            false,
		CreatedAt:        time.Now().UTC(),
		DesiredListingID: desiredListingID,
	})
	return book
}

// FindOrderIndex returns the index at which an order with the given price
// either exists or should be inserted to keep the side price-sorted. Asks are
// searched ascending, bids descending. An empty side returns 0.
//
// Bounds are signed on purpose: right goes to -1 when the search narrows to a
// single element at index 0.
func FindOrderIndex(orders []*Order, price float64, descending bool) int {
	if len(orders) == 0 {
		return 0
	}

	left, right := 0, len(orders)-1

	for left <= right {
		mid := (left + right) / 2
		midPrice := orders[mid].Price

		if midPrice == price {
			return mid
		}

		before := midPrice < price
		if descending {
			before = midPrice > price
		}

		if before {
			left = mid + 1
		} else {
			right = mid - 1
		}
	}

	return left
}

// crosses reports whether the incoming order trades against the resting one.
// A trade executes whenever the bid price is at or above the ask price.
func crosses(incoming, resting *Order) bool {
	if incoming.IsBid {
		return resting.Price <= incoming.Price
	}
	return resting.Price >= incoming.Price
}

// AddOrder matches the incoming order against the opposite side of the book,
// using NewDruid for trade correlation tokens. See AddOrderWith.
func (b *OrderBook) AddOrder(order *Order) []PendingTrade {
	return b.AddOrderWith(order, NewDruid)
}

// AddOrderWith matches the incoming order against the opposite side of the
// book by price priority, recording a PendingTrade for every fill. The
// incoming order's Quantity is decremented in place as it fills, so the caller
// can observe the remaining quantity afterward. Whatever quantity is left when
// no compatible resting order remains is inserted at its sorted position on
// the order's own side. Fully filled resting orders are purged after the scan.
//
// A zero-quantity order is accepted without effect: no trade, no insertion.
// The returned slice holds only the trades emitted by this call; they are also
// appended to PendingTrades.
func (b *OrderBook) AddOrderWith(order *Order, token TokenFunc) []PendingTrade {
	if token == nil {
		token = NewDruid
	}
	if order.Quantity <= 0 {
		return nil
	}

	matchList := &b.Bids
	if order.IsBid {
		matchList = &b.Asks
	}

	if len(*matchList) == 0 {
		b.insert(order)
		return nil
	}

	var trades []PendingTrade
	var filled []int

	for i := 0; i < len(*matchList) && order.Quantity > 0; i++ {
		resting := (*matchList)[i]

		// Both sides keep their best price at index 0, so the first
		// incompatible resting order ends the scan.
		if !crosses(order, resting) {
			break
		}

		fill := math.Min(resting.Quantity, order.Quantity)

		bidID, askID := order.ID, resting.ID
		if !order.IsBid {
			bidID, askID = resting.ID, order.ID
		}

		trade := PendingTrade{
			BidID:    bidID,
			AskID:    askID,
			Quantity: fill,
			// Price priority goes to the resting order; the min of the two
			// never disadvantages the taker beyond the resting quote.
			Price:     math.Min(resting.Price, order.Price),
			CreatedAt: time.Now().UTC(),
			Druid:     token(),
		}

		trades = append(trades, trade)
		b.PendingTrades = append(b.PendingTrades, trade)

		resting.Quantity -= fill
		order.Quantity -= fill

		if resting.Quantity == 0 {
			filled = append(filled, i)
		}
	}

	// Purge in descending index order so earlier removals cannot shift
	// still-marked positions.
	for j := len(filled) - 1; j >= 0; j-- {
		i := filled[j]
		*matchList = append((*matchList)[:i], (*matchList)[i+1:]...)
	}

	if order.Quantity > 0 {
		b.insert(order)
	}

	return trades
}

// insert places the order at its sorted position on its own side.
func (b *OrderBook) insert(order *Order) {
	side := &b.Asks
	if order.IsBid {
		side = &b.Bids
	}

	idx := FindOrderIndex(*side, order.Price, order.IsBid)
	*side = append(*side, nil)
	copy((*side)[idx+1:], (*side)[idx:])
	(*side)[idx] = order
}

// Clone returns a deep copy of the book. Stores hand out clones so callers
// can mutate a snapshot without aliasing the stored one.
func (b *OrderBook) Clone() *OrderBook {
	clone := &OrderBook{
		Bids:          make([]*Order, len(b.Bids)),
		Asks:          make([]*Order, len(b.Asks)),
		PendingTrades: make([]PendingTrade, len(b.PendingTrades)),
	}

	for i, order := range b.Bids {
		copied := *order
		clone.Bids[i] = &copied
	}
	for i, order := range b.Asks {
		copied := *order
		clone.Asks[i] = &copied
	}
	copy(clone.PendingTrades, b.PendingTrades)

	return clone
}
