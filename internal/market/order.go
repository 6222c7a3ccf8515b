package market

import "time"

// Order is a directional (bid/ask) quantity at a price. An order rests in an
// order book until it is matched; Quantity decreases monotonically toward zero
// as fills occur. Price and quantity positivity is a caller precondition.
type Order struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	Price     float64   `json:"price"`
	Quantity  float64   `json:"quantity"`
	IsBid     bool      `json:"is_bid"`
	CreatedAt time.Time `json:"created_at"`

	// DesiredListingID names a counter-listing for swap-style trades. It is
	// carried on the order but not interpreted by the matching algorithm.
	DesiredListingID string `json:"desired_listing_id,omitempty"`

	// Druid is an optional correlation token. Trades always carry one; orders
	// only do when a higher-level protocol assigns it.
	Druid string `json:"druid,omitempty"`
}

// PendingTrade is an immutable record emitted when a bid and an ask match.
type PendingTrade struct {
	BidID     string    `json:"bid_id"`
	AskID     string    `json:"ask_id"`
	Quantity  float64   `json:"quantity"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	Druid     string    `json:"druid"`
}

// Listing is an asset listing on the market. Creating a listing seeds its
// order book with a single resting ask at the initial price.
type Listing struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	InitialPrice float64 `json:"initial_price"`
	Quantity     float64 `json:"quantity"`
}
