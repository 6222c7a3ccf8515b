package models

import (
	"time"

	"github.com/AIBlockOfficial/valence-market/internal/market"
)

// BaseResponse is the base structure for all API responses
type BaseResponse struct {
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message,omitempty"`
	Error     *APIError `json:"error,omitempty"`
}

// ListingResponse represents the response for a single listing
type ListingResponse struct {
	BaseResponse
	Listing *market.Listing `json:"listing,omitempty"`
}

// ListingsResponse represents the response for all listings
type ListingsResponse struct {
	BaseResponse
	Listings []*market.Listing `json:"listings"`
	Count    int               `json:"count"`
}

// SubmitOrderResponse represents the response for order submission. Order
// carries the possibly reduced remaining quantity after matching; Trades holds
// only the trades emitted by this submission.
type SubmitOrderResponse struct {
	BaseResponse
	Order  *market.Order         `json:"order,omitempty"`
	Trades []market.PendingTrade `json:"trades"`
}

// OrderBookResponse represents the order book for a listing
type OrderBookResponse struct {
	BaseResponse
	ListingID string            `json:"listing_id"`
	Book      *market.OrderBook `json:"order_book,omitempty"`
}

// PendingTradesResponse represents all trades produced for a listing's book
type PendingTradesResponse struct {
	BaseResponse
	ListingID string                `json:"listing_id"`
	Trades    []market.PendingTrade `json:"pending_trades"`
	Count     int                   `json:"count"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Version       string    `json:"version"`
}
