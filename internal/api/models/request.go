package models

import "strings"

// CreateListingRequest represents a listing creation payload
type CreateListingRequest struct {
	ID           string  `json:"id,omitempty"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	InitialPrice float64 `json:"initial_price"`
	Quantity     float64 `json:"quantity"`
}

// Validate validates the listing request
func (r *CreateListingRequest) Validate() *HTTPError {
	if strings.TrimSpace(r.Title) == "" {
		return ErrBadRequest("title cannot be empty", map[string]interface{}{"field": "title"})
	}

	if r.InitialPrice < 0 {
		return ErrInvalidPriceError(r.InitialPrice)
	}

	if r.Quantity <= 0 {
		return ErrInvalidQuantityError(r.Quantity)
	}

	return nil
}

// SubmitOrderRequest represents an order submission payload
type SubmitOrderRequest struct {
	ID               string  `json:"id,omitempty"`
	ListingID        string  `json:"listing_id"`
	Price            float64 `json:"price"`
	Quantity         float64 `json:"quantity"`
	IsBid            bool    `json:"is_bid"`
	DesiredListingID string  `json:"desired_listing_id,omitempty"`
}

// Validate validates the order request
func (r *SubmitOrderRequest) Validate() *HTTPError {
	if strings.TrimSpace(r.ListingID) == "" {
		return ErrBadRequest("listing_id cannot be empty", map[string]interface{}{"field": "listing_id"})
	}

	if r.Price < 0 {
		return ErrInvalidPriceError(r.Price)
	}

	if r.Quantity <= 0 {
		return ErrInvalidQuantityError(r.Quantity)
	}

	return nil
}
