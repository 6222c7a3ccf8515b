package testutils

import (
	"github.com/AIBlockOfficial/valence-market/internal/api/models"
)

// Request builders for common test cases

// NewListing creates a listing creation request
func NewListing(id, title string, price, quantity float64) models.CreateListingRequest {
	return models.CreateListingRequest{
		ID:           id,
		Title:        title,
		Description:  "test listing",
		InitialPrice: price,
		Quantity:     quantity,
	}
}

// NewBid creates a bid order request
func NewBid(listingID string, price, quantity float64) models.SubmitOrderRequest {
	return models.SubmitOrderRequest{
		ListingID: listingID,
		Price:     price,
		Quantity:  quantity,
		IsBid:     true,
	}
}

// NewAsk creates an ask order request
func NewAsk(listingID string, price, quantity float64) models.SubmitOrderRequest {
	return models.SubmitOrderRequest{
		ListingID: listingID,
		Price:     price,
		Quantity:  quantity,
		IsBid:     false,
	}
}
