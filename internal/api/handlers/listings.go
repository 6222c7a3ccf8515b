package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/AIBlockOfficial/valence-market/internal/api/logger"
	"github.com/AIBlockOfficial/valence-market/internal/api/models"
	"github.com/AIBlockOfficial/valence-market/internal/market"
)

// ListingsHandler handles retrieving all listings
func (mh *MarketHolder) ListingsHandler(w http.ResponseWriter, r *http.Request) {
	listings, err := mh.Exchange.Listings(r.Context())
	if err != nil {
		writeErrorResponse(w, models.ErrStorage("Failed to fetch listings"))
		return
	}

	logger.Info("Retrieved listings", map[string]interface{}{
		"count": len(listings),
	})

	writeJSON(w, http.StatusOK, models.ListingsResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
			Message:   "Data retrieved successfully",
		},
		Listings: listings,
		Count:    len(listings),
	})
}

// CreateListingHandler handles adding a listing and seeding its order book
func (mh *MarketHolder) CreateListingHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreateListingRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, models.ErrBadRequest("Invalid JSON format", map[string]interface{}{"error": err.Error()}))
		return
	}

	if httpErr := req.Validate(); httpErr != nil {
		writeErrorResponse(w, httpErr)
		return
	}

	listing := &market.Listing{
		ID:           req.ID,
		Title:        req.Title,
		Description:  req.Description,
		InitialPrice: req.InitialPrice,
		Quantity:     req.Quantity,
	}

	if err := mh.Exchange.CreateListing(r.Context(), listing); err != nil {
		writeErrorResponse(w, models.ErrStorage("Failed to create listing"))
		return
	}

	writeJSON(w, http.StatusOK, models.ListingResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
			Message:   "Listing added successfully",
		},
		Listing: listing,
	})
}

// ListingByIDHandler handles retrieving a listing by its ID
func (mh *MarketHolder) ListingByIDHandler(w http.ResponseWriter, r *http.Request) {
	listingID := mux.Vars(r)["id"]

	listing, err := mh.Exchange.ListingByID(r.Context(), listingID)
	if err != nil {
		writeErrorResponse(w, storageError(listingID, err))
		return
	}

	writeJSON(w, http.StatusOK, models.ListingResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
			Message:   "Listing retrieved successfully",
		},
		Listing: listing,
	})
}
