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

// SubmitOrderHandler handles order submission: the order is matched against
// the listing's book and any remainder rests on its own side
func (mh *MarketHolder) SubmitOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitOrderRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, models.ErrBadRequest("Invalid JSON format", map[string]interface{}{"error": err.Error()}))
		return
	}

	if httpErr := req.Validate(); httpErr != nil {
		writeErrorResponse(w, httpErr)
		return
	}

	order := &market.Order{
		ID:               req.ID,
		ListingID:        req.ListingID,
		Price:            req.Price,
		Quantity:         req.Quantity,
		IsBid:            req.IsBid,
		CreatedAt:        time.Now().UTC(),
		DesiredListingID: req.DesiredListingID,
	}

	trades, err := mh.Exchange.PlaceOrder(r.Context(), order)
	if err != nil {
		writeErrorResponse(w, storageError(req.ListingID, err))
		return
	}

	logger.Info("Order submitted successfully", map[string]interface{}{
		"order_id":   order.ID,
		"listing_id": order.ListingID,
		"is_bid":     order.IsBid,
		"trades":     len(trades),
	})

	if trades == nil {
		trades = []market.PendingTrade{}
	}

	writeJSON(w, http.StatusOK, models.SubmitOrderResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
			Message:   "Order added successfully",
		},
		Order:  order,
		Trades: trades,
	})
}

// OrderBookHandler handles retrieving the order book for a listing
func (mh *MarketHolder) OrderBookHandler(w http.ResponseWriter, r *http.Request) {
	listingID := mux.Vars(r)["id"]

	book, err := mh.Exchange.BookByListing(r.Context(), listingID)
	if err != nil {
		writeErrorResponse(w, storageError(listingID, err))
		return
	}

	writeJSON(w, http.StatusOK, models.OrderBookResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
			Message:   "Orders retrieved successfully",
		},
		ListingID: listingID,
		Book:      book,
	})
}
