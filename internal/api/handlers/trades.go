package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/AIBlockOfficial/valence-market/internal/api/models"
)

// PendingTradesHandler handles retrieving all pending trades for a listing
func (mh *MarketHolder) PendingTradesHandler(w http.ResponseWriter, r *http.Request) {
	listingID := mux.Vars(r)["id"]

	trades, err := mh.Exchange.PendingTradesByListing(r.Context(), listingID)
	if err != nil {
		writeErrorResponse(w, storageError(listingID, err))
		return
	}

	writeJSON(w, http.StatusOK, models.PendingTradesResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
			Message:   "Trades retrieved successfully",
		},
		ListingID: listingID,
		Trades:    trades,
		Count:     len(trades),
	})
}
