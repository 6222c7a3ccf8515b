package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/AIBlockOfficial/valence-market/internal/api/logger"
	"github.com/AIBlockOfficial/valence-market/internal/api/models"
	"github.com/AIBlockOfficial/valence-market/internal/exchange"
	"github.com/AIBlockOfficial/valence-market/internal/storage"
)

// MarketHolder wraps the exchange for dependency injection into handlers
type MarketHolder struct {
	Exchange *exchange.Exchange
}

// NewMarketHolder creates a new market holder
func NewMarketHolder(ex *exchange.Exchange) *MarketHolder {
	return &MarketHolder{Exchange: ex}
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, response interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// writeErrorResponse writes an error response
func writeErrorResponse(w http.ResponseWriter, httpErr *models.HTTPError) {
	logger.Warn("Request failed", map[string]interface{}{
		"error_code": httpErr.Error.Code,
		"status":     httpErr.StatusCode,
	})

	writeJSON(w, httpErr.StatusCode, models.BaseResponse{
		Success:   false,
		Timestamp: time.Now().UTC(),
		Message:   httpErr.Error.Message,
		Error:     &httpErr.Error,
	})
}

// storageError maps a storage layer error onto the API error taxonomy:
// missing listings are 404, everything else is a storage failure.
func storageError(listingID string, err error) *models.HTTPError {
	if errors.Is(err, storage.ErrNotFound) {
		return models.ErrListingNotFoundError(listingID)
	}
	return models.ErrStorage("Storage operation failed")
}
