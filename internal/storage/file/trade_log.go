package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/AIBlockOfficial/valence-market/internal/market"
)

// tradeRecord is the JSON-lines row written for each trade.
type tradeRecord struct {
	ListingID string    `json:"listing_id"`
	BidID     string    `json:"bid_id"`
	AskID     string    `json:"ask_id"`
	Quantity  float64   `json:"quantity"`
	Price     float64   `json:"price"`
	Druid     string    `json:"druid"`
	CreatedAt time.Time `json:"created_at"`
}

// TradeLog implements the trade audit trail using append-only file writes,
// one JSON document per line. The file is write-only; reads go through the
// order book's own pending_trades.
type TradeLog struct {
	file    *os.File
	encoder *json.Encoder
	mutex   sync.Mutex
}

// NewTradeLog creates a new file-based trade log
func NewTradeLog(filePath string) (*TradeLog, error) {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open trade log: %w", err)
	}

	return &TradeLog{
		file:    f,
		encoder: json.NewEncoder(f),
	}, nil
}

func (l *TradeLog) Append(ctx context.Context, listingID string, trades []market.PendingTrade) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	for _, trade := range trades {
		record := tradeRecord{
			ListingID: listingID,
			BidID:     trade.BidID,
			AskID:     trade.AskID,
			Quantity:  trade.Quantity,
			Price:     trade.Price,
			Druid:     trade.Druid,
			CreatedAt: trade.CreatedAt,
		}
		if err := l.encoder.Encode(record); err != nil {
			return err
		}
	}

	return nil
}

func (l *TradeLog) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
