package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AIBlockOfficial/valence-market/internal/market"
)

// TradeLog implements the trade audit trail using PostgreSQL batch inserts.
type TradeLog struct {
	pool *pgxpool.Pool
}

// NewTradeLog creates a PostgreSQL-backed trade log sharing an existing pool
func NewTradeLog(pool *pgxpool.Pool) *TradeLog {
	return &TradeLog{pool: pool}
}

func (l *TradeLog) Append(ctx context.Context, listingID string, trades []market.PendingTrade) error {
	if len(trades) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	batch := &pgx.Batch{}
	query := `
		INSERT INTO pending_trades (listing_id, bid_id, ask_id, quantity, price, druid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, trade := range trades {
		batch.Queue(query,
			listingID, trade.BidID, trade.AskID, trade.Quantity, trade.Price, trade.Druid, trade.CreatedAt,
		)
	}

	return l.pool.SendBatch(ctx, batch).Close()
}

func (l *TradeLog) Close() error {
	// Pool is owned by the market store
	return nil
}
