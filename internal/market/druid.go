package market

import "math/rand"

const (
	druidCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	druidLength  = 16
)

// TokenFunc produces a correlation token for a matched trade. The token is
// attached to every PendingTrade for downstream cross-referencing; it is not
// guaranteed to be globally unique.
type TokenFunc func() string

// NewDruid constructs a 16 character alphanumeric DRUID string. It is the
// default TokenFunc used by the order book.
func NewDruid() string {
	b := make([]byte, druidLength)
	for i := range b {
		b[i] = druidCharset[rand.Intn(len(druidCharset))]
	}
	return string(b)
}
