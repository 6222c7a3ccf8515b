package performance

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AIBlockOfficial/valence-market/internal/api/tests/testutils"
)

// BenchmarkOrderSubmissionThroughput measures orders per second against a
// single listing
func BenchmarkOrderSubmissionThroughput(b *testing.B) {
	ts := testutils.NewTestServer(b)
	defer ts.Close()

	resp := ts.Post("/api/v1/listings", testutils.NewListing("bench-1", "Bench listing", 100.0, 1.0))
	require.Equal(b, 200, resp.StatusCode)
	resp.Body.Close()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		order := testutils.NewBid("bench-1", 90.0+float64(i%100)*0.01, 1.0)
		resp := ts.Post("/api/v1/orders", order)
		require.Equal(b, 200, resp.StatusCode)
		resp.Body.Close()
	}

	ordersPerSec := float64(b.N) / b.Elapsed().Seconds()
	b.ReportMetric(ordersPerSec, "orders/sec")
}

// BenchmarkOrderBookSnapshot measures order book retrieval speed on a
// populated book
func BenchmarkOrderBookSnapshot(b *testing.B) {
	ts := testutils.NewTestServer(b)
	defer ts.Close()

	resp := ts.Post("/api/v1/listings", testutils.NewListing("bench-1", "Bench listing", 200.0, 1.0))
	require.Equal(b, 200, resp.StatusCode)
	resp.Body.Close()

	for i := 0; i < 50; i++ {
		bidPrice := 99.0 - float64(i)*0.01
		askPrice := 101.0 + float64(i)*0.01
		ts.Post("/api/v1/orders", testutils.NewBid("bench-1", bidPrice, 10.0)).Body.Close()
		ts.Post("/api/v1/orders", testutils.NewAsk("bench-1", askPrice, 10.0)).Body.Close()
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		resp := ts.Get("/api/v1/orders/bench-1")
		require.Equal(b, 200, resp.StatusCode)
		resp.Body.Close()
	}

	snapshotsPerSec := float64(b.N) / b.Elapsed().Seconds()
	b.ReportMetric(snapshotsPerSec, "snapshots/sec")
}

// BenchmarkConcurrentOrderSubmission measures concurrent request handling
// across independent listings
func BenchmarkConcurrentOrderSubmission(b *testing.B) {
	ts := testutils.NewTestServer(b)
	defer ts.Close()

	listings := 4
	for i := 0; i < listings; i++ {
		id := fmt.Sprintf("bench-%d", i)
		resp := ts.Post("/api/v1/listings", testutils.NewListing(id, "Bench listing", 100.0, 1.0))
		require.Equal(b, 200, resp.StatusCode)
		resp.Body.Close()
	}

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			id := fmt.Sprintf("bench-%d", i%listings)
			order := testutils.NewBid(id, 90.0+float64(i%100)*0.01, 1.0)
			resp := ts.Post("/api/v1/orders", order)
			require.Equal(b, 200, resp.StatusCode)
			resp.Body.Close()
			i++
		}
	})

	ordersPerSec := float64(b.N) / b.Elapsed().Seconds()
	b.ReportMetric(ordersPerSec, "orders/sec")
}
