package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AIBlockOfficial/valence-market/internal/api/handlers"
	"github.com/AIBlockOfficial/valence-market/internal/api/routes"
	"github.com/AIBlockOfficial/valence-market/internal/exchange"
	"github.com/AIBlockOfficial/valence-market/internal/storage/file"
	"github.com/AIBlockOfficial/valence-market/internal/storage/memory"
)

// TestServer wraps a test HTTP server with an exchange backed by in-memory
// storage and a file trade log
type TestServer struct {
	Server       *httptest.Server
	Exchange     *exchange.Exchange
	Store        *memory.MarketStore
	TradeLogPath string
	t            testing.TB
}

// NewTestServer creates a new test server with a fresh exchange
func NewTestServer(t testing.TB) *TestServer {
	tmpDir := t.TempDir()
	tradeLogPath := filepath.Join(tmpDir, "test_trades.log")

	tradeLog, err := file.NewTradeLog(tradeLogPath)
	require.NoError(t, err, "Failed to create trade log")

	store := memory.NewMarketStore()
	ex := exchange.NewExchange(store, store, tradeLog)

	marketHolder := handlers.NewMarketHolder(ex)
	handler := routes.SetupRoutes(marketHolder, routes.DefaultOptions())
	server := httptest.NewServer(handler)

	return &TestServer{
		Server:       server,
		Exchange:     ex,
		Store:        store,
		TradeLogPath: tradeLogPath,
		t:            t,
	}
}

// Close cleans up the test server
func (ts *TestServer) Close() {
	ts.Server.Close()
	ts.Exchange.Close()
	// Cleanup is automatic via t.TempDir()
}

// URL returns the base URL for the test server
func (ts *TestServer) URL() string {
	return ts.Server.URL
}

// Get makes a GET request to the test server
func (ts *TestServer) Get(path string) *http.Response {
	resp, err := http.Get(ts.URL() + path)
	require.NoError(ts.t, err, "GET request failed")
	return resp
}

// Post makes a POST request with JSON body
func (ts *TestServer) Post(path string, body interface{}) *http.Response {
	jsonBody, err := json.Marshal(body)
	require.NoError(ts.t, err, "Failed to marshal request body")

	resp, err := http.Post(ts.URL()+path, "application/json", bytes.NewBuffer(jsonBody))
	require.NoError(ts.t, err, "POST request failed")
	return resp
}

// DecodeJSON decodes JSON response into target
func DecodeJSON(t testing.TB, resp *http.Response, target interface{}) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")

	err = json.Unmarshal(body, target)
	require.NoError(t, err, "Failed to decode JSON response: %s", string(body))
}

// ReadTradeLogLines returns the raw decoded JSON-lines rows from the trade log
func (ts *TestServer) ReadTradeLogLines() []map[string]interface{} {
	data, err := os.ReadFile(ts.TradeLogPath)
	if err != nil {
		return nil
	}

	var rows []map[string]interface{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	for {
		var row map[string]interface{}
		if err := decoder.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			ts.t.Fatalf("Failed to decode trade log row: %v", err)
		}
		rows = append(rows, row)
	}
	return rows
}
