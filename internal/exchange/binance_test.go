package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading_bot/internal/models"
	"trading_bot/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func testClient(handler http.HandlerFunc) (*Binance, *httptest.Server) {
	srv := httptest.NewServer(handler)
	b := NewBinance()
	b.baseURL = srv.URL
	return b, srv
}

func TestGetTickerNormalizes(t *testing.T) {
	var gotPath string
	b, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		_, _ = w.Write([]byte(`{
			"symbol": "BTCUSDT",
			"lastPrice": "42000.50",
			"priceChangePercent": "-1.25",
			"volume": "1000.5",
			"quoteVolume": "42000000"
		}`))
	})
	defer srv.Close()

	ticker, err := b.GetTicker(context.Background(), "BTC/USDT")
	require.NoError(t, err)

	assert.Equal(t, "/api/v3/ticker/24hr?symbol=BTCUSDT", gotPath)
	assert.Equal(t, "BTC/USDT", ticker.Symbol, "наружу отдаём канонический символ")
	assert.Equal(t, 42000.50, ticker.LastPrice)
	assert.Equal(t, -1.25, ticker.ChangePercent24h)
	assert.Equal(t, 1000.5, ticker.Volume24h)
}

func TestGetCandlesNormalizes(t *testing.T) {
	b, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1h", r.URL.Query().Get("interval"))
		assert.Equal(t, "ETHUSDT", r.URL.Query().Get("symbol"))
		_, _ = w.Write([]byte(`[
			[1700000000000, "2000.0", "2010.5", "1995.0", "2005.0", "321.5", 1700003599999],
			[1700003600000, "2005.0", "2020.0", "2001.0", "2018.0", "150.0", 1700007199999]
		]`))
	})
	defer srv.Close()

	candles, err := b.GetCandles(context.Background(), "ETH/USDT", "1h", 2)
	require.NoError(t, err)
	require.Len(t, candles, 2)

	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), candles[0].OpenTime)
	assert.Equal(t, 2000.0, candles[0].Open)
	assert.Equal(t, 2010.5, candles[0].High)
	assert.Equal(t, 1995.0, candles[0].Low)
	assert.Equal(t, 2005.0, candles[0].Close)
	assert.Equal(t, 321.5, candles[0].Volume)
	assert.Equal(t, 2018.0, candles[1].Close)
}

func TestServerErrorIsTransient(t *testing.T) {
	b, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	})
	defer srv.Close()

	_, err := b.GetTicker(context.Background(), "BTC/USDT")
	require.Error(t, err)

	fe, ok := models.AsFetchError(err)
	require.True(t, ok)
	assert.True(t, fe.Temporary())
}

func TestRateLimitIsTransient(t *testing.T) {
	b, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":-1003,"msg":"Too many requests"}`, http.StatusTooManyRequests)
	})
	defer srv.Close()

	_, err := b.GetTicker(context.Background(), "BTC/USDT")
	require.Error(t, err)

	fe, ok := models.AsFetchError(err)
	require.True(t, ok)
	assert.True(t, fe.Temporary())
}

func TestBadRequestIsPermanent(t *testing.T) {
	b, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":-1121,"msg":"Invalid symbol."}`, http.StatusBadRequest)
	})
	defer srv.Close()

	_, err := b.GetTicker(context.Background(), "NOPE/USDT")
	require.Error(t, err)

	fe, ok := models.AsFetchError(err)
	require.True(t, ok)
	assert.False(t, fe.Temporary())
}

func TestNetworkErrorIsTransient(t *testing.T) {
	b, srv := testClient(func(w http.ResponseWriter, r *http.Request) {})
	srv.Close() // соединение отвалится

	_, err := b.GetCandles(context.Background(), "BTC/USDT", "1h", 10)
	require.Error(t, err)

	fe, ok := models.AsFetchError(err)
	require.True(t, ok)
	assert.True(t, fe.Temporary())
}

func TestPairOf(t *testing.T) {
	assert.Equal(t, "BTCUSDT", pairOf("BTC/USDT"))
	assert.Equal(t, "ETHUSDT", pairOf("eth/usdt"))
	assert.Equal(t, "BTCUSDT", pairOf("BTCUSDT"))
}
