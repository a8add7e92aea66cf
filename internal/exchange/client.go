package exchange

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"trading_bot/internal/models"
)

const defaultBaseURL = "https://api.binance.com"

// Binance — REST-клиент публичного API. Ключи нужны только приватным
// эндпоинтам, для тикера и свечей достаточно пустых.
type Binance struct {
	http     *http.Client
	wsDialer *websocket.Dialer
	baseURL  string
	wsURL    string

	apiKey    string
	apiSecret string
}

func NewBinance() *Binance {
	return &Binance{
		http:     &http.Client{Timeout: 10 * time.Second},
		wsDialer: &websocket.Dialer{},
		baseURL:  defaultBaseURL,
		wsURL:    "wss://stream.binance.com:9443/ws",
	}
}

func (b *Binance) SetCreds(key, secret string) { b.apiKey, b.apiSecret = key, secret }

// pairOf: "BTC/USDT" -> "BTCUSDT"
func pairOf(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "/", ""))
}

// classifyStatus: сеть и 5xx/429 — ретраится, остальные отказы — нет.
func classifyStatus(status int) models.FetchErrorKind {
	if status >= 500 || status == http.StatusTooManyRequests {
		return models.FetchTransient
	}
	return models.FetchPermanent
}

func fetchErr(kind models.FetchErrorKind, op, symbol string, err error) *models.FetchError {
	return &models.FetchError{Kind: kind, Symbol: symbol, Op: op, Err: err}
}
