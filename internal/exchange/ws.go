package exchange

import (
	"context"
	"strconv"
	"strings"
	"time"

	"trading_bot/pkg/logger"
)

// StreamPrices — последняя цена по symbol через miniTicker-стрим.
// Канал закрывается после исчерпания реконнектов или по ctx.
func (b *Binance) StreamPrices(ctx context.Context, symbol string) <-chan float64 {
	ch := make(chan float64)
	go func() {
		defer close(ch)
		url := b.wsURL + "/" + strings.ToLower(pairOf(symbol)) + "@miniTicker"
		retry := 0
		for {
			if ctx.Err() != nil {
				return
			}
			conn, _, err := b.wsDialer.DialContext(ctx, url, nil)
			if err != nil {
				retry++
				if retry > 8 {
					logger.Error("ws %s: giving up after %d dial attempts: %v", symbol, retry, err)
					return
				}
				time.Sleep(time.Duration(300*retry) * time.Millisecond)
				continue
			}
			retry = 0

			for {
				var frame struct {
					Close string `json:"c"`
				}
				if err := conn.ReadJSON(&frame); err != nil {
					_ = conn.Close()
					break
				}
				price, err := strconv.ParseFloat(frame.Close, 64)
				if err != nil || price <= 0 {
					continue
				}
				select {
				case <-ctx.Done():
					_ = conn.Close()
					return
				case ch <- price:
				}
			}
		}
	}()
	return ch
}
