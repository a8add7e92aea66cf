package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"

	"trading_bot/internal/exchange"
)

// Разовая проверка: цена и суточное изменение по символу, без кеша и ретраев.
//
//	go run ./cmd/price BTC/USDT
func main() {
	_ = godotenv.Load()

	symbol := "BTC/USDT"
	if len(os.Args) > 1 {
		symbol = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	bn := exchange.NewBinance()
	bn.SetCreds(os.Getenv("API_KEY"), os.Getenv("API_SECRET"))

	t, err := bn.GetTicker(ctx, symbol)
	if err != nil {
		log.Fatalf("ticker %s: %v", symbol, err)
	}

	out, _ := sonic.MarshalIndent(t, "", "  ")
	fmt.Println(string(out))
}
