package models

import "time"

const (
	TradeBuy  = "buy"
	TradeSell = "sell"
)

type Trade struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Symbol    string    `json:"symbol"`
	Type      string    `json:"type"`
	Amount    Amount    `json:"amount"`
	Price     Price     `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

type CreateTradeRequest struct {
	Symbol string `json:"symbol" validate:"required,min=1,max=12"`
	Type   string `json:"type" validate:"required,oneof=buy sell"`
	Amount Amount `json:"amount" validate:"-"`
	Price  Price  `json:"price" validate:"-"`
}
