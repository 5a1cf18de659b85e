package types

import "github.com/shopspring/decimal"

type Position struct {
	Symbol     string          `json:"symbol"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	Qty        decimal.Decimal `json:"qty"` // absolute size in base asset
	Side       OrderSide       `json:"side"`
}
