package types

type OrderSide string

const (
	OrderSideBuy  = OrderSide("buy")
	OrderSideSell = OrderSide("sell")
)
