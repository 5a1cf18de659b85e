// Package rebalance computes how far a futures account's leverage is from its
// target and what it takes to restore it.
//
// Target formula: PositionValue / (MarginBalance + Transfer) = TargetLeverage,
// hence Transfer = PositionValue / TargetLeverage - MarginBalance.
package rebalance

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrice  = errors.New("invalid price")
	ErrInvalidParams = errors.New("invalid rebalance params")
)

// Snapshot is the account state as reported by the exchange.
type Snapshot struct {
	Symbol        string
	MarginBalance decimal.Decimal // futures wallet balance in quote currency
	PositionQty   decimal.Decimal // base asset
	EntryPrice    decimal.Decimal
	Price         decimal.Decimal
	SpotBalance   *decimal.Decimal // free spot base asset, nil when unknown
	FetchedAt     time.Time
}

type Params struct {
	TargetLeverage  decimal.Decimal
	ActionThreshold decimal.Decimal // quote currency
	FeeBuffer       decimal.Decimal // 0.01 means sell 1% more than strictly needed
}

func DefaultParams() Params {
	return Params{
		TargetLeverage:  decimal.NewFromFloat(1.5),
		ActionThreshold: decimal.NewFromInt(10),
		FeeBuffer:       decimal.NewFromFloat(0.01),
	}
}

func NewParams(targetLeverage, actionThreshold, feeBuffer float64) Params {
	return Params{
		TargetLeverage:  decimal.NewFromFloat(targetLeverage),
		ActionThreshold: decimal.NewFromFloat(actionThreshold),
		FeeBuffer:       decimal.NewFromFloat(feeBuffer),
	}
}

func (p Params) Validate() error {
	if !p.TargetLeverage.IsPositive() {
		return fmt.Errorf("%w: target leverage %v", ErrInvalidParams, p.TargetLeverage)
	}
	if p.ActionThreshold.IsNegative() || p.FeeBuffer.IsNegative() {
		return fmt.Errorf("%w: threshold %v, fee buffer %v", ErrInvalidParams, p.ActionThreshold, p.FeeBuffer)
	}
	return nil
}

// Plan is derived from a single Snapshot and never mutated.
type Plan struct {
	Symbol          string
	Price           decimal.Decimal
	Qty             decimal.Decimal
	EntryPrice      decimal.Decimal
	PositionValue   decimal.Decimal
	MarginBalance   decimal.Decimal
	CurrentLeverage decimal.Decimal
	TargetLeverage  decimal.Decimal
	RequiredMargin  decimal.Decimal
	Transfer        decimal.Decimal // positive: add margin, negative: margin can be withdrawn
	SellSpot        decimal.Decimal // base asset to sell on spot to fund Transfer
	ActionNeeded    bool
	SpotAvailable   *decimal.Decimal
	FetchedAt       time.Time
}

func Calculate(s Snapshot, p Params) (Plan, error) {
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	if !s.Price.IsPositive() {
		return Plan{}, fmt.Errorf("%w: %v for %s", ErrInvalidPrice, s.Price, s.Symbol)
	}

	qty := s.PositionQty.Abs()
	positionValue := qty.Mul(s.Price)

	currentLeverage := decimal.Zero
	if s.MarginBalance.IsPositive() {
		currentLeverage = positionValue.Div(s.MarginBalance)
	}

	requiredMargin := positionValue.Div(p.TargetLeverage)
	transfer := requiredMargin.Sub(s.MarginBalance)

	sellSpot := decimal.Zero
	if transfer.IsPositive() {
		sellSpot = transfer.Div(s.Price).Mul(decimal.NewFromInt(1).Add(p.FeeBuffer))
	}

	return Plan{
		Symbol:          s.Symbol,
		Price:           s.Price,
		Qty:             qty,
		EntryPrice:      s.EntryPrice,
		PositionValue:   positionValue,
		MarginBalance:   s.MarginBalance,
		CurrentLeverage: currentLeverage,
		TargetLeverage:  p.TargetLeverage,
		RequiredMargin:  requiredMargin,
		Transfer:        transfer,
		SellSpot:        sellSpot,
		ActionNeeded:    transfer.GreaterThan(p.ActionThreshold),
		SpotAvailable:   s.SpotBalance,
		FetchedAt:       s.FetchedAt,
	}, nil
}

// SpotShortfall reports whether the known spot balance cannot cover SellSpot.
func (p Plan) SpotShortfall() bool {
	return p.SpotAvailable != nil && p.SellSpot.GreaterThan(*p.SpotAvailable)
}
