// Package dummy serves a fixed account state from config, for running the
// dashboard without exchange credentials.
package dummy

import (
	"context"
	"fmt"
	"levguard/config"
	"levguard/pkg/types"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

type DummyExchange struct {
	mu sync.RWMutex

	marginBalance decimal.Decimal
	position      *types.Position // nil means no position
	price         decimal.Decimal
	spotBalance   decimal.Decimal
	err           error // returned by every query when set
}

func New(exchgConfig *config.ExchangeConfig) (*DummyExchange, error) {
	cfg := exchgConfig.Dummy
	if cfg == nil {
		cfg = &config.DummyConfig{}
	}
	e := &DummyExchange{
		marginBalance: decimal.NewFromFloat(cfg.MarginBalance),
		price:         decimal.NewFromFloat(cfg.Price),
		spotBalance:   decimal.NewFromFloat(cfg.SpotBalance),
	}
	if !cfg.NoPosition {
		e.SetPosition(decimal.NewFromFloat(cfg.PositionQty), decimal.NewFromFloat(cfg.EntryPrice))
	}
	return e, nil
}

func (e *DummyExchange) Name() types.ExchangeName {
	return types.ExchangeDummy
}

// ╔═════════════╗
//     Setters
// ╚═════════════╝

func (e *DummyExchange) SetMarginBalance(balance decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.marginBalance = balance
}

func (e *DummyExchange) SetPosition(qty decimal.Decimal, entryPrice decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	side := types.OrderSideBuy
	if qty.IsNegative() {
		side = types.OrderSideSell
	}
	e.position = &types.Position{Qty: qty.Abs(), EntryPrice: entryPrice, Side: side}
}

func (e *DummyExchange) ClearPosition() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.position = nil
}

func (e *DummyExchange) SetPrice(price decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.price = price
}

func (e *DummyExchange) SetError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = err
}

// ╔═════════════╗
//     Queries
// ╚═════════════╝

func (e *DummyExchange) GetAccount(_ context.Context, symbol string) (decimal.Decimal, types.Position, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.err != nil {
		return decimal.Zero, types.Position{}, e.err
	}
	if e.position == nil {
		return e.marginBalance, types.Position{}, fmt.Errorf("%w: %s", types.ErrPositionNotFound, e.ToLocSymbol(symbol))
	}
	pos := *e.position
	pos.Symbol = e.ToLocSymbol(symbol)
	return e.marginBalance, pos, nil
}

func (e *DummyExchange) GetPrice(_ context.Context, _ string) (decimal.Decimal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.err != nil {
		return decimal.Zero, e.err
	}
	return e.price, nil
}

func (e *DummyExchange) GetSpotBalance(_ context.Context, _ string) (decimal.Decimal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.err != nil {
		return decimal.Zero, e.err
	}
	return e.spotBalance, nil
}

func (e *DummyExchange) ToUniSymbol(locSymbol string) string {
	return locSymbol
}

func (e *DummyExchange) ToLocSymbol(uniSymbol string) string {
	return strings.ReplaceAll(uniSymbol, "/", "")
}
