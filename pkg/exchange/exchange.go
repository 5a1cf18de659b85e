package exchange

import (
	"context"
	"errors"
	"levguard/config"
	"levguard/pkg/exchange/bnf"
	"levguard/pkg/exchange/dummy"
	"levguard/pkg/types"

	"github.com/shopspring/decimal"
)

// Exchange is the read-only view of an account levguard needs.
// All symbols are universal symbols (e.g. BTC/USDT).
type Exchange interface {
	Name() types.ExchangeName

	// GetAccount returns the futures wallet balance (quote currency) and the
	// symbol's position, both taken from the same account read.
	GetAccount(ctx context.Context, symbol string) (decimal.Decimal, types.Position, error)
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	GetSpotBalance(ctx context.Context, asset string) (decimal.Decimal, error) // free balance

	ToUniSymbol(locSymbol string) string
	ToLocSymbol(uniSymbol string) string
}

// ErrPositionNotFound is returned by GetAccount when the account has no entry for the symbol.
var ErrPositionNotFound = types.ErrPositionNotFound

// creates a new exchange instance based on the provided config
func NewExchange(exchgConfig *config.ExchangeConfig) (Exchange, error) {
	switch exchgConfig.ExchangeName {
	case types.ExchangeBnf:
		return bnf.New(exchgConfig)
	case types.ExchangeDummy:
		return dummy.New(exchgConfig)
	default:
		return nil, errors.New("unsupported exchange")
	}
}
