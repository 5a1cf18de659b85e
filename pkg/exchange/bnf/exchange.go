package bnf

import (
	"context"
	_ "embed"
	"fmt"
	"levguard/config"
	"levguard/pkg/types"
	"levguard/pkg/utils"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/futures"
)

//go:embed config/symbol.json
var rawSymbolMap []byte

type BnfExchange struct {
	sClient *binance.Client
	fClient *futures.Client

	PriceSource  types.PriceSource
	SymbolMapU2L map[string]string
	SymbolMapL2U map[string]string

	logger *log.Entry
}

func New(exchgConfig *config.ExchangeConfig) (*BnfExchange, error) {
	// (1) environment
	testnet := exchgConfig.Testnet != nil && *exchgConfig.Testnet
	binance.UseTestnet = testnet
	futures.UseTestnet = testnet

	// (2) load symbol
	symbolMapU2L, err := utils.ParseSymbolMap(rawSymbolMap)
	if err != nil {
		return nil, err
	}
	symbolMapL2U := utils.ReverseStrMap(symbolMapU2L)

	// (3) validate config
	key, secret, err := config.LoadExchangeCredentials(exchgConfig.EnvPrefix)
	if err != nil {
		return nil, err
	}

	e := newWithClients(binance.NewClient(key, secret), futures.NewClient(key, secret), exchgConfig.PriceSource)
	e.SymbolMapU2L = symbolMapU2L
	e.SymbolMapL2U = symbolMapL2U
	e.logger = e.logger.WithField("testnet", testnet)
	return e, nil
}

func newWithClients(sClient *binance.Client, fClient *futures.Client, priceSource types.PriceSource) *BnfExchange {
	return &BnfExchange{
		sClient:      sClient,
		fClient:      fClient,
		PriceSource:  priceSource,
		SymbolMapU2L: map[string]string{},
		SymbolMapL2U: map[string]string{},
		logger:       log.WithFields(log.Fields{"exchange": types.ExchangeBnf}),
	}
}

func (e *BnfExchange) Name() types.ExchangeName {
	return types.ExchangeBnf
}

// ╔═════════════╗
//     Account
// ╚═════════════╝

// GetAccount reads the wallet balance and the symbol's position from one
// futures account response.
func (e *BnfExchange) GetAccount(ctx context.Context, symbol string) (decimal.Decimal, types.Position, error) {
	symbol = e.ToLocSymbol(symbol)
	account, err := e.fClient.NewGetAccountService().Do(ctx)
	if err != nil {
		return decimal.Zero, types.Position{}, fmt.Errorf("fail to get futures account: %w", err)
	}
	balance, err := parseWalletBalance(account)
	if err != nil {
		return decimal.Zero, types.Position{}, err
	}
	pos, err := findPosition(account.Positions, symbol)
	if err != nil {
		return balance, types.Position{}, err
	}
	return balance, pos, nil
}

func (e *BnfExchange) GetSpotBalance(ctx context.Context, asset string) (decimal.Decimal, error) {
	account, err := e.sClient.NewGetAccountService().Do(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fail to get spot account: %w", err)
	}
	return findSpotBalance(account.Balances, asset)
}

// ╔═════════════╗
//      Price
// ╚═════════════╝

func (e *BnfExchange) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if e.PriceSource == types.PriceSourceMark {
		return e.GetMarkPrice(ctx, symbol)
	}
	return e.GetLastPrice(ctx, symbol)
}

func (e *BnfExchange) GetLastPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	symbol = e.ToLocSymbol(symbol)
	res, err := e.fClient.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fail to get ticker price: %w", err)
	}
	for _, price := range res {
		if price.Symbol == symbol {
			return utils.StrToDecimal(price.Price)
		}
	}
	return decimal.Zero, fmt.Errorf("bad symbol: %s", symbol)
}

func (e *BnfExchange) GetMarkPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	symbol = e.ToLocSymbol(symbol)
	res, err := e.fClient.NewPremiumIndexService().Symbol(symbol).Do(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fail to get mark price: %w", err)
	}
	for _, price := range res {
		if price.Symbol == symbol {
			return utils.StrToDecimal(price.MarkPrice)
		}
	}
	return decimal.Zero, fmt.Errorf("bad symbol: %s", symbol)
}

// ╔═════════════╗
//     Symbol
// ╚═════════════╝

func (e *BnfExchange) ToUniSymbol(locSymbol string) string {
	if uniSymbol, ok := e.SymbolMapL2U[locSymbol]; ok {
		return uniSymbol
	}
	e.logger.Debugf("no universal symbol for '%v', using it as is", locSymbol)
	return locSymbol
}

func (e *BnfExchange) ToLocSymbol(uniSymbol string) string {
	if locSymbol, ok := e.SymbolMapU2L[uniSymbol]; ok {
		return locSymbol
	}
	// unknown pairs follow the BASE/QUOTE -> BASEQUOTE convention
	return strings.ToUpper(strings.ReplaceAll(uniSymbol, "/", ""))
}
