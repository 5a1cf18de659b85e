package bnf

import (
	"fmt"
	"levguard/pkg/types"
	"levguard/pkg/utils"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"
)

func parseWalletBalance(account *futures.Account) (decimal.Decimal, error) {
	if account == nil {
		return decimal.Zero, fmt.Errorf("empty futures account")
	}
	balance, err := utils.StrToDecimal(account.TotalWalletBalance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fail to convert wallet balance: %w", err)
	}
	return balance, nil
}

// findPosition nets every entry of the symbol, so hedge-mode LONG and SHORT legs offset each other.
// A symbol that is listed with a zero amount is still a position.
func findPosition(positions []*futures.AccountPosition, symbol string) (types.Position, error) {
	found := false
	qty := decimal.Zero
	entryPrice := decimal.Zero
	for _, pos := range positions {
		if pos == nil || pos.Symbol != symbol {
			continue
		}
		found = true
		amt, err := utils.StrToDecimal(pos.PositionAmt)
		if err != nil {
			return types.Position{}, fmt.Errorf("fail to convert position qty: %w", err)
		}
		if entryPrice.IsZero() && !amt.IsZero() {
			entryPrice, err = utils.StrToDecimal(pos.EntryPrice)
			if err != nil {
				return types.Position{}, fmt.Errorf("fail to convert entry price: %w", err)
			}
		}
		qty = qty.Add(amt)
	}
	if !found {
		return types.Position{}, fmt.Errorf("%w: %s", types.ErrPositionNotFound, symbol)
	}

	posSide := types.OrderSideBuy
	if qty.IsNegative() {
		posSide = types.OrderSideSell
	}
	return types.Position{
		Symbol:     symbol,
		Qty:        qty.Abs(),
		EntryPrice: entryPrice,
		Side:       posSide,
	}, nil
}

func findSpotBalance(balances []binance.Balance, asset string) (decimal.Decimal, error) {
	for _, b := range balances {
		if b.Asset == asset {
			return utils.StrToDecimal(b.Free)
		}
	}
	return decimal.Zero, nil
}
