package rebalance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func snapshot(margin, qty, price string) Snapshot {
	return Snapshot{
		Symbol:        "BTCUSDT",
		MarginBalance: d(margin),
		PositionQty:   d(qty),
		EntryPrice:    d("38000"),
		Price:         d(price),
		FetchedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCalculate_OverLeveraged(t *testing.T) {
	// 0.05 BTC @ 40000 = 2000 USDT notional against 1000 USDT margin
	plan, err := Calculate(snapshot("1000", "0.05", "40000"), DefaultParams())
	require.NoError(t, err)

	assert.True(t, plan.PositionValue.Equal(d("2000")), "position value: %v", plan.PositionValue)
	assert.True(t, plan.CurrentLeverage.Equal(d("2")), "leverage: %v", plan.CurrentLeverage)
	assert.True(t, plan.RequiredMargin.Round(2).Equal(d("1333.33")), "required margin: %v", plan.RequiredMargin)
	assert.True(t, plan.Transfer.Round(2).Equal(d("333.33")), "transfer: %v", plan.Transfer)
	assert.True(t, plan.ActionNeeded)

	// 333.33 / 40000 * 1.01
	assert.True(t, plan.SellSpot.Round(5).Equal(d("0.00842")), "sell: %v", plan.SellSpot)
	assert.True(t, plan.TargetLeverage.Equal(d("1.5")))
}

func TestCalculate_UnderLeveraged(t *testing.T) {
	plan, err := Calculate(snapshot("3000", "0.05", "40000"), DefaultParams())
	require.NoError(t, err)

	assert.True(t, plan.Transfer.Round(2).Equal(d("-1666.67")), "transfer: %v", plan.Transfer)
	assert.True(t, plan.SellSpot.IsZero())
	assert.False(t, plan.ActionNeeded)
}

func TestCalculate_ZeroMargin(t *testing.T) {
	plan, err := Calculate(snapshot("0", "0.05", "40000"), DefaultParams())
	require.NoError(t, err)

	assert.True(t, plan.CurrentLeverage.IsZero())
	assert.True(t, plan.Transfer.Round(2).Equal(d("1333.33")))
	assert.True(t, plan.ActionNeeded)
}

func TestCalculate_NegativeMargin(t *testing.T) {
	plan, err := Calculate(snapshot("-50", "0.05", "40000"), DefaultParams())
	require.NoError(t, err)
	assert.True(t, plan.CurrentLeverage.IsZero())
}

func TestCalculate_ShortPositionUsesAbsoluteQty(t *testing.T) {
	plan, err := Calculate(snapshot("1000", "-0.05", "40000"), DefaultParams())
	require.NoError(t, err)
	assert.True(t, plan.Qty.Equal(d("0.05")))
	assert.True(t, plan.CurrentLeverage.Equal(d("2")))
}

func TestCalculate_Threshold(t *testing.T) {
	tests := []struct {
		name         string
		margin       string
		actionNeeded bool
	}{
		// required margin is 1000 for 1500 notional at 1.5x
		{name: "delta above threshold", margin: "989.99", actionNeeded: true},
		{name: "delta equal to threshold", margin: "990", actionNeeded: false},
		{name: "delta below threshold", margin: "995", actionNeeded: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Calculate(snapshot(tt.margin, "0.05", "30000"), DefaultParams())
			require.NoError(t, err)
			assert.Equal(t, tt.actionNeeded, plan.ActionNeeded)
		})
	}
}

func TestCalculate_FeeBuffer(t *testing.T) {
	params := NewParams(1.5, 10, 0)
	plan, err := Calculate(snapshot("1000", "0.05", "40000"), params)
	require.NoError(t, err)
	assert.True(t, plan.SellSpot.Round(8).Equal(plan.Transfer.Div(d("40000")).Round(8)))
}

func TestCalculate_Errors(t *testing.T) {
	_, err := Calculate(snapshot("1000", "0.05", "0"), DefaultParams())
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = Calculate(snapshot("1000", "0.05", "40000"), NewParams(0, 10, 0.01))
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = Calculate(snapshot("1000", "0.05", "40000"), NewParams(1.5, -1, 0.01))
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestPlan_SpotShortfall(t *testing.T) {
	s := snapshot("1000", "0.05", "40000")
	plan, err := Calculate(s, DefaultParams())
	require.NoError(t, err)
	assert.False(t, plan.SpotShortfall(), "unknown spot balance is never a shortfall")

	low := d("0.001")
	s.SpotBalance = &low
	plan, err = Calculate(s, DefaultParams())
	require.NoError(t, err)
	assert.True(t, plan.SpotShortfall())

	high := d("1")
	s.SpotBalance = &high
	plan, err = Calculate(s, DefaultParams())
	require.NoError(t, err)
	assert.False(t, plan.SpotShortfall())
}
