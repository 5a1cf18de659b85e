package monitor

import (
	"levguard/pkg/rebalance"
	"levguard/pkg/utils"
	"time"
)

// Status is either a plan or the error that prevented computing one.
type Status struct {
	Plan      *rebalance.Plan
	Err       error
	UpdatedAt time.Time
}

func (s *Status) OK() bool {
	return s != nil && s.Err == nil && s.Plan != nil
}

// Report is the JSON body of a successful status.
type Report struct {
	Price           float64     `json:"price"`
	Amt             float64     `json:"amt"`
	EntryPrice      float64     `json:"entry_price"`
	PositionValue   float64     `json:"position_value"`
	MarginBalance   float64     `json:"margin_balance"`
	CurrentLeverage float64     `json:"current_leverage"`
	TargetLeverage  float64     `json:"target_leverage"`
	ActionNeeded    bool        `json:"action_needed"`
	Instruction     Instruction `json:"instruction"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type Instruction struct {
	TransferUsdt  float64  `json:"transfer_usdt"` // positive: add margin, negative: margin can be withdrawn
	SellSpotBtc   float64  `json:"sell_spot_btc"`
	SpotAvailable *float64 `json:"spot_available,omitempty"`
}

// ErrorReport is the JSON body of a failed status; it carries no numeric fields.
type ErrorReport struct {
	Error string `json:"error"`
}

func NewReport(plan rebalance.Plan, updatedAt time.Time) Report {
	instruction := Instruction{
		TransferUsdt: utils.DecimalToFloat(plan.Transfer, 2),
		SellSpotBtc:  utils.DecimalToFloat(plan.SellSpot, 5),
	}
	if plan.SpotAvailable != nil {
		spot := plan.SpotAvailable.InexactFloat64()
		instruction.SpotAvailable = &spot
	}
	return Report{
		Price:           plan.Price.InexactFloat64(),
		Amt:             plan.Qty.InexactFloat64(),
		EntryPrice:      plan.EntryPrice.InexactFloat64(),
		PositionValue:   utils.DecimalToFloat(plan.PositionValue, 2),
		MarginBalance:   utils.DecimalToFloat(plan.MarginBalance, 2),
		CurrentLeverage: utils.DecimalToFloat(plan.CurrentLeverage, 2),
		TargetLeverage:  plan.TargetLeverage.InexactFloat64(),
		ActionNeeded:    plan.ActionNeeded,
		Instruction:     instruction,
		UpdatedAt:       updatedAt,
	}
}

// Body returns the value rendered by GET /api/status.
func (s *Status) Body() any {
	if s == nil {
		return ErrorReport{Error: "status not available yet"}
	}
	if s.Err != nil {
		return ErrorReport{Error: s.Err.Error()}
	}
	if s.Plan == nil {
		return ErrorReport{Error: "status not available yet"}
	}
	return NewReport(*s.Plan, s.UpdatedAt)
}
