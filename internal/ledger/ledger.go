// Package ledger holds the pure balance arithmetic applied to user
// accounts. Nothing here touches the database; callers read the current
// balance, compute the new one, and persist it inside their own
// transaction boundary.
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"tradesphere/internal/models"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

// TradePolicy names how a trade affects the cash balance.
type TradePolicy int

const (
	// DebitBothSides debits cash for every trade regardless of
	// direction. This matches the legacy behavior and is the default.
	DebitBothSides TradePolicy = iota
	// DirectionAware debits buys and credits sells.
	DirectionAware
)

func ParseTradePolicy(s string) (TradePolicy, error) {
	switch s {
	case "", "debit-both":
		return DebitBothSides, nil
	case "direction-aware":
		return DirectionAware, nil
	}
	return DebitBothSides, fmt.Errorf("unknown trade policy %q", s)
}

func (p TradePolicy) String() string {
	if p == DirectionAware {
		return "direction-aware"
	}
	return "debit-both"
}

// TradeCost is the cash value of a trade: amount x price, rounded to
// two decimal places.
func TradeCost(amount, price decimal.Decimal) decimal.Decimal {
	return amount.Mul(price).Round(2)
}

// ApplyTrade returns the balance after executing a trade of the given
// cost. Debits that would take the balance below zero fail with
// ErrInsufficientFunds.
func ApplyTrade(balance decimal.Decimal, side string, cost decimal.Decimal, policy TradePolicy) (decimal.Decimal, error) {
	if policy == DirectionAware && side == models.TradeSell {
		return balance.Add(cost).Round(2), nil
	}
	return debit(balance, cost)
}

// ApplyInvestment returns the balance after placing funds into an
// investment plan.
func ApplyInvestment(balance, amount decimal.Decimal) (decimal.Decimal, error) {
	return debit(balance, amount)
}

// ApplyTransaction returns the balance after an admin approves a
// deposit or withdrawal. A withdrawal approval may drive the balance
// negative: the admin reviewing the request is the control point, so no
// funds check is applied here.
func ApplyTransaction(balance decimal.Decimal, txType string, amount decimal.Decimal) (decimal.Decimal, error) {
	switch txType {
	case models.TransactionDeposit:
		return balance.Add(amount).Round(2), nil
	case models.TransactionWithdrawal:
		return balance.Sub(amount).Round(2), nil
	}
	return balance, fmt.Errorf("unknown transaction type %q", txType)
}

func debit(balance, amount decimal.Decimal) (decimal.Decimal, error) {
	next := balance.Sub(amount).Round(2)
	if next.IsNegative() {
		return balance, ErrInsufficientFunds
	}
	return next, nil
}
