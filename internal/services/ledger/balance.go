package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Credit returns balance + amount at ledger precision.
func Credit(balance, amount decimal.Decimal) decimal.Decimal {
	return balance.Add(amount).Round(BalanceScale)
}

// CanDebit reports whether amount can be taken from balance without going negative.
func CanDebit(balance, amount decimal.Decimal) bool {
	return balance.GreaterThanOrEqual(amount)
}

// Debit returns balance - amount at ledger precision. Callers must check
// CanDebit first; a negative result is a programming error.
func Debit(balance, amount decimal.Decimal) decimal.Decimal {
	next := balance.Sub(amount).Round(BalanceScale)
	if next.IsNegative() {
		panic(fmt.Sprintf("ledger: debit of %s from %s goes negative", amount, balance))
	}
	return next
}
