package accounting

import (
	"fmt"

	"github.com/finacore/finacore_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum tolerated gap between debit and credit sums
// of a posted transaction. Arithmetic is decimal throughout, so the engine
// never produces a gap itself; the tolerance exists for data migrated from
// float-based systems.
var BalanceTolerance = decimal.RequireFromString("0.01")

// ValidateLines checks the structural rules of a transaction's lines: at least
// two lines, at least two distinct accounts, and exactly one positive side per line.
func ValidateLines(lines []domain.TransactionLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("transaction must have at least two lines")
	}

	accounts := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		accounts[line.AccountID] = struct{}{}

		debitSet := line.DebitAmount.IsPositive()
		creditSet := line.CreditAmount.IsPositive()
		if debitSet == creditSet {
			return fmt.Errorf("line for account %s must carry exactly one of debit or credit", line.AccountID)
		}
		if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() {
			return fmt.Errorf("line for account %s carries a negative amount", line.AccountID)
		}
	}
	if len(accounts) < 2 {
		return fmt.Errorf("transaction must affect at least two different accounts")
	}
	return nil
}

// SumLines returns the total debits and total credits of a set of lines.
func SumLines(lines []domain.TransactionLine) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, line := range lines {
		debits = debits.Add(line.DebitAmount)
		credits = credits.Add(line.CreditAmount)
	}
	return debits, credits
}

// ValidateBalanced checks the double-entry invariant: total debits must equal
// total credits within BalanceTolerance.
func ValidateBalanced(lines []domain.TransactionLine) error {
	debits, credits := SumLines(lines)
	if debits.Sub(credits).Abs().GreaterThan(BalanceTolerance) {
		return fmt.Errorf("debits %s do not balance credits %s", debits.String(), credits.String())
	}
	return nil
}

// ItemAmount computes a billing item line total: quantity * unitPrice.
func ItemAmount(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// DocumentTotals derives subtotal, tax and total from billing item amounts and
// their per-line percentage tax rates.
func DocumentTotals(amounts []decimal.Decimal, taxRates []decimal.Decimal) (subtotal, tax, total decimal.Decimal) {
	subtotal, tax = decimal.Zero, decimal.Zero
	hundred := decimal.NewFromInt(100)
	for i, amount := range amounts {
		subtotal = subtotal.Add(amount)
		tax = tax.Add(amount.Mul(taxRates[i]).Div(hundred))
	}
	return subtotal, tax, subtotal.Add(tax)
}
