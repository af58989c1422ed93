package accounting_test

import (
	"testing"

	"github.com/finacore/finacore_backend/internal/core/domain"
	"github.com/finacore/finacore_backend/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func debitLine(accountID, amount string) domain.TransactionLine {
	return domain.TransactionLine{
		LineID:       uuid.NewString(),
		AccountID:    accountID,
		DebitAmount:  dec(amount),
		CreditAmount: decimal.Zero,
	}
}

func creditLine(accountID, amount string) domain.TransactionLine {
	return domain.TransactionLine{
		LineID:       uuid.NewString(),
		AccountID:    accountID,
		DebitAmount:  decimal.Zero,
		CreditAmount: dec(amount),
	}
}

func TestValidateLines(t *testing.T) {
	cash := uuid.NewString()
	sales := uuid.NewString()

	t.Run("balanced pair passes", func(t *testing.T) {
		lines := []domain.TransactionLine{
			debitLine(cash, "100"),
			creditLine(sales, "100"),
		}
		assert.NoError(t, accounting.ValidateLines(lines))
	})

	t.Run("fewer than two lines", func(t *testing.T) {
		lines := []domain.TransactionLine{debitLine(cash, "100")}
		assert.Error(t, accounting.ValidateLines(lines))
	})

	t.Run("single account on both sides", func(t *testing.T) {
		lines := []domain.TransactionLine{
			debitLine(cash, "100"),
			creditLine(cash, "100"),
		}
		assert.Error(t, accounting.ValidateLines(lines))
	})

	t.Run("line with both sides set", func(t *testing.T) {
		bad := debitLine(cash, "100")
		bad.CreditAmount = dec("100")
		lines := []domain.TransactionLine{bad, creditLine(sales, "100")}
		assert.Error(t, accounting.ValidateLines(lines))
	})

	t.Run("line with neither side set", func(t *testing.T) {
		empty := domain.TransactionLine{
			LineID:       uuid.NewString(),
			AccountID:    cash,
			DebitAmount:  decimal.Zero,
			CreditAmount: decimal.Zero,
		}
		lines := []domain.TransactionLine{empty, creditLine(sales, "100")}
		assert.Error(t, accounting.ValidateLines(lines))
	})

	t.Run("negative amount", func(t *testing.T) {
		bad := creditLine(sales, "100")
		bad.DebitAmount = dec("-5")
		lines := []domain.TransactionLine{debitLine(cash, "100"), bad}
		assert.Error(t, accounting.ValidateLines(lines))
	})
}

func TestValidateBalanced(t *testing.T) {
	cash := uuid.NewString()
	sales := uuid.NewString()

	t.Run("exact balance", func(t *testing.T) {
		lines := []domain.TransactionLine{
			debitLine(cash, "250.75"),
			creditLine(sales, "250.75"),
		}
		assert.NoError(t, accounting.ValidateBalanced(lines))
	})

	t.Run("gap within tolerance", func(t *testing.T) {
		lines := []domain.TransactionLine{
			debitLine(cash, "100.00"),
			creditLine(sales, "100.01"),
		}
		assert.NoError(t, accounting.ValidateBalanced(lines))
	})

	t.Run("gap beyond tolerance", func(t *testing.T) {
		lines := []domain.TransactionLine{
			debitLine(cash, "100.00"),
			creditLine(sales, "100.02"),
		}
		assert.Error(t, accounting.ValidateBalanced(lines))
	})

	t.Run("split legs", func(t *testing.T) {
		lines := []domain.TransactionLine{
			debitLine(cash, "60"),
			debitLine(uuid.NewString(), "40"),
			creditLine(sales, "100"),
		}
		assert.NoError(t, accounting.ValidateBalanced(lines))
	})
}

func TestSumLines(t *testing.T) {
	lines := []domain.TransactionLine{
		debitLine(uuid.NewString(), "60"),
		debitLine(uuid.NewString(), "40"),
		creditLine(uuid.NewString(), "99.5"),
	}
	debits, credits := accounting.SumLines(lines)
	assert.True(t, debits.Equal(dec("100")))
	assert.True(t, credits.Equal(dec("99.5")))
}

func TestItemAmount(t *testing.T) {
	assert.True(t, accounting.ItemAmount(dec("10"), dec("99.99")).Equal(dec("999.9")))
	assert.True(t, accounting.ItemAmount(dec("0.5"), dec("10")).Equal(dec("5")))
	assert.True(t, accounting.ItemAmount(dec("0"), dec("100")).IsZero())
}

func TestDocumentTotals(t *testing.T) {
	amounts := []decimal.Decimal{dec("1000"), dec("500")}
	rates := []decimal.Decimal{dec("10"), dec("0")}

	subtotal, tax, total := accounting.DocumentTotals(amounts, rates)

	require.True(t, subtotal.Equal(dec("1500")))
	require.True(t, tax.Equal(dec("100")))
	require.True(t, total.Equal(dec("1600")))
}

func TestDocumentTotalsEmpty(t *testing.T) {
	subtotal, tax, total := accounting.DocumentTotals(nil, nil)
	assert.True(t, subtotal.IsZero())
	assert.True(t, tax.IsZero())
	assert.True(t, total.IsZero())
}
