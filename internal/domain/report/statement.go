package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bookkeeping-ledger/internal/domain/account"
)

// FinancialStatement aggregates account balances by type over a date range.
// Equity is reported with net income rolled in (retained earnings).
type FinancialStatement struct {
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
	Equity      decimal.Decimal `json:"equity"`
	Revenue     decimal.Decimal `json:"revenue"`
	Expenses    decimal.Decimal `json:"expenses"`
	NetIncome   decimal.Decimal `json:"net_income"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
}

// ResultsSummary is the income-statement slice of a financial statement
type ResultsSummary struct {
	Revenue   decimal.Decimal `json:"revenue"`
	Expenses  decimal.Decimal `json:"expenses"`
	NetIncome decimal.Decimal `json:"net_income"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
}

// AccountBalance is one account's contribution to a statement: its type and
// its final T-account balance.
type AccountBalance struct {
	Type         account.Type
	FinalBalance decimal.Decimal
}

// ZeroStatement returns an all-zero statement echoing the requested range.
// A period with no journal activity is a valid, empty statement, not an
// error.
func ZeroStatement(start, end time.Time) FinancialStatement {
	return FinancialStatement{
		Assets:      decimal.Zero,
		Liabilities: decimal.Zero,
		Equity:      decimal.Zero,
		Revenue:     decimal.Zero,
		Expenses:    decimal.Zero,
		NetIncome:   decimal.Zero,
		StartDate:   start,
		EndDate:     end,
	}
}

// BuildStatement sums final balances by account type, derives net income as
// revenue minus expenses, and rolls net income into reported equity.
func BuildStatement(start, end time.Time, balances []AccountBalance) FinancialStatement {
	stmt := ZeroStatement(start, end)

	for _, b := range balances {
		switch b.Type {
		case account.TypeAsset:
			stmt.Assets = stmt.Assets.Add(b.FinalBalance)
		case account.TypeLiability:
			stmt.Liabilities = stmt.Liabilities.Add(b.FinalBalance)
		case account.TypeEquity:
			stmt.Equity = stmt.Equity.Add(b.FinalBalance)
		case account.TypeRevenue:
			stmt.Revenue = stmt.Revenue.Add(b.FinalBalance)
		case account.TypeExpense:
			stmt.Expenses = stmt.Expenses.Add(b.FinalBalance)
		}
	}

	stmt.NetIncome = stmt.Revenue.Sub(stmt.Expenses)
	stmt.Equity = stmt.Equity.Add(stmt.NetIncome)

	return stmt
}

// Summary projects the income-statement fields out of the statement
func (s FinancialStatement) Summary() ResultsSummary {
	return ResultsSummary{
		Revenue:   s.Revenue,
		Expenses:  s.Expenses,
		NetIncome: s.NetIncome,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
	}
}
