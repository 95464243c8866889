// Package report derives read-only views from the journal: per-account
// T-accounts with running balances, and aggregate financial statements.
// Everything here is a pure function of its inputs; nothing is persisted.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookkeeping-ledger/internal/domain/account"
	"github.com/bookkeeping-ledger/internal/domain/ledger"
)

// Entry is one row of a T-account: a journal line item with the running
// balance after applying it.
type Entry struct {
	Date        time.Time       `json:"date"`
	EntryNumber int64           `json:"entry_number"`
	Reason      string          `json:"reason"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// TAccount is the chronological view of one account's journal activity
type TAccount struct {
	AccountID    uuid.UUID       `json:"account_id"`
	AccountName  string          `json:"account_name"`
	AccountType  account.Type    `json:"account_type"`
	Entries      []Entry         `json:"entries"`
	TotalDebit   decimal.Decimal `json:"total_debit"`
	TotalCredit  decimal.Decimal `json:"total_credit"`
	FinalBalance decimal.Decimal `json:"final_balance"`
}

// BuildTAccount replays the account's journal lines into a T-account.
// Lines are ordered by date ascending, entry number ascending (the
// tie-break on equal dates), and the balance column is a prefix sum under
// the account type's sign convention: debit-normal accounts accumulate
// debit minus credit, credit-normal accounts the reverse.
func BuildTAccount(acc *account.Account, lines []ledger.Line) *TAccount {
	sorted := make([]ledger.Line, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].EntryNumber < sorted[j].EntryNumber
		}
		return sorted[i].Date.Before(sorted[j].Date)
	})

	view := &TAccount{
		AccountID:    acc.ID,
		AccountName:  acc.Name,
		AccountType:  acc.Type,
		Entries:      make([]Entry, 0, len(sorted)),
		TotalDebit:   decimal.Zero,
		TotalCredit:  decimal.Zero,
		FinalBalance: decimal.Zero,
	}

	balance := decimal.Zero
	for _, line := range sorted {
		if acc.Type.DebitNormal() {
			balance = balance.Add(line.Debit).Sub(line.Credit)
		} else {
			balance = balance.Add(line.Credit).Sub(line.Debit)
		}

		view.Entries = append(view.Entries, Entry{
			Date:        line.Date,
			EntryNumber: line.EntryNumber,
			Reason:      line.Reason,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Balance:     balance,
		})
		view.TotalDebit = view.TotalDebit.Add(line.Debit)
		view.TotalCredit = view.TotalCredit.Add(line.Credit)
	}
	view.FinalBalance = balance

	return view
}
