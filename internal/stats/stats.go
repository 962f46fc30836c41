// Package stats derives the dashboard summary figures from the loaded
// transaction collection. Computation is pure: no state is kept and the
// same input always yields the same output.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/confia-app/confia/internal/domain"
)

// Summary is the derived statistics snapshot shown on the dashboard.
// Balance and NetProfit are the same number in this system; the dashboard
// labels them separately, so both are kept.
type Summary struct {
	Balance      decimal.Decimal `json:"balance"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	NetProfit    decimal.Decimal `json:"net_profit"`
}

// Compute aggregates the transaction collection. An empty (or nil) input
// yields an all-zero summary.
func Compute(txs []domain.Transaction) Summary {
	income := decimal.Zero
	expense := decimal.Zero

	for _, tx := range txs {
		switch tx.Kind {
		case domain.KindIncome:
			income = income.Add(tx.Amount)
		case domain.KindExpense:
			expense = expense.Add(tx.Amount)
		}
	}

	balance := income.Sub(expense)
	return Summary{
		Balance:      balance,
		TotalIncome:  income,
		TotalExpense: expense,
		NetProfit:    balance,
	}
}

// ContextText renders the summary plus the most recent transactions as the
// short textual snapshot handed to the finance chat assistant.
func ContextText(s Summary, txs []domain.Transaction) string {
	recent := Recent(txs, 5)

	lines := make([]string, 0, len(recent))
	for _, tx := range recent {
		lines = append(lines, fmt.Sprintf("%s: %s (%s %s)", tx.Date, tx.Description, tx.Kind, tx.Amount.StringFixed(2)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Saldo atual: R$ %s\n", s.Balance.StringFixed(2))
	fmt.Fprintf(&b, "Receita total: R$ %s\n", s.TotalIncome.StringFixed(2))
	fmt.Fprintf(&b, "Despesa total: R$ %s\n", s.TotalExpense.StringFixed(2))
	fmt.Fprintf(&b, "Últimas transações: %s\n", strings.Join(lines, "; "))
	return b.String()
}

// Recent returns up to n transactions ordered most recent first. The input
// slice is not modified.
func Recent(txs []domain.Transaction, n int) []domain.Transaction {
	sorted := make([]domain.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
