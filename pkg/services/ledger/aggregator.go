package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
)

// Aggregate folds transactions into account -> card -> running total.
// Totals are order-independent; an empty input yields an empty map.
func Aggregate(transactions []domain.Transaction) domain.AccountBalances {
	balances := make(domain.AccountBalances)
	for _, tx := range transactions {
		cards, ok := balances[tx.AccountName]
		if !ok {
			cards = make(map[string]decimal.Decimal)
			balances[tx.AccountName] = cards
		}
		cards[tx.CardNumber] = cards[tx.CardNumber].Add(tx.Amount)
	}
	return balances
}

// Collections returns the distinct account names holding at least one
// negative-amount transaction, in first-seen order. Inclusion is driven
// by per-transaction sign, not the aggregated balance: an account whose
// cards net out positive is still flagged if any single movement was
// negative.
func Collections(transactions []domain.Transaction) []string {
	accounts := make([]string, 0)
	seen := make(map[string]struct{})
	for _, tx := range transactions {
		if !tx.Amount.IsNegative() {
			continue
		}
		if _, ok := seen[tx.AccountName]; ok {
			continue
		}
		seen[tx.AccountName] = struct{}{}
		accounts = append(accounts, tx.AccountName)
	}
	return accounts
}
