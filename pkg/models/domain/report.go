package domain

import "github.com/shopspring/decimal"

// AccountBalances maps account name -> card number -> accumulated
// signed amount across the current snapshot.
type AccountBalances map[string]map[string]decimal.Decimal

// LedgerReport bundles the three derived views for consumers that want
// all of them in one pass (the CLI reporter does).
type LedgerReport struct {
	Accounts    AccountBalances
	Malformed   []RawRecord
	Collections []string
}
