package domain

import (
	"github.com/shopspring/decimal"
)

// Column names expected in the uploaded file header.
const (
	FieldAccountName       = "Account Name"
	FieldCardNumber        = "Card Number"
	FieldTransactionAmount = "Transaction Amount"
)

// RawRecord is one parsed input row, keyed by column name. A row shorter
// than the header simply lacks the trailing keys.
type RawRecord map[string]string

// Transaction is a validated financial movement derived from a RawRecord.
type Transaction struct {
	AccountName string
	CardNumber  string
	Amount      decimal.Decimal
}

// MalformedRecord is a RawRecord that failed validation. The original
// field mapping is kept verbatim for operator review.
type MalformedRecord struct {
	Record RawRecord
}

// Classified is the result of classifying one RawRecord. Exactly one of
// the two fields is non-nil.
type Classified struct {
	Transaction *Transaction
	Malformed   *MalformedRecord
}

// Classify validates a single record. A record is a Transaction when its
// account name is non-empty and its amount parses as a decimal; anything
// else is malformed. The card number is carried through as-is and may be
// empty.
func Classify(rec RawRecord) Classified {
	name := rec[FieldAccountName]
	rawAmount := rec[FieldTransactionAmount]
	if name == "" || rawAmount == "" {
		return Classified{Malformed: &MalformedRecord{Record: rec}}
	}

	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return Classified{Malformed: &MalformedRecord{Record: rec}}
	}

	return Classified{Transaction: &Transaction{
		AccountName: name,
		CardNumber:  rec[FieldCardNumber],
		Amount:      amount,
	}}
}

// Partition classifies a sequence in order, splitting it into valid
// transactions and malformed records. Both slices preserve file order.
func Partition(records []RawRecord) ([]Transaction, []MalformedRecord) {
	transactions := make([]Transaction, 0, len(records))
	malformed := make([]MalformedRecord, 0)
	for _, rec := range records {
		c := Classify(rec)
		if c.Transaction != nil {
			transactions = append(transactions, *c.Transaction)
		} else {
			malformed = append(malformed, *c.Malformed)
		}
	}
	return transactions, malformed
}
