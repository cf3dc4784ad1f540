package api

// AccountBalances is the wire form of the account report: account name
// -> card number -> balance. Amounts are JSON numbers.
type AccountBalances map[string]map[string]float64

// RawRecord echoes a malformed input row back to the operator verbatim.
type RawRecord map[string]string

type Message struct {
	Message string `json:"message"`
}

type Error struct {
	Error string `json:"error"`
}
