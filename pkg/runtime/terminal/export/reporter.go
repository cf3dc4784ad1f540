package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"

	"github.com/de-tools/ledger-atlas/pkg/models/api"
	"github.com/de-tools/ledger-atlas/pkg/models/domain"
)

// Reporter renders a ledger report to the console.
type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

// jsonReport is the CLI's JSON shape, matching what the HTTP API serves
// across its three report routes.
type jsonReport struct {
	Accounts        api.AccountBalances `json:"accounts"`
	BadTransactions []api.RawRecord     `json:"bad_transactions"`
	Collections     []string            `json:"collections"`
}

func (c *Reporter) WriteJSON(report *domain.LedgerReport) error {
	bad := make([]api.RawRecord, len(report.Malformed))
	for i, rec := range report.Malformed {
		bad[i] = api.RawRecord(rec)
	}

	enc := json.NewEncoder(c.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		Accounts:        toAPIBalances(report.Accounts),
		BadTransactions: bad,
		Collections:     report.Collections,
	})
}

func (c *Reporter) WriteText(report *domain.LedgerReport) error {
	tmpl := `
=== Account Balances ===
{{range .Accounts}}{{.Account}}
{{range .Cards}}  card {{.Card}}: {{.Balance}}
{{end}}{{else}}(none)
{{end}}
=== Bad Transactions ===
{{range .Malformed}}- {{.}}
{{else}}(none)
{{end}}
=== Collections ===
{{range .Collections}}- {{.}}
{{else}}(none)
{{end}}`

	t, err := template.New("report").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, textReport(report))
}

type cardBalance struct {
	Card    string
	Balance string
}

type accountBalance struct {
	Account string
	Cards   []cardBalance
}

type textModel struct {
	Accounts    []accountBalance
	Malformed   []domain.RawRecord
	Collections []string
}

// textReport flattens the balance maps into sorted rows so the text
// rendering is stable run to run.
func textReport(report *domain.LedgerReport) textModel {
	accounts := make([]accountBalance, 0, len(report.Accounts))
	for name, cards := range report.Accounts {
		rows := make([]cardBalance, 0, len(cards))
		for card, total := range cards {
			rows = append(rows, cardBalance{Card: card, Balance: total.String()})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].Card < rows[j].Card })
		accounts = append(accounts, accountBalance{Account: name, Cards: rows})
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Account < accounts[j].Account })

	return textModel{
		Accounts:    accounts,
		Malformed:   report.Malformed,
		Collections: report.Collections,
	}
}

func toAPIBalances(balances domain.AccountBalances) api.AccountBalances {
	out := make(api.AccountBalances, len(balances))
	for account, cards := range balances {
		out[account] = make(map[string]float64, len(cards))
		for card, total := range cards {
			out[account][card] = total.InexactFloat64()
		}
	}
	return out
}
