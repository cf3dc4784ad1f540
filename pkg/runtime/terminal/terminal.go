package terminal

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/ledger-atlas/pkg/services/ingest"
	"github.com/de-tools/ledger-atlas/pkg/services/ledger"
)

// CLI lets an operator inspect a transaction file locally before
// uploading it: it parses the file and prints the same three reports
// the server would serve.
type CLI struct {
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Transaction batch inspection tool",
	}

	cmd.AddCommand(cli.newReportCmd())

	return cmd
}

func (cli *CLI) newReportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Classify a transaction file and print its reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := cli.buildReport(cmd, args[0])
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return cli.reporter.WriteJSON(report)
			case "text":
				return cli.reporter.WriteText(report)
			default:
				return fmt.Errorf("unknown format %q, expected json or text", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: json or text")
	return cmd
}

func (cli *CLI) buildReport(cmd *cobra.Command, path string) (*domain.LedgerReport, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)
	ctx := logger.WithContext(cmd.Context())

	records, err := ingest.Parse(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	transactions, malformed := domain.Partition(records)
	rawMalformed := make([]domain.RawRecord, len(malformed))
	for i, m := range malformed {
		rawMalformed[i] = m.Record
	}

	return &domain.LedgerReport{
		Accounts:    ledger.Aggregate(transactions),
		Malformed:   rawMalformed,
		Collections: ledger.Collections(transactions),
	}, nil
}
