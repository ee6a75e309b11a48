package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/payrun-io/payrun/internal/app/processor"
	"github.com/payrun-io/payrun/internal/infra/audit"
	"github.com/payrun-io/payrun/internal/report"
)

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	processCmd.Flags().Bool("strict-client", false, "Reject dispute-chain rows whose client does not own the deposit")
	processCmd.Flags().String("audit-db", "", "Journal dropped rows and rejections to this SQLite file")
}

var processCmd = &cobra.Command{
	Use:   "process FILE",
	Short: "Replay a CSV transaction log and print the account report",
	Long: `Replay the transaction log at FILE and print one line per account:
client,available,held,total,locked. Warnings for dropped rows and rejected
transactions go to stderr. Failure to open FILE is the only fatal error.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	strict, _ := cmd.Flags().GetBool("strict-client")
	auditDB, _ := cmd.Flags().GetString("audit-db")
	output, _ := cmd.Flags().GetString("output")

	if !strict {
		strict = cfg.Ledger.StrictClient
	}
	if auditDB == "" && cfg.Audit.Enabled {
		auditDB = cfg.Audit.DBPath
	}

	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("cannot open transaction log: %w", err)
	}
	defer in.Close()

	pcfg := processor.Config{StrictClient: strict}

	var run *audit.Run
	if auditDB != "" {
		journal, err := audit.Open(auditDB)
		if err != nil {
			return err
		}
		defer journal.Close()
		run, err = journal.BeginRun(args[0])
		if err != nil {
			return err
		}
		pcfg.AuditRun = run
	}

	proc := processor.New(pcfg)
	sum, err := proc.Run(in)
	if err != nil {
		return err
	}
	if run != nil {
		if err := run.Finish(); err != nil {
			fmt.Fprintln(os.Stderr, "warning: finish audit run:", err)
		}
	}

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("cannot create report file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := report.Write(out, proc.Ledger().Accounts()); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "processed %d transactions (%d rejected, %d rows dropped) across %d accounts\n",
		sum.Applied+sum.Rejected, sum.Rejected, sum.DroppedRows, sum.Accounts)
	return nil
}
