package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/payrun-io/payrun/internal/infra/audit"
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd)
	auditListCmd.Flags().String("db", "", "Audit database path (overrides config)")
	auditListCmd.Flags().String("run", "", "Limit output to one run id")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the rejection journal",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journaled dropped rows and rejected transactions",
	RunE:  runAuditList,
}

func runAuditList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = cfg.Audit.DBPath
	}
	runID, _ := cmd.Flags().GetString("run")

	journal, err := audit.Open(dbPath)
	if err != nil {
		return err
	}
	defer journal.Close()

	entries, err := journal.Entries(runID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no journal entries")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tKIND\tLINE\tTX\tTYPE\tCLIENT\tREASON")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%d\t%s\n",
			shortID(e.RunID), e.Kind, e.Line, e.TxID, e.TxType, e.Client, e.Reason)
	}
	return w.Flush()
}

// shortID trims a run UUID for column display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
