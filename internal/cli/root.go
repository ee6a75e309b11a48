// Package cli defines the payrun command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/payrun-io/payrun/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "payrun",
	Short: "Replay a transaction log and report final account balances",
	Long: `payrun replays an ordered CSV log of deposits, withdrawals, disputes,
resolves and chargebacks against per-client accounts and reports the final
balances. Malformed rows and invalid operations are warned about and
skipped; they never abort a run.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.payrun/config.toml)")
}

// loadConfig reads the config file named by --config, or the defaults.
func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

// Execute runs the command tree. It is the only entry point main calls.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
