package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/guild/internal/config"
	"github.com/example/guild/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var withLedger bool
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a guild project in the current directory",
		Long: `Write .guild/config.json with default settings.

With --ledger, also create the sqlite outcome ledger so every simulate run
is recorded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			cfg, err := config.LoadConfig(dir)
			switch {
			case err == nil && !force:
				fmt.Println("✓ Config already exists at .guild/config.json (use --force to reset)")
			case err == nil || errors.Is(err, fs.ErrNotExist):
				cfg = config.DefaultConfig()
				if err := config.SaveConfig(dir, cfg); err != nil {
					return err
				}
				fmt.Println("✓ Wrote .guild/config.json")
			default:
				return err
			}

			if withLedger {
				cfg.LedgerPath = config.DefaultLedgerPath(dir)
				if err := config.SaveConfig(dir, cfg); err != nil {
					return err
				}
				conn, err := db.Open(cfg.LedgerPath)
				if err != nil {
					return fmt.Errorf("failed to initialize ledger: %w", err)
				}
				conn.Close()
				fmt.Printf("✓ Ledger initialized at %s\n", cfg.LedgerPath)
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  guild assess scenario.yaml")
			fmt.Println("  guild simulate scenario.yaml --days 7")
			return nil
		},
	}

	cmd.Flags().BoolVar(&withLedger, "ledger", false, "Create the outcome ledger and record every run")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config with defaults")

	return cmd
}
