package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/example/guild/internal/cli"
	"github.com/example/guild/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "guild",
		Short:   "Guild - quest board and party simulation",
		Version: version.String(),
		Long: `Guild assesses quests, plans adventurer parties and simulates their missions
day by day. Scenarios are YAML files describing the world, the roster and the board.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.AssessCmd())
	rootCmd.AddCommand(cli.PlanCmd())
	rootCmd.AddCommand(cli.RosterCmd())
	rootCmd.AddCommand(cli.SimulateCmd())
	rootCmd.AddCommand(cli.LedgerCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
