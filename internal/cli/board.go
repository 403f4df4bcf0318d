package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/guild/internal/adapters/scenario"
	"github.com/example/guild/internal/wire"
)

// AssessCmd returns the assess command
func AssessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assess <scenario.yaml>",
		Short: "Load a scenario and show every quest's assessment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := loadScenario(ctx, args[0]); err != nil {
				return err
			}
			return wire.GuildAdapter().Assess(ctx)
		},
	}
}

// PlanCmd returns the plan command
func PlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <scenario.yaml>",
		Short: "Rank candidate parties for every pending quest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := loadScenario(ctx, args[0]); err != nil {
				return err
			}
			return wire.GuildAdapter().Plan(ctx)
		},
	}
}

// RosterCmd returns the roster command
func RosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roster <scenario.yaml>",
		Short: "Show the scenario's adventurers as recruited",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := loadScenario(ctx, args[0]); err != nil {
				return err
			}
			return wire.GuildAdapter().Roster(ctx)
		},
	}
}

// loadScenario reads path and loads it into the wired guild service.
func loadScenario(ctx context.Context, path string) error {
	sc, err := scenario.LoadFile(path)
	if err != nil {
		return err
	}
	if err := wire.GuildAdapter().Load(ctx, sc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
