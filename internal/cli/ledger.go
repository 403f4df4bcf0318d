package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/guild/internal/models"
	"github.com/example/guild/internal/ports/secondary"
	"github.com/example/guild/internal/wire"
)

// LedgerCmd returns the ledger command
func LedgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect recorded mission outcomes",
		Long:  `Query the sqlite outcome ledger written by simulate runs.`,
	}

	cmd.AddCommand(ledgerListCmd())
	cmd.AddCommand(ledgerRunsCmd())

	return cmd
}

func ledgerListCmd() *cobra.Command {
	var runID string
	var questID string
	var grade string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := outcomeFilters(runID, questID, grade, limit)
			if err != nil {
				return err
			}
			defer wire.Close()
			return wire.LedgerAdapter().List(cmd.Context(), filters)
		},
	}

	cmd.Flags().StringVarP(&runID, "run", "r", "", "Filter by run id")
	cmd.Flags().StringVarP(&questID, "quest", "q", "", "Filter by quest id")
	cmd.Flags().StringVarP(&grade, "grade", "g", "", "Filter by grade (critical_success, success, partial_success, fail)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many outcomes")

	return cmd
}

func ledgerRunsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer wire.Close()
			return wire.LedgerAdapter().Runs(cmd.Context())
		},
	}
}

// outcomeFilters validates the list flags.
func outcomeFilters(runID, questID, grade string, limit int) (secondary.OutcomeFilters, error) {
	if limit < 0 {
		return secondary.OutcomeFilters{}, fmt.Errorf("--limit must not be negative, got %d: %w", limit, models.ErrInvalidArgument)
	}
	if grade != "" {
		switch models.OutcomeGrade(grade) {
		case models.GradeCriticalSuccess, models.GradeSuccess, models.GradePartialSuccess, models.GradeFail:
		default:
			return secondary.OutcomeFilters{}, fmt.Errorf("unknown grade %q: %w", grade, models.ErrInvalidArgument)
		}
	}
	return secondary.OutcomeFilters{
		RunID:   runID,
		QuestID: questID,
		Grade:   grade,
		Limit:   limit,
	}, nil
}
