package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/example/guild/internal/models"
	"github.com/example/guild/internal/ports/secondary"
)

// LedgerAdapter prints the outcome ledger.
type LedgerAdapter struct {
	ledger secondary.OutcomeLedger
	out    io.Writer
}

// NewLedgerAdapter creates a new LedgerAdapter.
func NewLedgerAdapter(ledger secondary.OutcomeLedger, out io.Writer) *LedgerAdapter {
	return &LedgerAdapter{
		ledger: ledger,
		out:    out,
	}
}

// List prints recorded outcomes followed by a per-grade tally.
func (a *LedgerAdapter) List(ctx context.Context, filters secondary.OutcomeFilters) error {
	outcomes, err := a.ledger.List(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list outcomes: %w", err)
	}

	if len(outcomes) == 0 {
		fmt.Fprintln(a.out, "No outcomes recorded")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tQUEST\tPARTY\tGRADE\tCHANCE\tROLL\tGOLD\tREP\tINJURIES\tITEMS")
	fmt.Fprintln(w, "---\t-----\t-----\t-----\t------\t----\t----\t---\t--------\t-----")
	for _, o := range outcomes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.2f\t%d\t%d\t%d\t%s\n",
			o.ResolvedDay, o.QuestID, shortID(o.PartyID), colorizeGrade(models.OutcomeGrade(o.Grade)),
			formatChance(o.SuccessChance), o.RollValue, o.Gold, o.Reputation, o.InjuryCount,
			strings.Join(o.Items, ","))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	counts, err := a.ledger.CountByGrade(ctx, filters.RunID)
	if err != nil {
		return fmt.Errorf("failed to count outcomes: %w", err)
	}
	grades := make([]string, 0, len(counts))
	for g := range counts {
		grades = append(grades, g)
	}
	sort.Strings(grades)

	parts := make([]string, len(grades))
	for i, g := range grades {
		parts[i] = fmt.Sprintf("%s=%d", g, counts[g])
	}
	fmt.Fprintf(a.out, "\n%d outcomes (%s)\n", len(outcomes), strings.Join(parts, ", "))
	return nil
}

// Runs prints every recorded run.
func (a *LedgerAdapter) Runs(ctx context.Context) error {
	runs, err := a.ledger.ListRuns(ctx)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(a.out, "No runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSCENARIO\tSEED\tSTARTED")
	fmt.Fprintln(w, "---\t--------\t----\t-------")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.ID, r.Scenario, r.Seed, r.CreatedAt)
	}
	return w.Flush()
}

// shortID trims generated 32-character ids for display.
func shortID(id string) string {
	if len(id) == 32 {
		return id[:8]
	}
	return id
}
