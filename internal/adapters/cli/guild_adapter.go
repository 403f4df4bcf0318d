// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/guild/internal/models"
	"github.com/example/guild/internal/ports/primary"
)

// GuildAdapter is a thin adapter that translates CLI operations to GuildService calls.
// It depends only on the GuildService interface, enabling easy testing with mocks.
type GuildAdapter struct {
	service primary.GuildService
	out     io.Writer
}

// NewGuildAdapter creates a new GuildAdapter with the given service.
func NewGuildAdapter(service primary.GuildService, out io.Writer) *GuildAdapter {
	return &GuildAdapter{
		service: service,
		out:     out,
	}
}

// Load loads a scenario and reports what was posted and recruited.
func (a *GuildAdapter) Load(ctx context.Context, scenario *models.Scenario) error {
	resp, err := a.service.LoadScenario(ctx, scenario)
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Loaded %s: %d quests, %d adventurers\n", scenario.Name, resp.QuestsPosted, resp.AdventurersRecruited)
	for _, w := range resp.Warnings {
		fmt.Fprintf(a.out, "  %s %s\n", color.New(color.FgYellow).Sprint("warning:"), w)
	}
	return nil
}

// Assess prints the board with every quest's assessment.
func (a *GuildAdapter) Assess(ctx context.Context) error {
	quests, err := a.service.ListQuests(ctx, primary.QuestFilters{})
	if err != nil {
		return fmt.Errorf("failed to list quests: %w", err)
	}

	if len(quests) == 0 {
		fmt.Fprintln(a.out, "No quests on the board")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRANK\tBASE\tASSESSED\tRISK\tGOLD\tREP\tEXPIRES\tSTATE")
	fmt.Fprintln(w, "--\t----\t----\t--------\t----\t----\t---\t-------\t-----")
	for _, q := range quests {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%.1f\t%.2f\t%d\t%d\t%d\t%s\n",
			q.ID, q.Rank, q.BaseDifficulty, q.AssessedDifficulty, q.RiskScore,
			q.ExpectedReward.Gold, q.ExpectedReward.Reputation, q.ExpireDay, q.State)
	}
	return w.Flush()
}

// Roster prints every adventurer.
func (a *GuildAdapter) Roster(ctx context.Context) error {
	adventurers, err := a.service.ListAdventurers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list adventurers: %w", err)
	}

	if len(adventurers) == 0 {
		fmt.Fprintln(a.out, "No adventurers on the roster")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tROLE\tLVL\tXP\tHP\tFATIGUE\tSTATUS")
	fmt.Fprintln(w, "--\t----\t----\t---\t--\t--\t-------\t------")
	for _, adv := range adventurers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d/%d\t%d\t%s\n",
			adv.ID, adv.Name, adv.Role, adv.Level, adv.Experience,
			adv.CurrentHP, adv.MaxHP, adv.Fatigue, colorizeAvailability(adv))
	}
	return w.Flush()
}

// Plan prints ranked candidate parties for every pending quest.
func (a *GuildAdapter) Plan(ctx context.Context) error {
	quests, err := a.service.ListQuests(ctx, primary.QuestFilters{State: models.QuestPending})
	if err != nil {
		return fmt.Errorf("failed to list quests: %w", err)
	}

	if len(quests) == 0 {
		fmt.Fprintln(a.out, "No pending quests")
		return nil
	}

	for _, q := range quests {
		plan, err := a.service.PlanQuest(ctx, q.ID)
		if err != nil {
			return fmt.Errorf("failed to plan %s: %w", q.ID, err)
		}

		fmt.Fprintf(a.out, "\n%s %s (rank %s, needs %d)\n", color.New(color.FgCyan).Sprint(q.ID), q.Title, q.Rank, plan.RequiredMembers)
		if len(plan.Candidates) == 0 {
			fmt.Fprintf(a.out, "  %s\n", color.New(color.FgHiBlack).Sprint("no deployable party"))
			continue
		}
		for i, c := range plan.Candidates {
			fmt.Fprintf(a.out, "  %d. %-40s %s  condition %.2f  fatigue %.0f\n",
				i+1, strings.Join(c.MemberIDs, ", "), formatChance(c.Score), c.Condition, c.AverageFatigue)
		}
	}
	fmt.Fprintln(a.out)
	return nil
}

// SimulateSummary totals a simulation run.
type SimulateSummary struct {
	Days       int
	Resolved   int
	Successes  int
	Gold       int
	Reputation int
	Expired    int
}

// Simulate runs days consecutive days, printing each one.
func (a *GuildAdapter) Simulate(ctx context.Context, days int, seed int64) (*SimulateSummary, error) {
	summary := &SimulateSummary{}

	for range days {
		report, err := a.service.RunDay(ctx, seed)
		if err != nil {
			return summary, fmt.Errorf("failed to simulate day: %w", err)
		}
		summary.Days++

		fmt.Fprintf(a.out, "\n%s\n", color.New(color.Bold).Sprintf("Day %d", report.Day))
		for _, as := range report.Assignments {
			fmt.Fprintf(a.out, "  → %s takes %s\n", strings.Join(as.MemberIDs, ", "), as.QuestID)
		}
		for _, o := range report.Outcomes {
			out := o.Outcome
			fmt.Fprintf(a.out, "  %s %s  chance %s  roll %.2f  +%dg +%drep",
				colorizeGrade(out.Grade), out.QuestID, formatChance(out.SuccessChance), out.RollValue,
				out.Rewards.Gold, out.Rewards.Reputation)
			if n := out.Injuries.Count(); n > 0 {
				fmt.Fprintf(a.out, "  %s", color.New(color.FgRed).Sprintf("%d injured", n))
			}
			fmt.Fprintln(a.out)

			summary.Resolved++
			if out.IsSuccess {
				summary.Successes++
			}
			summary.Gold += out.Rewards.Gold
			summary.Reputation += out.Rewards.Reputation
		}
		for _, id := range report.Unassigned {
			fmt.Fprintf(a.out, "  %s %s\n", color.New(color.FgHiBlack).Sprint("waiting"), id)
		}
		for _, id := range report.Expired {
			fmt.Fprintf(a.out, "  %s %s\n", color.New(color.FgYellow).Sprint("expired"), id)
		}
		summary.Expired += len(report.Expired)
	}

	fmt.Fprintf(a.out, "\n✓ %d days: %d resolved (%d succeeded), %d gold, %d reputation, %d expired\n",
		summary.Days, summary.Resolved, summary.Successes, summary.Gold, summary.Reputation, summary.Expired)
	return summary, nil
}

func formatChance(p float64) string {
	return fmt.Sprintf("%5.1f%%", p*100)
}

// colorizeGrade formats a grade with semantic color
func colorizeGrade(grade models.OutcomeGrade) string {
	upper := strings.ToUpper(string(grade))
	switch grade {
	case models.GradeCriticalSuccess:
		return color.New(color.FgHiGreen, color.Bold).Sprintf("★ %s", upper)
	case models.GradeSuccess:
		return color.New(color.FgGreen).Sprintf("✓ %s", upper)
	case models.GradePartialSuccess:
		return color.New(color.FgYellow).Sprintf("~ %s", upper)
	default:
		return color.New(color.FgRed).Sprintf("✗ %s", upper)
	}
}

func colorizeAvailability(adv *primary.Adventurer) string {
	switch adv.Availability {
	case models.AvailabilityRecovery:
		return color.New(color.FgRed).Sprintf("recovering (severity %d)", adv.Injury.Severity)
	case models.AvailabilityAssigned, models.AvailabilityInProgress:
		return color.New(color.FgHiBlue).Sprint(adv.Availability)
	default:
		return string(adv.Availability)
	}
}
