// Package adventurer contains the adventurer resource entity and the pure
// guards over its availability state machine.
package adventurer

import (
	"fmt"

	"github.com/example/guild/internal/models"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error returns the guard result as an ErrInvalidState error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s: %w", r.Reason, models.ErrInvalidState)
}

// DeployContext is the slice of adventurer state that decides deployability.
type DeployContext struct {
	AdventurerID string
	Availability models.Availability
	Fatigue      int
	Injured      bool
}

// CanDeploy evaluates whether an adventurer may be assigned to a quest.
// Rules: idle, fatigue below 100, not injured.
func CanDeploy(ctx DeployContext) GuardResult {
	if ctx.Availability != models.AvailabilityIdle {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("adventurer %s is %s, not idle", ctx.AdventurerID, ctx.Availability),
		}
	}
	if ctx.Fatigue >= MaxFatigue {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("adventurer %s is exhausted (fatigue %d)", ctx.AdventurerID, ctx.Fatigue),
		}
	}
	if ctx.Injured {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("adventurer %s is injured", ctx.AdventurerID),
		}
	}
	return GuardResult{Allowed: true}
}

// CanBeginQuest evaluates whether an assigned adventurer may set out.
// Rule: only Assigned adventurers move to InProgress.
func CanBeginQuest(ctx DeployContext) GuardResult {
	if ctx.Availability != models.AvailabilityAssigned {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("adventurer %s cannot begin a quest while %s", ctx.AdventurerID, ctx.Availability),
		}
	}
	return GuardResult{Allowed: true}
}
