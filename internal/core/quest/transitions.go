// Package quest contains the quest instance entity and the pure rules of its
// lifecycle state machine.
package quest

import (
	"fmt"

	"github.com/example/guild/internal/models"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error returns the guard result as an ErrInvalidTransition error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s: %w", r.Reason, models.ErrInvalidTransition)
}

type edge struct {
	from, to models.QuestState
}

// Pending -> Archived covers expiry and cancellation.
var legalEdges = map[edge]bool{
	{models.QuestPending, models.QuestAssigned}:    true,
	{models.QuestAssigned, models.QuestInProgress}: true,
	{models.QuestInProgress, models.QuestResolved}: true,
	{models.QuestResolved, models.QuestArchived}:   true,
	{models.QuestPending, models.QuestArchived}:    true,
}

// CanTransition evaluates whether a quest may move from one state to another.
func CanTransition(from, to models.QuestState) GuardResult {
	if legalEdges[edge{from, to}] {
		return GuardResult{Allowed: true}
	}
	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("cannot transition %s -> %s", from, to),
	}
}

// AllStates lists every lifecycle state in order.
func AllStates() []models.QuestState {
	return []models.QuestState{
		models.QuestPending,
		models.QuestAssigned,
		models.QuestInProgress,
		models.QuestResolved,
		models.QuestArchived,
	}
}

// IsOpenState reports whether a quest in this state still occupies the board.
func IsOpenState(s models.QuestState) bool {
	switch s {
	case models.QuestPending, models.QuestAssigned, models.QuestInProgress:
		return true
	default:
		return false
	}
}
