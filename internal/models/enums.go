// Package models holds the value types shared by the guild core: stat
// blocks, reward and injury packages, world snapshots, mission outcomes,
// template records, and the error kinds every core package returns.
// Nothing in here has behaviour beyond small invariant-preserving helpers.
package models

import "fmt"

// QuestState is the lifecycle state of a quest instance.
type QuestState string

const (
	QuestPending    QuestState = "pending"
	QuestAssigned   QuestState = "assigned"
	QuestInProgress QuestState = "in_progress"
	QuestResolved   QuestState = "resolved"
	QuestArchived   QuestState = "archived"
)

// QuestRank is the recommended difficulty rank. F is the lowest, S the highest.
type QuestRank int

const (
	RankF QuestRank = iota
	RankE
	RankD
	RankC
	RankB
	RankA
	RankS
)

func (r QuestRank) String() string {
	switch r {
	case RankF:
		return "F"
	case RankE:
		return "E"
	case RankD:
		return "D"
	case RankC:
		return "C"
	case RankB:
		return "B"
	case RankA:
		return "A"
	case RankS:
		return "S"
	default:
		return fmt.Sprintf("QuestRank(%d)", int(r))
	}
}

// ParseQuestRank converts a rank letter into a QuestRank.
func ParseQuestRank(s string) (QuestRank, error) {
	for r := RankF; r <= RankS; r++ {
		if r.String() == s {
			return r, nil
		}
	}
	return RankF, fmt.Errorf("unknown quest rank %q: %w", s, ErrInvalidArgument)
}

// OutcomeGrade is the tier of a resolved mission.
type OutcomeGrade string

const (
	GradeCriticalSuccess OutcomeGrade = "critical_success"
	GradeSuccess         OutcomeGrade = "success"
	GradePartialSuccess  OutcomeGrade = "partial_success"
	GradeFail            OutcomeGrade = "fail"
)

// RoleType is an adventurer's fixed party role.
type RoleType string

const (
	RoleTank    RoleType = "tank"
	RoleDealer  RoleType = "dealer"
	RoleSupport RoleType = "support"
	RoleScout   RoleType = "scout"
	RoleUtility RoleType = "utility"
)

// Availability is the adventurer's deployment state.
type Availability string

const (
	AvailabilityIdle       Availability = "idle"
	AvailabilityAssigned   Availability = "assigned"
	AvailabilityInProgress Availability = "in_progress"
	AvailabilityRecovery   Availability = "recovery"
)

// QuestCategory classifies a quest.
type QuestCategory string

const (
	CategoryHunt     QuestCategory = "hunt"
	CategoryEscort   QuestCategory = "escort"
	CategoryExplore  QuestCategory = "explore"
	CategoryDelivery QuestCategory = "delivery"
	CategorySpecial  QuestCategory = "special"
)
