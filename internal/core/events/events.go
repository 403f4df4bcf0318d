package events

import "github.com/example/guild/internal/models"

// MissionResolvedEvent announces a committed resolution.
type MissionResolvedEvent struct {
	QuestID     string
	PartyID     string
	Grade       models.OutcomeGrade
	Rewards     models.RewardPackage
	Injuries    models.InjuryPackage
	ResolvedDay int
	// SuccessChance and RollValue are carried for ledgers and metrics.
	SuccessChance float64
	RollValue     float64
	FatigueDelta  int
}

// QuestAssignedEvent announces that a party took a quest. It carries ids,
// never live references.
type QuestAssignedEvent struct {
	QuestID   string
	PartyID   string
	MemberIDs []string
	Day       int
}

// QuestExpiredEvent announces that a pending quest was archived unclaimed.
type QuestExpiredEvent struct {
	QuestID string
	Day     int
}
