package primary

import (
	"context"

	"github.com/example/guild/internal/models"
)

// GuildService defines the primary port for running the guild.
type GuildService interface {
	// LoadScenario posts the scenario's quests and recruits its adventurers.
	LoadScenario(ctx context.Context, scenario *models.Scenario) (*LoadScenarioResponse, error)

	// PostQuest builds a quest from a template and adds it to the board.
	PostQuest(ctx context.Context, tmpl models.QuestTemplate) (*Quest, error)

	// RecruitAdventurer builds an adventurer from a template and adds it to the roster.
	RecruitAdventurer(ctx context.Context, tmpl models.AdventurerTemplate) (*Adventurer, error)

	// ListQuests lists quests on the board.
	ListQuests(ctx context.Context, filters QuestFilters) ([]*Quest, error)

	// ListAdventurers lists the roster in recruitment order.
	ListAdventurers(ctx context.Context) ([]*Adventurer, error)

	// PlanQuest ranks candidate parties drawn from deployable adventurers.
	PlanQuest(ctx context.Context, questID string) (*PlanResponse, error)

	// AssignParty forms a party and assigns it to a pending quest.
	AssignParty(ctx context.Context, req AssignPartyRequest) (*AssignPartyResponse, error)

	// ResolveQuest resolves an assigned quest and applies its consequences.
	ResolveQuest(ctx context.Context, req ResolveQuestRequest) (*ResolveQuestResponse, error)

	// AdvanceDay moves the world forward one day.
	AdvanceDay(ctx context.Context) (*AdvanceDayResponse, error)

	// RunDay assigns the best available party to each pending quest,
	// resolves every assignment, then advances the day.
	RunDay(ctx context.Context, seed int64) (*DayReport, error)

	// World returns the current world snapshot.
	World(ctx context.Context) models.WorldStateSnapshot
}

// LoadScenarioResponse contains the result of loading a scenario.
type LoadScenarioResponse struct {
	QuestsPosted         int
	AdventurersRecruited int
	Warnings             []string
}

// QuestFilters contains filter options for listing quests.
type QuestFilters struct {
	OpenOnly bool
	State    models.QuestState
}

// Quest is the public view of a quest instance.
type Quest struct {
	ID                 string
	TemplateID         string
	Title              string
	Category           models.QuestCategory
	State              models.QuestState
	LocationID         string
	BaseDifficulty     float64
	AssessedDifficulty float64
	Rank               models.QuestRank
	RiskScore          float64
	ExpectedReward     models.RewardPackage
	IssuedDay          int
	ExpireDay          int
	AssignedPartyID    string // Empty when unassigned
	Grade              models.OutcomeGrade
	Version            int
}

// Adventurer is the public view of an adventurer.
type Adventurer struct {
	ID           string
	Name         string
	Role         models.RoleType
	Level        int
	Experience   int
	Fatigue      int
	CurrentHP    int
	MaxHP        int
	Injury       models.InjuryStatus
	Availability models.Availability
	LastQuestID  string
	Traits       []string
}

// PlanResponse contains the ranked candidates for a quest.
type PlanResponse struct {
	QuestID         string
	RequiredMembers int
	Candidates      []*PartyCandidate
}

// PartyCandidate is a proposed party, its estimated success chance and
// the party aggregates the estimate was made from.
type PartyCandidate struct {
	MemberIDs      []string
	Score          float64
	Condition      float64
	AverageFatigue float64
	TotalStats     models.StatBlock
}

// AssignPartyRequest contains parameters for assigning a party.
type AssignPartyRequest struct {
	QuestID   string
	PartyID   string // Generated when empty
	MemberIDs []string
}

// AssignPartyResponse contains the result of an assignment.
type AssignPartyResponse struct {
	QuestID   string
	PartyID   string
	MemberIDs []string
}

// ResolveQuestRequest contains parameters for resolving a quest.
type ResolveQuestRequest struct {
	QuestID string
	Seed    int64
}

// ResolveQuestResponse contains the result of a resolution.
type ResolveQuestResponse struct {
	Outcome           models.MissionOutcome
	FatigueDelta      int
	ExperienceAwarded int
	Logs              []string
}

// AdvanceDayResponse contains the result of advancing the day.
type AdvanceDayResponse struct {
	Day        int
	Expired    []string
	Reassessed int
}

// DayReport summarises one simulated day.
type DayReport struct {
	Day         int
	Assignments []*AssignPartyResponse
	Outcomes    []*ResolveQuestResponse
	Expired     []string
	Unassigned  []string
}
