package quest

import (
	"fmt"
	"strings"

	"github.com/example/guild/internal/models"
)

// Params are the immutable facts a quest is created with.
type Params struct {
	QuestID         string
	TemplateID      string
	Title           string
	Category        models.QuestCategory
	BaseDifficulty  float64
	IssuedDay       int
	ExpireDay       int
	TimeLimitDays   int
	LocationID      string
	EnvironmentTags []string
	BaseReward      models.RewardPackage
}

// Assessment is the set of fields derived from world conditions.
type Assessment struct {
	AssessedDifficulty float64
	RecommendedRank    models.QuestRank
	RiskScore          float64
	ExpectedReward     models.RewardPackage
}

// Instance is a quest on the board. Version increases on every successful
// mutation so observers can detect stale copies.
type Instance struct {
	params     Params
	state      models.QuestState
	assessment Assessment
	partyID    models.Optional[string]
	resolution models.Optional[models.MissionOutcome]
	version    int
}

// New creates a pending quest whose assessed fields mirror its base facts.
func New(p Params) (*Instance, error) {
	if strings.TrimSpace(p.QuestID) == "" {
		return nil, fmt.Errorf("quest id is required: %w", models.ErrInvalidArgument)
	}

	tags := make([]string, len(p.EnvironmentTags))
	copy(tags, p.EnvironmentTags)
	p.EnvironmentTags = tags

	return &Instance{
		params: p,
		state:  models.QuestPending,
		assessment: Assessment{
			AssessedDifficulty: p.BaseDifficulty,
			RecommendedRank:    models.RankF,
			ExpectedReward:     p.BaseReward,
		},
	}, nil
}

func (q *Instance) ID() string                     { return q.params.QuestID }
func (q *Instance) TemplateID() string             { return q.params.TemplateID }
func (q *Instance) Title() string                  { return q.params.Title }
func (q *Instance) Category() models.QuestCategory { return q.params.Category }
func (q *Instance) BaseDifficulty() float64        { return q.params.BaseDifficulty }
func (q *Instance) IssuedDay() int                 { return q.params.IssuedDay }
func (q *Instance) ExpireDay() int                 { return q.params.ExpireDay }
func (q *Instance) TimeLimitDays() int             { return q.params.TimeLimitDays }
func (q *Instance) LocationID() string             { return q.params.LocationID }
func (q *Instance) BaseReward() models.RewardPackage {
	return q.params.BaseReward
}

// EnvironmentTags returns a copy of the quest's environment tags.
func (q *Instance) EnvironmentTags() []string {
	out := make([]string, len(q.params.EnvironmentTags))
	copy(out, q.params.EnvironmentTags)
	return out
}

func (q *Instance) State() models.QuestState                           { return q.state }
func (q *Instance) Version() int                                       { return q.version }
func (q *Instance) Assessment() Assessment                             { return q.assessment }
func (q *Instance) AssessedDifficulty() float64                        { return q.assessment.AssessedDifficulty }
func (q *Instance) RecommendedRank() models.QuestRank                  { return q.assessment.RecommendedRank }
func (q *Instance) RiskScore() float64                                 { return q.assessment.RiskScore }
func (q *Instance) ExpectedReward() models.RewardPackage               { return q.assessment.ExpectedReward }
func (q *Instance) AssignedPartyID() models.Optional[string]           { return q.partyID }
func (q *Instance) Resolution() models.Optional[models.MissionOutcome] { return q.resolution }

// IsOpen reports whether the quest is Pending, Assigned or InProgress.
func (q *Instance) IsOpen() bool {
	return IsOpenState(q.state)
}

// IsExpired reports whether day is past the quest's expiry day.
func (q *Instance) IsExpired(day int) bool {
	return day > q.params.ExpireDay
}

// CanTransitionTo reports whether next is a legal edge from the current state.
func (q *Instance) CanTransitionTo(next models.QuestState) bool {
	return CanTransition(q.state, next).Allowed
}

// ApplyAssessment overwrites the assessed fields. It is not a state
// transition and is allowed in every state.
func (q *Instance) ApplyAssessment(a Assessment) {
	q.assessment = a
	q.version++
}

func (q *Instance) transition(next models.QuestState) error {
	if err := CanTransition(q.state, next).Error(); err != nil {
		return fmt.Errorf("quest %s: %w", q.params.QuestID, err)
	}
	q.state = next
	q.version++
	return nil
}

// AssignToParty moves a pending quest to Assigned.
func (q *Instance) AssignToParty(partyID string) error {
	if strings.TrimSpace(partyID) == "" {
		return fmt.Errorf("party id is required: %w", models.ErrInvalidArgument)
	}
	if err := q.transition(models.QuestAssigned); err != nil {
		return err
	}
	q.partyID = models.Some(partyID)
	return nil
}

// MarkInProgress moves an assigned quest to InProgress.
func (q *Instance) MarkInProgress() error {
	return q.transition(models.QuestInProgress)
}

// Resolve records the outcome and moves the quest to Resolved.
func (q *Instance) Resolve(outcome models.MissionOutcome) error {
	if err := q.transition(models.QuestResolved); err != nil {
		return err
	}
	q.resolution = models.Some(outcome)
	return nil
}

// Archive retires a resolved quest, or expires/cancels a pending one.
func (q *Instance) Archive() error {
	return q.transition(models.QuestArchived)
}
