package adventurer

import (
	"fmt"
	"strings"

	"github.com/example/guild/internal/models"
)

const (
	// MaxFatigue is the exhaustion ceiling; a fully fatigued adventurer cannot deploy.
	MaxFatigue = 100

	// ExperiencePerLevel is the cumulative experience each level requires.
	ExperiencePerLevel = 100
)

// State is the runtime state of one adventurer. It is owned by the roster;
// parties hold pointers to it and never copy it.
type State struct {
	id     string
	name   string
	role   models.RoleType
	traits []models.TraitRuntime

	level       int
	experience  int
	stats       models.StatBlock
	fatigue     int
	injury      models.InjuryStatus
	available   models.Availability
	lastQuestID models.Optional[string]
}

// New creates an idle, rested, uninjured adventurer.
func New(id, name string, role models.RoleType, level, experience int, stats models.StatBlock, traits []models.TraitRuntime) (*State, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("adventurer id is required: %w", models.ErrInvalidArgument)
	}

	owned := make([]models.TraitRuntime, len(traits))
	copy(owned, traits)

	return &State{
		id:         id,
		name:       name,
		role:       role,
		traits:     owned,
		level:      level,
		experience: max(0, experience),
		stats:      stats,
		available:  models.AvailabilityIdle,
	}, nil
}

func (a *State) ID() string                           { return a.id }
func (a *State) Name() string                         { return a.name }
func (a *State) Role() models.RoleType                { return a.role }
func (a *State) Level() int                           { return a.level }
func (a *State) Experience() int                      { return a.experience }
func (a *State) Stats() models.StatBlock              { return a.stats }
func (a *State) Fatigue() int                         { return a.fatigue }
func (a *State) Injury() models.InjuryStatus          { return a.injury }
func (a *State) Availability() models.Availability    { return a.available }
func (a *State) LastQuestID() models.Optional[string] { return a.lastQuestID }

// Traits returns a copy of the adventurer's traits.
func (a *State) Traits() []models.TraitRuntime {
	out := make([]models.TraitRuntime, len(a.traits))
	copy(out, a.traits)
	return out
}

// EffectiveStats returns the stats used for power and injury calculations.
// With traits enabled every trait's scaled bonus is added; the stored stats
// never change. A MaxHP bonus raises CurrentHP by the same amount, and
// CurrentHP is kept within [0, MaxHP].
func (a *State) EffectiveStats(withTraits bool) models.StatBlock {
	stats := a.stats
	if !withTraits {
		return stats
	}
	for _, t := range a.traits {
		bonus := t.EffectiveBonus()
		stats = stats.Add(bonus)
		stats.CurrentHP += bonus.MaxHP
	}
	stats.CurrentHP = models.ClampInt(stats.CurrentHP, 0, max(0, stats.MaxHP))
	return stats
}

func (a *State) deployContext() DeployContext {
	return DeployContext{
		AdventurerID: a.id,
		Availability: a.available,
		Fatigue:      a.fatigue,
		Injured:      a.injury.Injured,
	}
}

// IsDeployable reports whether the adventurer is idle, not exhausted and uninjured.
func (a *State) IsDeployable() bool {
	return CanDeploy(a.deployContext()).Allowed
}

// ApplyFatigue adds delta (which may be negative) and clamps to [0, MaxFatigue].
func (a *State) ApplyFatigue(delta int) {
	a.fatigue = models.ClampInt(a.fatigue+delta, 0, MaxFatigue)
}

// ApplyInjury records an injury and interrupts whatever the adventurer was doing.
func (a *State) ApplyInjury(info models.InjuryInfo) {
	a.injury = models.InjuryStatus{
		Injured:  true,
		Severity: max(a.injury.Severity, info.Severity),
	}
	a.available = models.AvailabilityRecovery
}

// ApplyRewardExperience adds experience (never below zero) and raises the
// level when the cumulative total crosses the next threshold.
func (a *State) ApplyRewardExperience(exp int) {
	a.experience = max(0, a.experience+exp)
	if earned := 1 + a.experience/ExperiencePerLevel; earned > a.level {
		a.level = earned
	}
}

// Recover restores fatigue and HP. A fully rested adventurer with at most a
// minor injury is healed, and any uninjured adventurer returns to Idle, even
// from Assigned or InProgress.
func (a *State) Recover(pkg models.RecoveryPackage) {
	a.fatigue = models.ClampInt(a.fatigue-pkg.FatigueRecovery, 0, MaxFatigue)
	a.stats = a.stats.WithCurrentHP(a.stats.CurrentHP + pkg.HPRecovery)

	if a.fatigue == 0 && a.injury.Injured && a.injury.Severity <= 1 {
		a.injury = models.InjuryStatus{}
	}

	if !a.injury.Injured {
		a.available = models.AvailabilityIdle
	}
}

// AssignToQuest marks the adventurer as assigned to questID.
func (a *State) AssignToQuest(questID string) error {
	if err := CanDeploy(a.deployContext()).Error(); err != nil {
		return fmt.Errorf("assign to quest %s: %w", questID, err)
	}
	a.lastQuestID = models.Some(questID)
	a.available = models.AvailabilityAssigned
	return nil
}

// CanBeginQuest evaluates the begin-quest guard without changing state.
func (a *State) CanBeginQuest() GuardResult {
	return CanBeginQuest(a.deployContext())
}

// BeginQuest moves an assigned adventurer into the field.
func (a *State) BeginQuest() error {
	if err := CanBeginQuest(a.deployContext()).Error(); err != nil {
		return err
	}
	a.available = models.AvailabilityInProgress
	return nil
}

// ReleaseFromQuest clears the assignment. Injured adventurers go to Recovery.
func (a *State) ReleaseFromQuest() {
	a.lastQuestID = models.None[string]()
	if a.injury.Injured {
		a.available = models.AvailabilityRecovery
		return
	}
	a.available = models.AvailabilityIdle
}
