// Package resolver turns a quest attempt into a graded outcome.
//
// Resolution is a pure calculation. Given the same request it always
// produces the same result, because all randomness comes from a
// math/rand source seeded from the request and owned by a single call.
// The resolver never mutates the quest, party or adventurers; applying the
// result is the caller's job.
package resolver

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/example/guild/internal/core/adventurer"
	"github.com/example/guild/internal/core/party"
	"github.com/example/guild/internal/core/quest"
	"github.com/example/guild/internal/models"
)

const (
	// MinSuccessChance and MaxSuccessChance bound every final chance so no
	// quest is ever certain or impossible.
	MinSuccessChance = 0.05
	MaxSuccessChance = 0.95

	// EmptyPartyPower is used when a party has no members.
	EmptyPartyPower = 10.0
)

// ResolveRequest is everything one resolution needs.
type ResolveRequest struct {
	Quest    *quest.Instance
	Party    *party.Party
	World    models.WorldStateSnapshot
	DayIndex int
	Seed     int64
	Options  models.ResolveOptions
}

// ResolveResult bundles the outcome with the pieces the caller applies.
type ResolveResult struct {
	Outcome            models.MissionOutcome
	FinalSuccessChance float64
	Grade              models.OutcomeGrade
	Rewards            models.RewardPackage
	Injuries           models.InjuryPackage
	Fatigue            models.FatiguePackage
	Logs               []models.ResolveLogEntry
	ConsumedSeed       int64
}

// Resolver resolves quest attempts.
type Resolver interface {
	Resolve(req ResolveRequest) (ResolveResult, error)
}

// MissionResolver is the default Resolver.
type MissionResolver struct{}

// New returns a MissionResolver.
func New() *MissionResolver {
	return &MissionResolver{}
}

// Resolve computes the outcome of req.
func (r *MissionResolver) Resolve(req ResolveRequest) (ResolveResult, error) {
	if req.Quest == nil {
		return ResolveResult{}, fmt.Errorf("quest is required: %w", models.ErrInvalidArgument)
	}
	if req.Party == nil {
		return ResolveResult{}, fmt.Errorf("party is required: %w", models.ErrInvalidArgument)
	}

	audit := &auditLog{}
	members := req.Party.Members()

	effectiveDifficulty := math.Max(1, req.Quest.AssessedDifficulty()*req.Options.GlobalDifficultyMultiplier)
	power := partyPower(members, req.Options.EnableTraitEffects, audit)
	score := power / effectiveDifficulty
	logistic, deadlinePenalty, finalChance := SuccessChance(score, req.Quest.ExpireDay()-req.DayIndex)

	audit.addf("Difficulty=%.2f, PartyPower=%.2f, Score=%.2f", effectiveDifficulty, power, score)
	audit.addf("Logistic=%.3f, DeadlinePenalty=%.3f, FinalChance=%.3f", logistic, deadlinePenalty, finalChance)

	rng := rand.New(rand.NewSource(req.Seed))
	roll := rng.Float64()
	grade := DetermineGrade(finalChance, roll, req.Options.CriticalSuccessBonus)
	audit.addf("Roll=%.3f, Grade=%s", roll, grade)

	rewards := req.Quest.BaseReward().Scale(rewardMultiplier(grade))
	injuries := buildInjuries(members, grade, rng, req.Options.EnableInjurySimulation, req.Options.EnableTraitEffects)
	if n := injuries.Count(); n > 0 {
		audit.addf("Injuries=%d", n)
	}
	fatigue := models.FatiguePackage{
		FatigueDelta: fatigueDelta(req.Quest.AssessedDifficulty(), grade, len(members)),
	}
	audit.addf("Rewards: gold=%d, reputation=%d; FatigueDelta=%d", rewards.Gold, rewards.Reputation, fatigue.FatigueDelta)

	outcome := models.MissionOutcome{
		QuestID:       req.Quest.ID(),
		PartyID:       req.Party.ID(),
		IsSuccess:     grade != models.GradeFail,
		Grade:         grade,
		SuccessChance: finalChance,
		RollValue:     roll,
		Rewards:       rewards,
		Injuries:      injuries,
		ResolvedDay:   req.DayIndex,
	}

	return ResolveResult{
		Outcome:            outcome,
		FinalSuccessChance: finalChance,
		Grade:              grade,
		Rewards:            rewards,
		Injuries:           injuries,
		Fatigue:            fatigue,
		Logs:               audit.entries,
		ConsumedSeed:       req.Seed,
	}, nil
}

// partyPower sums each member's weighted power and applies the size synergy.
// An empty party gets EmptyPartyPower and the fallback is logged.
func partyPower(members []*adventurer.State, withTraits bool, audit *auditLog) float64 {
	if len(members) == 0 {
		audit.addf("Party has no members. Fallback power=%.0f.", EmptyPartyPower)
		return EmptyPartyPower
	}

	var total float64
	for _, m := range members {
		total += memberPower(m, withTraits)
	}
	synergy := 1 + math.Min(0.15, float64(len(members))*0.03)
	return total * synergy
}

func memberPower(m *adventurer.State, withTraits bool) float64 {
	s := m.EffectiveStats(withTraits)

	combat := float64(s.Attack)*1.25 + float64(s.Defense)*0.90 + float64(s.Magic)*1.10 + float64(s.Support)*0.80
	exploration := float64(s.Detection)*1.20 + float64(s.Mobility)*1.00 + float64(s.Survival)*1.05
	hpRatio := float64(s.CurrentHP) / float64(max(1, s.MaxHP))
	stability := float64(s.Morale)*0.70 + hpRatio*25 + float64(s.Stamina)*0.40

	fatiguePenalty := 1 - float64(m.Fatigue())/140
	injuryPenalty := 1.0
	if in := m.Injury(); in.Injured {
		injuryPenalty = math.Max(0, 1-float64(in.Severity)*0.12)
	}
	levelBonus := 1 + float64(m.Level())*0.02

	return math.Max(1, (combat+exploration+stability)*fatiguePenalty*injuryPenalty*levelBonus)
}

// SuccessChance maps a power/difficulty score and the days left before
// expiry to the logistic curve, the deadline penalty and the clamped final
// chance. A score of 1 sits at 50% before the penalty.
func SuccessChance(score float64, daysLeft int) (logistic, deadlinePenalty, final float64) {
	logistic = 1 / (1 + math.Exp(-(score-1)*3.2))

	if daysLeft <= 0 {
		deadlinePenalty = 0.15
	} else {
		deadlinePenalty = math.Min(0.15, 0.03/float64(max(daysLeft, 1)))
	}

	final = models.ClampFloat(logistic-deadlinePenalty, MinSuccessChance, MaxSuccessChance)
	return logistic, deadlinePenalty, final
}

// DetermineGrade grades a roll against the final chance. The lowest 40% of
// the failure band is a partial success.
func DetermineGrade(chance, roll, criticalBonus float64) models.OutcomeGrade {
	if roll <= chance*0.20+criticalBonus {
		return models.GradeCriticalSuccess
	}
	if roll <= chance {
		return models.GradeSuccess
	}
	if roll-chance <= (1-chance)*0.4 {
		return models.GradePartialSuccess
	}
	return models.GradeFail
}

func rewardMultiplier(grade models.OutcomeGrade) float64 {
	switch grade {
	case models.GradeCriticalSuccess:
		return 1.50
	case models.GradeSuccess:
		return 1.00
	case models.GradePartialSuccess:
		return 0.55
	default:
		return 0.10
	}
}

func baseInjurySeverity(grade models.OutcomeGrade) int {
	switch grade {
	case models.GradeSuccess:
		return 1
	case models.GradePartialSuccess:
		return 2
	default:
		return 3
	}
}

// buildInjuries draws one roll per member, and a severity jitter only for
// members who are hurt, so the stream position depends on earlier members.
// Resistance is read from the same effective stats partyPower uses.
func buildInjuries(members []*adventurer.State, grade models.OutcomeGrade, rng *rand.Rand, enabled, withTraits bool) models.InjuryPackage {
	if !enabled || grade == models.GradeCriticalSuccess {
		return models.InjuryPackage{}
	}

	base := baseInjurySeverity(grade)
	var injuries []models.InjuryInfo
	for _, m := range members {
		resist := 1 - float64(m.EffectiveStats(withTraits).InjuryResist)/200
		if rng.Float64() >= 0.20*resist {
			continue
		}
		severity := models.ClampInt(base+rng.Intn(3)-1, 1, 5)
		injuries = append(injuries, models.InjuryInfo{
			AdventurerID: m.ID(),
			Severity:     severity,
			Description:  fmt.Sprintf("%s suffered mission injury.", m.Name()),
		})
	}
	return models.InjuryPackage{Injuries: injuries}
}

func gradeLoad(grade models.OutcomeGrade) float64 {
	switch grade {
	case models.GradeCriticalSuccess:
		return 6
	case models.GradeSuccess:
		return 10
	case models.GradePartialSuccess:
		return 14
	default:
		return 20
	}
}

func fatigueDelta(assessedDifficulty float64, grade models.OutcomeGrade, memberCount int) int {
	missionLoad := assessedDifficulty * 4
	reduction := math.Min(8, float64(memberCount)*1.5)
	return max(3, models.RoundInt(missionLoad+gradeLoad(grade)-reduction))
}

type auditLog struct {
	entries []models.ResolveLogEntry
}

func (l *auditLog) addf(format string, args ...any) {
	if l == nil {
		return
	}
	l.entries = append(l.entries, models.ResolveLogEntry{Message: fmt.Sprintf(format, args...)})
}
