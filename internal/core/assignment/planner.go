// Package assignment decides whether a party may take a quest and estimates
// how well it would do.
package assignment

import (
	"fmt"
	"sort"

	"github.com/example/guild/internal/core/party"
	"github.com/example/guild/internal/core/quest"
	"github.com/example/guild/internal/core/resolver"
	"github.com/example/guild/internal/models"
)

// PreviewSeed is the fixed seed used for match previews.
const PreviewSeed = 1337

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

// Config tunes a Planner.
type Config struct {
	// MinimumPartySize floors the difficulty-based requirement. Values below 1 become 1.
	MinimumPartySize int
	// DefaultDayIndex is the day previews are run on. Negative values become 0.
	DefaultDayIndex int
	// PreviewOptions overrides models.PreviewResolveOptions when set.
	PreviewOptions models.Optional[models.ResolveOptions]
}

// Planner gates assignments and scores candidate parties.
type Planner struct {
	resolver       resolver.Resolver
	minimumSize    int
	defaultDay     int
	previewOptions models.ResolveOptions
}

// Candidate is a party with its preview score.
type Candidate struct {
	Party *party.Party
	Score float64
}

// New creates a Planner that previews matches with r.
func New(r resolver.Resolver, cfg Config) (*Planner, error) {
	if r == nil {
		return nil, fmt.Errorf("resolver is required: %w", models.ErrInvalidArgument)
	}
	return &Planner{
		resolver:       r,
		minimumSize:    max(1, cfg.MinimumPartySize),
		defaultDay:     max(0, cfg.DefaultDayIndex),
		previewOptions: cfg.PreviewOptions.OrElse(models.PreviewResolveOptions()),
	}, nil
}

// RequiredMembers returns the party size a quest needs: a difficulty tier
// floored by the configured minimum.
func (p *Planner) RequiredMembers(q *quest.Instance) int {
	d := q.AssessedDifficulty()
	var tier int
	switch {
	case d < 30:
		tier = 1
	case d < 60:
		tier = 2
	case d < 90:
		tier = 3
	default:
		tier = 4
	}
	return max(p.minimumSize, tier)
}

// CheckAssign evaluates every assignment precondition and reports the first
// that fails.
func (p *Planner) CheckAssign(q *quest.Instance, pt *party.Party) GuardResult {
	if q == nil || pt == nil {
		return GuardResult{Allowed: false, Reason: "quest and party are required"}
	}

	if q.State() != models.QuestPending {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("quest %s is %s, not pending", q.ID(), q.State()),
		}
	}

	if need := p.RequiredMembers(q); pt.Size() < need {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("party %s has %d members, quest %s needs %d", pt.ID(), pt.Size(), q.ID(), need),
		}
	}

	for _, m := range pt.Members() {
		if !m.IsDeployable() {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("adventurer %s is not deployable", m.ID()),
			}
		}
	}

	return GuardResult{Allowed: true}
}

// CanAssign reports whether pt may take q. Any failing condition is a hard no.
func (p *Planner) CanAssign(q *quest.Instance, pt *party.Party) bool {
	return p.CheckAssign(q, pt).Allowed
}

// EvaluateMatch returns the previewed success chance, or 0 when the party
// cannot take the quest. The preview runs with a fixed seed and injuries
// off, and changes nothing.
func (p *Planner) EvaluateMatch(q *quest.Instance, pt *party.Party) (float64, error) {
	if !p.CanAssign(q, pt) {
		return 0, nil
	}

	result, err := p.resolver.Resolve(resolver.ResolveRequest{
		Quest:    q,
		Party:    pt,
		World:    models.WorldStateSnapshot{DayIndex: p.defaultDay},
		DayIndex: p.defaultDay,
		Seed:     PreviewSeed,
		Options:  p.previewOptions,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to preview quest %s: %w", q.ID(), err)
	}
	return result.FinalSuccessChance, nil
}

// RankCandidates scores each party against q and returns the assignable ones
// best first. Ties keep their input order.
func (p *Planner) RankCandidates(q *quest.Instance, parties []*party.Party) ([]Candidate, error) {
	var out []Candidate
	for _, pt := range parties {
		if !p.CanAssign(q, pt) {
			continue
		}
		score, err := p.EvaluateMatch(q, pt)
		if err != nil {
			return nil, err
		}
		out = append(out, Candidate{Party: pt, Score: score})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}
