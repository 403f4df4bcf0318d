// Package party groups adventurers for a single quest attempt.
package party

import (
	"fmt"
	"strings"

	"github.com/example/guild/internal/core/adventurer"
	"github.com/example/guild/internal/models"
)

// Party is an ordered, duplicate-free set of adventurer pointers borrowed
// from the roster. It never owns or copies adventurer state.
type Party struct {
	id      string
	members []*adventurer.State
}

// New creates a party. Duplicate members (by id) and nil entries are skipped.
func New(partyID string, members ...*adventurer.State) (*Party, error) {
	if strings.TrimSpace(partyID) == "" {
		return nil, fmt.Errorf("party id is required: %w", models.ErrInvalidArgument)
	}
	p := &Party{id: partyID}
	for _, m := range members {
		if m != nil {
			p.AddMember(m)
		}
	}
	return p, nil
}

// ID returns the party id.
func (p *Party) ID() string { return p.id }

// Members returns the members in join order. The slice is a copy; the
// pointers are shared with the roster.
func (p *Party) Members() []*adventurer.State {
	out := make([]*adventurer.State, len(p.members))
	copy(out, p.members)
	return out
}

// MemberIDs returns member ids in join order.
func (p *Party) MemberIDs() []string {
	out := make([]string, len(p.members))
	for i, m := range p.members {
		out[i] = m.ID()
	}
	return out
}

// Size returns the number of members.
func (p *Party) Size() int { return len(p.members) }

// AddMember appends a member and reports whether it was added. A member
// whose id is already present is rejected.
func (p *Party) AddMember(m *adventurer.State) bool {
	if m == nil {
		return false
	}
	if p.indexOf(m.ID()) >= 0 {
		return false
	}
	p.members = append(p.members, m)
	return true
}

// RemoveMember drops the member with the given id and reports whether it was present.
func (p *Party) RemoveMember(adventurerID string) bool {
	i := p.indexOf(adventurerID)
	if i < 0 {
		return false
	}
	p.members = append(p.members[:i], p.members[i+1:]...)
	return true
}

func (p *Party) indexOf(id string) int {
	for i, m := range p.members {
		if m.ID() == id {
			return i
		}
	}
	return -1
}

// AverageCondition is the mean of each member's hp ratio x rest x health,
// each member clamped to [0, 1]. An empty party has condition 0.
func (p *Party) AverageCondition() float64 {
	if len(p.members) == 0 {
		return 0
	}
	var total float64
	for _, m := range p.members {
		s := m.Stats()
		hpRatio := 0.0
		if s.MaxHP > 0 {
			hpRatio = float64(s.CurrentHP) / float64(s.MaxHP)
		}
		fatigueFactor := 1 - float64(m.Fatigue())/100
		injuryFactor := 1.0
		if in := m.Injury(); in.Injured {
			injuryFactor = max(0, 1-float64(in.Severity)*0.2)
		}
		total += models.ClampFloat(hpRatio*fatigueFactor*injuryFactor, 0, 1)
	}
	return total / float64(len(p.members))
}

// AverageFatigue is the mean member fatigue, 0 for an empty party.
func (p *Party) AverageFatigue() float64 {
	if len(p.members) == 0 {
		return 0
	}
	var total int
	for _, m := range p.members {
		total += m.Fatigue()
	}
	return float64(total) / float64(len(p.members))
}

// TotalStats is the field-wise sum of member stats.
func (p *Party) TotalStats() models.StatBlock {
	var total models.StatBlock
	for _, m := range p.members {
		total = total.Add(m.Stats())
	}
	return total
}

// AllDeployable reports whether every member passes the deployability guard.
func (p *Party) AllDeployable() bool {
	for _, m := range p.members {
		if !m.IsDeployable() {
			return false
		}
	}
	return true
}
