// Package board holds the guild's quest board: the registry that owns every
// quest instance and keeps their assessments current.
package board

import (
	"fmt"
	"strings"

	"github.com/example/guild/internal/core/assessment"
	"github.com/example/guild/internal/core/quest"
	"github.com/example/guild/internal/models"
)

// QuestBoard stores quests by id in insertion order.
type QuestBoard struct {
	assessor assessment.Assessor
	byID     map[string]*quest.Instance
	order    []string
}

// New creates an empty board. A nil assessor falls back to the default service.
func New(assessor assessment.Assessor) *QuestBoard {
	if assessor == nil {
		assessor = assessment.NewService()
	}
	return &QuestBoard{
		assessor: assessor,
		byID:     make(map[string]*quest.Instance),
	}
}

// AddQuest assesses q against world and stores it. A duplicate id fails with
// ErrAlreadyExists before any assessment runs, leaving both quests untouched.
func (b *QuestBoard) AddQuest(q *quest.Instance, world models.WorldStateSnapshot) error {
	if q == nil {
		return fmt.Errorf("quest is required: %w", models.ErrInvalidArgument)
	}
	if _, exists := b.byID[q.ID()]; exists {
		return fmt.Errorf("quest %s: %w", q.ID(), models.ErrAlreadyExists)
	}

	b.assessor.ApplyAssessment(q, world)
	b.byID[q.ID()] = q
	b.order = append(b.order, q.ID())
	return nil
}

// AddQuests adds each quest in turn and stops at the first failure.
// Quests added before the failure stay on the board.
func (b *QuestBoard) AddQuests(quests []*quest.Instance, world models.WorldStateSnapshot) error {
	for _, q := range quests {
		if err := b.AddQuest(q, world); err != nil {
			return err
		}
	}
	return nil
}

// FindByID returns the quest with the given id.
func (b *QuestBoard) FindByID(id string) models.Optional[*quest.Instance] {
	if strings.TrimSpace(id) == "" {
		return models.None[*quest.Instance]()
	}
	if q, ok := b.byID[id]; ok {
		return models.Some(q)
	}
	return models.None[*quest.Instance]()
}

// GetOpenQuests returns Pending, Assigned and InProgress quests in insertion order.
func (b *QuestBoard) GetOpenQuests() []*quest.Instance {
	var out []*quest.Instance
	for _, id := range b.order {
		if q := b.byID[id]; q.IsOpen() {
			out = append(out, q)
		}
	}
	return out
}

// GetAllQuests returns every quest in insertion order.
func (b *QuestBoard) GetAllQuests() []*quest.Instance {
	out := make([]*quest.Instance, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.byID[id])
	}
	return out
}

// RemoveQuest drops the quest and reports whether it was present.
func (b *QuestBoard) RemoveQuest(id string) bool {
	if _, ok := b.byID[id]; !ok {
		return false
	}
	delete(b.byID, id)
	for i, existing := range b.order {
		if existing == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return true
}

// ReassessOpenQuests re-runs assessment on every open quest and returns how
// many were touched.
func (b *QuestBoard) ReassessOpenQuests(world models.WorldStateSnapshot) int {
	open := b.GetOpenQuests()
	for _, q := range open {
		b.assessor.ApplyAssessment(q, world)
	}
	return len(open)
}

// ArchiveExpired archives every Pending quest whose expiry day has passed
// and returns them. Assigned and InProgress quests are left for resolution.
func (b *QuestBoard) ArchiveExpired(day int) ([]*quest.Instance, error) {
	var archived []*quest.Instance
	for _, id := range b.order {
		q := b.byID[id]
		if q.State() != models.QuestPending || !q.IsExpired(day) {
			continue
		}
		if err := q.Archive(); err != nil {
			return archived, fmt.Errorf("failed to archive expired quest: %w", err)
		}
		archived = append(archived, q)
	}
	return archived, nil
}

// Len returns the number of quests on the board.
func (b *QuestBoard) Len() int {
	return len(b.order)
}
