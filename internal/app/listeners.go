package app

import (
	"context"
	"sync"

	"github.com/example/guild/internal/core/events"
	"github.com/example/guild/internal/models"
	"github.com/example/guild/internal/ports/secondary"
)

// LedgerRecorder appends every resolved mission to an OutcomeLedger.
// Publish has no error channel, so failures are logged and the first one is
// kept for Err.
type LedgerRecorder struct {
	ctx    context.Context
	ledger secondary.OutcomeLedger
	runID  string
	logger Logger

	mu       sync.Mutex
	recorded int
	firstErr error
}

// NewLedgerRecorder creates a recorder that tags outcomes with runID.
func NewLedgerRecorder(ctx context.Context, ledger secondary.OutcomeLedger, runID string, logger Logger) *LedgerRecorder {
	if logger == nil {
		logger = NopLogger{}
	}
	return &LedgerRecorder{ctx: ctx, ledger: ledger, runID: runID, logger: logger}
}

// Attach subscribes the recorder to d.
func (r *LedgerRecorder) Attach(d *events.Dispatcher) events.Subscription {
	return events.Subscribe(d, r.HandleMissionResolved)
}

// HandleMissionResolved records one outcome.
func (r *LedgerRecorder) HandleMissionResolved(e events.MissionResolvedEvent) {
	record := &secondary.OutcomeRecord{
		RunID:         r.runID,
		QuestID:       e.QuestID,
		PartyID:       e.PartyID,
		Grade:         string(e.Grade),
		SuccessChance: e.SuccessChance,
		RollValue:     e.RollValue,
		Gold:          e.Rewards.Gold,
		Reputation:    e.Rewards.Reputation,
		Items:         e.Rewards.Items,
		InjuryCount:   e.Injuries.Count(),
		FatigueDelta:  e.FatigueDelta,
		ResolvedDay:   e.ResolvedDay,
	}

	err := r.ledger.Record(r.ctx, record)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.logger.Printf("ledger: failed to record outcome for %s: %v", e.QuestID, err)
		if r.firstErr == nil {
			r.firstErr = err
		}
		return
	}
	r.recorded++
}

// Recorded returns how many outcomes were written.
func (r *LedgerRecorder) Recorded() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recorded
}

// Err returns the first recording failure, if any.
func (r *LedgerRecorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.firstErr
}

// LogOutcomes subscribes a handler that writes one summary line per
// resolved mission to logger.
func LogOutcomes(d *events.Dispatcher, logger Logger) events.Subscription {
	return events.Subscribe(d, func(e events.MissionResolvedEvent) {
		logger.Printf("[MissionResolved] Quest=%s, Party=%s, Success=%t, Grade=%s, Gold=%d, Rep=%d, InjuryCount=%d",
			e.QuestID, e.PartyID, e.Grade != models.GradeFail, e.Grade, e.Rewards.Gold, e.Rewards.Reputation, e.Injuries.Count())
	})
}
