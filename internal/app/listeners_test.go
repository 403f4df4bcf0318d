package app

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/example/guild/internal/core/events"
	"github.com/example/guild/internal/models"
	"github.com/example/guild/internal/ports/secondary"
)

// mockOutcomeLedger implements secondary.OutcomeLedger for testing.
type mockOutcomeLedger struct {
	runs      []*secondary.RunRecord
	outcomes  []*secondary.OutcomeRecord
	recordErr error
}

func (m *mockOutcomeLedger) StartRun(ctx context.Context, run *secondary.RunRecord) error {
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockOutcomeLedger) Record(ctx context.Context, outcome *secondary.OutcomeRecord) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.outcomes = append(m.outcomes, outcome)
	return nil
}

func (m *mockOutcomeLedger) List(ctx context.Context, filters secondary.OutcomeFilters) ([]*secondary.OutcomeRecord, error) {
	var result []*secondary.OutcomeRecord
	for _, o := range m.outcomes {
		if filters.RunID != "" && o.RunID != filters.RunID {
			continue
		}
		result = append(result, o)
	}
	return result, nil
}

func (m *mockOutcomeLedger) ListRuns(ctx context.Context) ([]*secondary.RunRecord, error) {
	return m.runs, nil
}

func (m *mockOutcomeLedger) CountByGrade(ctx context.Context, runID string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, o := range m.outcomes {
		if runID == "" || o.RunID == runID {
			counts[o.Grade]++
		}
	}
	return counts, nil
}

func resolvedEvent() events.MissionResolvedEvent {
	return events.MissionResolvedEvent{
		QuestID:       "q1",
		PartyID:       "p1",
		Grade:         models.GradePartialSuccess,
		Rewards:       models.RewardPackage{Gold: 55, Reputation: 6, Items: []string{"herb"}},
		Injuries:      models.InjuryPackage{Injuries: []models.InjuryInfo{{AdventurerID: "a1", Severity: 2}}},
		ResolvedDay:   4,
		SuccessChance: 0.42,
		RollValue:     0.61,
		FatigueDelta:  18,
	}
}

func TestLedgerRecorder_RecordsResolvedMissions(t *testing.T) {
	ledger := &mockOutcomeLedger{}
	d := events.NewDispatcher()
	recorder := NewLedgerRecorder(context.Background(), ledger, "run-1", nil)
	recorder.Attach(d)

	events.Publish(d, resolvedEvent())
	events.Publish(d, events.QuestExpiredEvent{QuestID: "q9"})

	if len(ledger.outcomes) != 1 {
		t.Fatalf("recorded %d outcomes, want 1", len(ledger.outcomes))
	}
	want := &secondary.OutcomeRecord{
		RunID:         "run-1",
		QuestID:       "q1",
		PartyID:       "p1",
		Grade:         "partial_success",
		SuccessChance: 0.42,
		RollValue:     0.61,
		Gold:          55,
		Reputation:    6,
		Items:         []string{"herb"},
		InjuryCount:   1,
		FatigueDelta:  18,
		ResolvedDay:   4,
	}
	if !reflect.DeepEqual(ledger.outcomes[0], want) {
		t.Errorf("record = %+v, want %+v", ledger.outcomes[0], want)
	}
	if recorder.Recorded() != 1 || recorder.Err() != nil {
		t.Errorf("Recorded() = %d, Err() = %v", recorder.Recorded(), recorder.Err())
	}
}

func TestLedgerRecorder_KeepsFirstError(t *testing.T) {
	first := errors.New("disk full")
	ledger := &mockOutcomeLedger{recordErr: first}
	logger := &recordingLogger{}
	d := events.NewDispatcher()
	recorder := NewLedgerRecorder(context.Background(), ledger, "", logger)
	sub := recorder.Attach(d)

	events.Publish(d, resolvedEvent())
	ledger.recordErr = errors.New("still full")
	events.Publish(d, resolvedEvent())

	if !errors.Is(recorder.Err(), first) {
		t.Errorf("Err() = %v, want %v", recorder.Err(), first)
	}
	if recorder.Recorded() != 0 {
		t.Errorf("Recorded() = %d, want 0", recorder.Recorded())
	}
	if len(logger.lines) != 2 {
		t.Errorf("logged %d failures, want 2", len(logger.lines))
	}

	sub.Close()
	ledger.recordErr = nil
	events.Publish(d, resolvedEvent())
	if len(ledger.outcomes) != 0 {
		t.Error("detached recorder still recording")
	}
}
