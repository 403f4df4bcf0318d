// Package metrics exposes simulation activity as Prometheus metrics. The
// recorder is fed by the event dispatcher; nothing in the core knows it
// exists.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/example/guild/internal/core/events"
)

const namespace = "guild"

// Recorder holds the guild's collectors on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	missionsResolved *prometheus.CounterVec
	successChance    prometheus.Histogram
	goldAwarded      prometheus.Counter
	reputation       prometheus.Counter
	injuries         prometheus.Counter
	fatigue          prometheus.Histogram
	questsAssigned   prometheus.Counter
	partySize        prometheus.Histogram
	questsExpired    prometheus.Counter
	lastResolvedDay  prometheus.Gauge
}

// NewRecorder creates a Recorder with every collector registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		missionsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "missions_resolved_total",
			Help:      "Resolved missions by outcome grade.",
		}, []string{"grade"}),
		successChance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mission_success_chance",
			Help:      "Final success chance of resolved missions.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 9),
		}),
		goldAwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gold_awarded_total",
			Help:      "Gold paid out by resolved missions.",
		}),
		reputation: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reputation_awarded_total",
			Help:      "Reputation earned by resolved missions.",
		}),
		injuries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "injuries_total",
			Help:      "Injuries suffered on missions.",
		}),
		fatigue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mission_fatigue_delta",
			Help:      "Fatigue applied to each member per mission.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
		questsAssigned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quests_assigned_total",
			Help:      "Quests assigned to a party.",
		}),
		partySize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "party_size",
			Help:      "Members per assigned party.",
			Buckets:   []float64{1, 2, 3, 4, 5, 6},
		}),
		questsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quests_expired_total",
			Help:      "Pending quests archived unclaimed.",
		}),
		lastResolvedDay: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_resolved_day",
			Help:      "Day index of the most recent resolution.",
		}),
	}

	r.registry.MustRegister(
		r.missionsResolved,
		r.successChance,
		r.goldAwarded,
		r.reputation,
		r.injuries,
		r.fatigue,
		r.questsAssigned,
		r.partySize,
		r.questsExpired,
		r.lastResolvedDay,
	)
	return r
}

// Registry returns the registry the collectors live on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Attach subscribes the recorder to every event it counts.
func (r *Recorder) Attach(d *events.Dispatcher) []events.Subscription {
	return []events.Subscription{
		events.Subscribe(d, r.ObserveMissionResolved),
		events.Subscribe(d, r.ObserveQuestAssigned),
		events.Subscribe(d, r.ObserveQuestExpired),
	}
}

// ObserveMissionResolved records one resolution.
func (r *Recorder) ObserveMissionResolved(e events.MissionResolvedEvent) {
	r.missionsResolved.WithLabelValues(string(e.Grade)).Inc()
	r.successChance.Observe(e.SuccessChance)
	r.goldAwarded.Add(float64(max(0, e.Rewards.Gold)))
	r.reputation.Add(float64(max(0, e.Rewards.Reputation)))
	r.injuries.Add(float64(e.Injuries.Count()))
	r.fatigue.Observe(float64(e.FatigueDelta))
	r.lastResolvedDay.Set(float64(e.ResolvedDay))
}

// ObserveQuestAssigned records one assignment.
func (r *Recorder) ObserveQuestAssigned(e events.QuestAssignedEvent) {
	r.questsAssigned.Inc()
	r.partySize.Observe(float64(len(e.MemberIDs)))
}

// ObserveQuestExpired records one expiry.
func (r *Recorder) ObserveQuestExpired(events.QuestExpiredEvent) {
	r.questsExpired.Inc()
}

// WriteTextfile writes the current values in the text exposition format,
// suitable for the node exporter's textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
