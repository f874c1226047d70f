package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the conversational booking
// flow.
type BookingMetrics struct {
	conversationsStarted prometheus.Counter
	conversationsDone    *prometheus.CounterVec
	stepTransitions      *prometheus.CounterVec
	slotConflicts        prometheus.Counter
	commitLatencySeconds prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		conversationsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "carebook",
			Subsystem: "booking",
			Name:      "conversations_started_total",
			Help:      "Total booking conversations started",
		}),
		conversationsDone: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carebook",
			Subsystem: "booking",
			Name:      "conversations_finished_total",
			Help:      "Total booking conversations finished, by outcome",
		}, []string{"outcome"}),
		stepTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carebook",
			Subsystem: "booking",
			Name:      "step_transitions_total",
			Help:      "Total step transitions, by destination step",
		}, []string{"to_step"}),
		slotConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "carebook",
			Subsystem: "booking",
			Name:      "slot_conflicts_total",
			Help:      "Total reservations lost to a slot conflict",
		}),
		commitLatencySeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "carebook",
			Subsystem: "booking",
			Name:      "commit_latency_seconds",
			Help:      "Latency of the final booking commit",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	// A nil registerer leaves the collectors unregistered; they still
	// count, they just are not exported anywhere.
	if reg == nil {
		return m
	}
	reg.MustRegister(
		m.conversationsStarted,
		m.conversationsDone,
		m.stepTransitions,
		m.slotConflicts,
		m.commitLatencySeconds,
	)
	return m
}

func (m *BookingMetrics) ObserveConversationStarted() {
	if m == nil {
		return
	}
	m.conversationsStarted.Inc()
}

// ObserveConversationFinished records a terminal outcome: "committed",
// "conflict", "aborted".
func (m *BookingMetrics) ObserveConversationFinished(outcome string) {
	if m == nil {
		return
	}
	m.conversationsDone.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveStepTransition(toStep string) {
	if m == nil {
		return
	}
	m.stepTransitions.WithLabelValues(toStep).Inc()
}

func (m *BookingMetrics) ObserveSlotConflict() {
	if m == nil {
		return
	}
	m.slotConflicts.Inc()
}

func (m *BookingMetrics) ObserveCommitLatency(seconds float64) {
	if m == nil {
		return
	}
	m.commitLatencySeconds.Observe(seconds)
}
