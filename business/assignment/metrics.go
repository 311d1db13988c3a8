package assignment

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	AssignmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocation_assignments_total",
			Help: "Assignment responses by outcome (existing, new, race_lost, unpersisted) and algorithm.",
		},
		[]string{"outcome", "algorithm"},
	)

	ConversionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "allocation_conversions_total",
		Help: "Conversions accepted for recording.",
	})

	BestEffortFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocation_best_effort_failures_total",
			Help: "Swallowed failures of fire-and-forget writes by operation.",
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(AssignmentsTotal, ConversionsTotal, BestEffortFailuresTotal)
}
