package bandit

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ScorerDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocation_scorer_decisions_total",
			Help: "Count of allocation decisions by algorithm and branch (exploit, explore, fallback).",
		},
		[]string{"algorithm", "branch"},
	)

	ScoreCacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocation_score_cache_lookups_total",
			Help: "Score cache lookups by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(ScorerDecisionsTotal, ScoreCacheLookupsTotal)
}

// ObserveDecision counts d under its algorithm and branch.
func ObserveDecision(d Decision, err error) {
	branch := "exploit"
	switch {
	case err != nil:
		branch = "fallback"
	case d.Explored:
		branch = "explore"
	}
	ScorerDecisionsTotal.WithLabelValues(string(d.Algorithm), branch).Inc()
}
