package family

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kintree_graph_mutations_total",
		Help: "Accepted graph mutations by entity and action.",
	}, []string{"entity", "action"})

	mergesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kintree_person_merges_total",
		Help: "Completed person merges.",
	})

	mergeEdgeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kintree_merge_edge_failures_total",
		Help: "Edge transfers skipped during merge or reconciliation.",
	})
)
