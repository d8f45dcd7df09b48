package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var provisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storeplane_store_provisions_total",
		Help: "Completed store provisioning sequences by engine and outcome.",
	},
	[]string{"engine", "outcome"},
)

var deletionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "storeplane_store_deletions_total",
		Help: "Stores removed from the registry.",
	},
)
