package repo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "repocore",
	Subsystem: "repository",
	Name:      "operations_total",
	Help:      "Repository operations by name and outcome.",
}, []string{"operation", "outcome"})

func observeOperation(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	operationsTotal.WithLabelValues(operation, outcome).Inc()
}
