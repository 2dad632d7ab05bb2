package trigger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	handlerItem   = "item"
	handlerAgenda = "agenda"
)

// outcomesTotal counts handler invocations by handler and outcome.
var outcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reviewagenda_trigger_outcomes_total",
	Help: "Change-event coordinator invocations by handler and outcome",
}, []string{"handler", "outcome"})
