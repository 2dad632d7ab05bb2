package jobs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// jobsTotal counts job state transitions by task and resulting status.
var jobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reviewagenda_jobs_total",
	Help: "Job state transitions by task and status",
}, []string{"task", "status"})
