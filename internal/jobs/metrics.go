package jobs

import "github.com/prometheus/client_golang/prometheus"

var (
	jobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal", Subsystem: "job", Name: "runs_total", Help: "Background job runs",
	}, []string{"job"})
	jobErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal", Subsystem: "job", Name: "errors_total", Help: "Failed or panicked background job runs",
	}, []string{"job"})
	jobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "portal", Subsystem: "job", Name: "duration_seconds", Help: "Background job duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
)

func init() {
	prometheus.MustRegister(jobRuns, jobErrors, jobDuration)
}
