package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Mutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal", Name: "store_mutations_total", Help: "Committed store mutations",
	}, []string{"op"})
	MutationErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal", Name: "store_mutation_errors_total", Help: "Rejected store mutations",
	}, []string{"op", "kind"})
	SnapshotVersion = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "portal", Name: "store_snapshot_version", Help: "Current store snapshot version",
	})
	PromotionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "portal", Name: "promotion_seconds", Help: "Bulk promotion latency",
		Buckets: prometheus.DefBuckets,
	})
	Exports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal", Name: "exports_total", Help: "Generated export files",
	}, []string{"kind"})
	BotUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "portal", Name: "bot_updates_total", Help: "Processed telegram updates",
	})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "portal", Name: "handler_errors_total", Help: "Handler errors",
	})
)

func init() {
	prometheus.MustRegister(Mutations, MutationErrors, SnapshotVersion, PromotionDuration, Exports, BotUpdates, HandlerErrors)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObservePromotion(d time.Duration) { PromotionDuration.Observe(d.Seconds()) }
