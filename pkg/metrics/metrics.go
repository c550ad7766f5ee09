package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every collector of this process. It is written to a textfile
// rather than served, since the scanner exposes no network surface.
var Registry = prometheus.NewRegistry()

var (
	ListingsProcessed *prometheus.CounterVec
	OfferResolutions  *prometheus.CounterVec
	StepDuration      *prometheus.HistogramVec
	DealProfit        prometheus.Histogram
	SessionsActive    prometheus.Gauge
)

func init() {
	factory := promauto.With(Registry)

	ListingsProcessed = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_processed_total",
			Help: "Total number of listings evaluated, by outcome.",
		},
		[]string{"outcome"},
	)

	OfferResolutions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offer_resolutions_total",
			Help: "Total number of retailer offer lookups.",
		},
		[]string{"strategy", "result"}, // result: matched, no_results, declined, no_price, timeout, transport
	)

	StepDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_step_duration_seconds",
			Help:    "Duration of pipeline steps.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 15, 30, 60},
		},
		[]string{"step"},
	)

	DealProfit = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "deal_profit_pounds",
			Help:    "Profit of recorded deals in pounds.",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		},
	)

	SessionsActive = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "browser_sessions_active",
			Help: "Current number of live browser sessions.",
		},
	)
}

// WriteTextfile writes the registry in text exposition format, for the
// node-exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
