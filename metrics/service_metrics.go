package metrics

import (
	"math/big"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsPrefix is the prefix used for all metrics
const MetricsPrefix = "token_supply_"

// Service constants
const (
	ServiceCLI     = "cli"
	ServiceAPI     = "api"
	ServiceMonitor = "monitor"
)

var (
	// Mirror node request counter per service
	// Cardinality: ~9 (3 services × 3 statuses)
	MirrorRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "mirror_requests_total",
			Help: "Total number of HTTP requests to the mirror node per service",
		},
		[]string{"service", "status"},
	)

	// Aggregation call counter by outcome
	// Cardinality: ~18 (3 services × 6 outcomes)
	AggregationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "aggregations_total",
			Help: "Total number of supply aggregations by outcome",
		},
		[]string{"service", "outcome"},
	)

	// Aggregation duration per service
	AggregationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricsPrefix + "aggregation_duration_seconds",
			Help:    "Time taken to complete a supply aggregation",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"service"},
	)

	// Balance pages fetched per successful aggregation
	BalancePagesHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricsPrefix + "balance_pages",
			Help:    "Number of balance pages fetched per aggregation",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
		[]string{"service"},
	)

	// Balance records read from the mirror node, summed over pages
	BalanceRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "balance_records_total",
			Help: "Total number of balance records read from mirror node pages",
		},
		[]string{"service"},
	)

	// Supply gauges are expressed in whole tokens (amount / 10^decimals).
	// Cardinality: number of configured presets
	TotalSupplyGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "total_supply_tokens",
			Help: "Total supply of the token in whole tokens",
		},
		[]string{"token", "source"},
	)

	CirculatingSupplyGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "circulating_supply_tokens",
			Help: "Circulating supply of the token in whole tokens",
		},
		[]string{"token", "source"},
	)

	HoldersGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "holders",
			Help: "Number of accounts holding the token, treasuries excluded",
		},
		[]string{"token", "source"},
	)

	LastSuccessTimestamp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "last_success_timestamp_seconds",
			Help: "Unix time of the last successful aggregation",
		},
		[]string{"token", "source"},
	)
)

// MetricsWriter provides a unified interface for recording service metrics.
// A nil *MetricsWriter records nothing.
type MetricsWriter struct {
	serviceName string
}

// NewMetricsWriter creates a new MetricsWriter for the specified service
func NewMetricsWriter(serviceName string) *MetricsWriter {
	return &MetricsWriter{
		serviceName: serviceName,
	}
}

// GetServiceName returns the service name
func (mw *MetricsWriter) GetServiceName() string {
	if mw == nil {
		return ""
	}
	return mw.serviceName
}

// OnRequest records a mirror node request with its status.
// MetricsWriter satisfies mirror.IHttpStatusHandler.
func (mw *MetricsWriter) OnRequest(status string) {
	if mw == nil {
		return
	}
	MirrorRequestsTotal.WithLabelValues(mw.serviceName, status).Inc()
}

// RecordAggregation records the outcome and duration of one aggregation call
func (mw *MetricsWriter) RecordAggregation(outcome string, duration time.Duration) {
	if mw == nil {
		return
	}
	AggregationsTotal.WithLabelValues(mw.serviceName, outcome).Inc()
	AggregationDuration.WithLabelValues(mw.serviceName).Observe(duration.Seconds())
}

// RecordBalancePages records how many balance pages an aggregation walked
func (mw *MetricsWriter) RecordBalancePages(pages int) {
	if mw == nil {
		return
	}
	BalancePagesHistogram.WithLabelValues(mw.serviceName).Observe(float64(pages))
}

// RecordBalanceRecords counts the records of one balances page
func (mw *MetricsWriter) RecordBalanceRecords(records int) {
	if mw == nil {
		return
	}
	BalanceRecordsTotal.WithLabelValues(mw.serviceName).Add(float64(records))
}

// RecordSupply publishes supply gauges for token as read from source
func (mw *MetricsWriter) RecordSupply(token, source string, decimals int, total, circulating *big.Int, holders int) {
	if mw == nil {
		return
	}
	TotalSupplyGauge.WithLabelValues(token, source).Set(ToWholeTokens(total, decimals))
	CirculatingSupplyGauge.WithLabelValues(token, source).Set(ToWholeTokens(circulating, decimals))
	HoldersGauge.WithLabelValues(token, source).Set(float64(holders))
	LastSuccessTimestamp.WithLabelValues(token, source).Set(float64(time.Now().Unix()))
}

// ToWholeTokens scales amount down by 10^decimals. Gauges are float64, so the
// conversion is lossy by nature and kept out of every supply calculation.
func ToWholeTokens(amount *big.Int, decimals int) float64 {
	if amount == nil {
		return 0
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	value, _ := new(big.Float).Quo(new(big.Float).SetInt(amount), new(big.Float).SetInt(scale)).Float64()
	return value
}
