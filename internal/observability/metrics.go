package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "consent_api_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// CacheHits tracks cache hits per operation
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consent_api_cache_hits_total",
			Help: "Number of cache hits",
		},
		[]string{"operation"},
	)

	// DatabaseOperations tracks database operations
	DatabaseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consent_api_database_operations_total",
			Help: "Number of database operations",
		},
		[]string{"operation", "status"},
	)

	// ConsentWrites tracks consent record writes by outcome
	ConsentWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consent_api_consent_writes_total",
			Help: "Number of consent save attempts",
		},
		[]string{"status"},
	)

	// SMSSubmissions tracks promotional SMS submissions to the provider
	SMSSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consent_api_sms_submissions_total",
			Help: "Number of SMS submissions to the messaging provider",
		},
		[]string{"status"},
	)

	// LocationLookups tracks geolocation lookups by outcome
	LocationLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consent_api_location_lookups_total",
			Help: "Number of IP geolocation lookups",
		},
		[]string{"status"},
	)

	// ActiveConnections tracks active connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "consent_api_active_connections",
			Help: "Number of active connections",
		},
	)
)
