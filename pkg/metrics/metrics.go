package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP
// =============================================================================

// HttpRequestsTotal counts every HTTP request.
// Labels: service, method, path (route template), status
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Document store
// =============================================================================

var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of document store operations in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "collection"},
)

var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of document store errors",
	},
	[]string{"service", "operation", "collection"},
)

// =============================================================================
// Redis
// =============================================================================

var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

var RedisOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "redis_operation_duration_seconds",
		Help:    "Duration of Redis operations in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	},
	[]string{"service", "operation"},
)

var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka
// =============================================================================

var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"},
)

// =============================================================================
// Booking & trust lifecycle
// =============================================================================

// BookingsCreated counts new bookings. kind: stay, vehicle
var BookingsCreated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Total number of bookings created",
	},
	[]string{"kind"},
)

// BookingTransitions counts status changes by target status and outcome.
var BookingTransitions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "booking_transitions_total",
		Help: "Total number of booking status transitions",
	},
	[]string{"status", "result"}, // result: success, rejected, failed
)

// PaymentCallbacks counts gateway callbacks by outcome.
var PaymentCallbacks = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "payment_callbacks_total",
		Help: "Total number of payment gateway callbacks",
	},
	[]string{"result"}, // success, failed
)

var BookingReplies = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "booking_replies_total",
		Help: "Total number of replies appended to bookings",
	},
	[]string{"author"}, // admin, system
)

var RatingRecomputes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "property_rating_recomputes_total",
		Help: "Total number of property rating recomputations",
	},
	[]string{"trigger", "result"},
)

var ReviewsRating = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "reviews_rating",
		Help:    "Distribution of submitted review ratings",
		Buckets: []float64{1, 2, 3, 4, 5},
	},
)

var VerificationDecisions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "partner_verification_decisions_total",
		Help: "Total number of partner verification decisions",
	},
	[]string{"action", "result"},
)

var BookingsExpired = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bookings_expired_total",
		Help: "Total number of unpaid bookings cancelled by the expiry job",
	},
	[]string{"result"},
)
