package utils

import "time"

// =============================================================================
// Analysis Constants
// =============================================================================

const (
	// DefaultTopN is the number of entities kept when no entity filter is given
	DefaultTopN = 10

	// DefaultForecastHorizon is the number of future periods projected per entity
	DefaultForecastHorizon = 5

	// MaxForecastHorizon is the largest horizon accepted by the forecast endpoint
	MaxForecastHorizon = 100

	// MinSeriesPoints is the minimum number of points for an entity to be analyzed
	MinSeriesPoints = 2

	// MinTrendPoints is the minimum number of points for a trend classification
	MinTrendPoints = 3

	// TrendThresholdFactor scales the population stdev into the slope threshold
	TrendThresholdFactor = 0.01

	// SummaryDecimals is the rounding applied to growth, volatility, mean and median
	SummaryDecimals = 2

	// UnknownIndicator names datasets without an indicator field
	UnknownIndicator = "Unknown"
)

// =============================================================================
// Prediction Constants
// =============================================================================

const (
	// DefaultMaxRecords is the number of sample records included in a data summary
	DefaultMaxRecords = 10

	// ComparisonMaxRecords is the number of sample records per dataset in comparisons
	ComparisonMaxRecords = 5

	// DefaultTemperature is the sampling temperature sent to model providers
	DefaultTemperature = 0.7

	// DefaultMaxTokens is the completion budget for single-dataset predictions
	DefaultMaxTokens = 1024

	// ComparisonMaxTokens is the completion budget for multi-dataset comparisons
	ComparisonMaxTokens = 1500

	// DefaultQuestion is asked when the caller does not supply one
	DefaultQuestion = "Analyze the trends in this data and provide insights about future predictions."
)

// =============================================================================
// Timeout Constants
// =============================================================================

const (
	// DefaultRequestTimeout is the default timeout for HTTP requests
	DefaultRequestTimeout = 30 * time.Second

	// ProviderTimeout is the default timeout for model provider calls
	ProviderTimeout = 30 * time.Second

	// FetchTimeout is the default timeout for statistical API calls
	FetchTimeout = 10 * time.Second

	// ShutdownTimeout bounds graceful server shutdown
	ShutdownTimeout = 10 * time.Second
)

// =============================================================================
// Queue Type Constants
// =============================================================================
// QueueType represents the type of message queue
type QueueType string

const (
	// QueueTypeNATS represents NATS JetStream queue
	QueueTypeNATS QueueType = "nats"

	// QueueTypeRedis represents Redis Streams queue
	QueueTypeRedis QueueType = "redis"

	// QueueTypeKafka represents Apache Kafka queue
	QueueTypeKafka QueueType = "kafka"

	// QueueTypeMemory represents in-memory queue (default)
	QueueTypeMemory QueueType = "memory"
)

// SinkType represents where analysis artifacts are written
type SinkType string

const (
	// SinkTypeFile writes artifacts to a local directory
	SinkTypeFile SinkType = "file"

	// SinkTypeS3 writes artifacts to an S3 (or S3-compatible) bucket
	SinkTypeS3 SinkType = "s3"

	// SinkTypeNone discards artifacts
	SinkTypeNone SinkType = "none"
)
