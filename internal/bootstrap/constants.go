package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755
)

// =============================================================================
// Logger Configuration
// =============================================================================

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingService     = "Starting lootbox service"
	LogMsgConfigurationLoaded = "Configuration loaded"
)

// =============================================================================
// Ledger Configuration
// =============================================================================

// Log messages for ledger initialization
const (
	LogMsgLedgerInitialized      = "Ledger client initialized"
	LogMsgOperatorAddressIgnored = "DEV_WALLET_ADDRESS does not match the operator key, using the key's address"
	LogMsgLedgerUnreachable      = "Ledger RPC not reachable at startup"
	ErrMsgFailedLoadOperatorKey  = "failed to load operator key"
)

// LedgerStartupProbeTimeout bounds the startup health probe
const LedgerStartupProbeTimeout = 5 * time.Second

// =============================================================================
// Cache Configuration
// =============================================================================

// Log messages for cache initialization
const (
	LogMsgRedisGuardInitialized  = "Payment replay guard using Redis"
	LogMsgMemoryGuardInitialized = "Payment replay guard using in-memory LRU, claims are not shared between replicas"
	ErrMsgFailedConnectRedis     = "failed to connect to redis"
)

// RedisPingTimeout bounds the startup connectivity check
const RedisPingTimeout = 5 * time.Second

// =============================================================================
// Service Configuration
// =============================================================================

// Log messages for service initialization
const (
	LogMsgServicesInitialized = "Lootbox service initialized"
	ErrMsgFailedLoadCatalog   = "failed to load tier catalog"
)

// =============================================================================
// Event System Configuration
// =============================================================================

const (
	// EventDefaultMaxRetries is the default number of retry attempts for failed event publishing
	EventDefaultMaxRetries = 5

	// EventDefaultRetryDelay is the default base delay between retry attempts (exponential backoff)
	EventDefaultRetryDelay = 2 * time.Second

	// EventDefaultDeadLetterPath is the default file path for dead-letter event logging
	EventDefaultDeadLetterPath = "logs/event_deadletter.jsonl"
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
)

// =============================================================================
// Event Handler Configuration
// =============================================================================

// Log messages for event handler registration
const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgKafkaSinkRegistered        = "Kafka event forwarding enabled"
	LogMsgKafkaSinkDisabled          = "KAFKA_BROKERS not set, events stay in process"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgKafkaSinkCloseFailed       = "Kafka writer close failed"
	LogMsgRedisCloseFailed           = "Redis client close failed"
)
