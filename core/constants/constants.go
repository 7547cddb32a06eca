package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
)

// Timeouts
const (
	DefaultTimeout        = 30 * time.Second
	DefaultRequestTimeout = 10 * time.Second
	CalendarFetchTimeout  = 8 * time.Second
)

// Database pool settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Token scopes
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
)

// Scheduling defaults. Working bounds are minutes from midnight.
const (
	DefaultGranularityMinutes   = 30
	DefaultSuggestionCount      = 3
	DefaultWorkingBoundsStart   = 8 * 60  // 08:00
	DefaultWorkingBoundsEnd     = 22 * 60 // 22:00
	MaxMeetingDurationMinutes   = 480
	MinMeetingDurationMinutes   = 15
	RegenerationLockTTL         = 2 * time.Minute
	RegenerationTaskMaxRetry    = 3
	RegenerationQueue           = "scheduling"
	WorkerConcurrency           = 10
)

// Meeting types
const (
	MeetingTypeGeneral = "general"
	MeetingTypeMeal    = "meal"
)
