package models

import "time"

// RequestRecord is one entry in the sliding per-minute request window
type RequestRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
}

// RateLimitState is the persisted rate limiter state. It survives restarts
// through the key-value store but is per-installation, not shared.
type RateLimitState struct {
	DailyCount         int             `json:"daily_count"`
	LastResetDate      string          `json:"last_reset_date"` // local calendar date, e.g. "2026-08-29"
	RequestHistory     []RequestRecord `json:"request_history"`
	LastRequestTime    time.Time       `json:"last_request_time"`
	ConsecutiveErrors  int             `json:"consecutive_errors"`
	CooldownUntil      *time.Time      `json:"cooldown_until,omitempty"`
	CooldownDurationMs int             `json:"cooldown_duration_ms"`
}

// Denial reasons returned by the rate limiter
const (
	DenyReasonCooldown    = "In cooldown period due to consecutive errors"
	DenyReasonDailyQuota  = "Daily quota exceeded"
	DenyReasonPerMinute   = "Rate limit exceeded (requests per minute)"
	DenyReasonMinInterval = "Minimum interval between requests not met"
)

// RateLimitDecision is the outcome of a CanMakeRequest check
type RateLimitDecision struct {
	Allowed  bool          `json:"allowed"`
	Reason   string        `json:"reason,omitempty"`
	WaitTime time.Duration `json:"wait_time,omitempty"`
}

// RateLimitStatus is an observability snapshot with no side effects
type RateLimitStatus struct {
	DailyCount           int  `json:"daily_count"`
	DailyQuota           int  `json:"daily_quota"`
	RequestsInLastMinute int  `json:"requests_in_last_minute"`
	RequestsPerMinute    int  `json:"requests_per_minute"`
	ConsecutiveErrors    int  `json:"consecutive_errors"`
	IsInCooldown         bool `json:"is_in_cooldown"`
	QuotaUsagePercentage int  `json:"quota_usage_percentage"`
}
