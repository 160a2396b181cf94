package services

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"healthwatch-backend/config"
	"healthwatch-backend/database"
	"healthwatch-backend/models"
)

const (
	rateLimitStateKey = "ai_rate_limit"

	// Minimum spacing between consecutive requests
	minRequestInterval = 2 * time.Second

	// Sliding window for the per-minute limit
	perMinuteWindow = 60 * time.Second

	// Cooldown opens after this many consecutive upstream errors
	cooldownErrorThreshold = 3

	defaultCooldownMs = 60_000  // 1 minute
	quotaCooldownMs   = 300_000 // 5 minutes for quota-type errors
)

// RateLimitService is the single authority deciding whether an outbound AI
// call may proceed. It combines a daily cap, a sliding per-minute window, a
// minimum inter-request spacing, and an error-triggered circuit breaker.
// State is persisted across restarts through the key-value store.
type RateLimitService struct {
	cfg   *config.Config
	store database.KVStore

	mu    sync.Mutex
	state models.RateLimitState

	now func() time.Time
}

// NewRateLimitService creates a rate limiter, restoring persisted state
func NewRateLimitService(cfg *config.Config, store database.KVStore) *RateLimitService {
	s := &RateLimitService{
		cfg:   cfg,
		store: store,
		now:   time.Now,
		state: models.RateLimitState{CooldownDurationMs: defaultCooldownMs},
	}
	s.loadFromStore()
	return s
}

func (s *RateLimitService) loadFromStore() {
	value, ok, err := s.store.Get(rateLimitStateKey)
	if err != nil {
		log.Printf("Failed to load rate limit state: %v", err)
		return
	}
	if !ok {
		return
	}
	var state models.RateLimitState
	if err := json.Unmarshal([]byte(value), &state); err != nil {
		log.Printf("Failed to parse rate limit state: %v", err)
		return
	}
	if state.CooldownDurationMs == 0 {
		state.CooldownDurationMs = defaultCooldownMs
	}
	s.state = state
	s.rolloverIfNewDay()
}

// persist must be called with the mutex held
func (s *RateLimitService) persist() {
	data, err := json.Marshal(s.state)
	if err != nil {
		log.Printf("Failed to marshal rate limit state: %v", err)
		return
	}
	if err := s.store.Set(rateLimitStateKey, string(data)); err != nil {
		log.Printf("Failed to save rate limit state: %v", err)
	}
}

// rolloverIfNewDay zeroes the daily counter on the first access of a new
// local calendar day. Must be called with the mutex held (or before sharing).
func (s *RateLimitService) rolloverIfNewDay() {
	today := s.now().Format("2006-01-02")
	if s.state.LastResetDate != today {
		s.state.DailyCount = 0
		s.state.LastResetDate = today
		s.persist()
	}
}

// pruneHistory drops window entries older than one minute and returns the
// remaining request count. Must be called with the mutex held.
func (s *RateLimitService) pruneHistory(now time.Time) int {
	cutoff := now.Add(-perMinuteWindow)
	kept := s.state.RequestHistory[:0]
	total := 0
	for _, record := range s.state.RequestHistory {
		if record.Timestamp.After(cutoff) {
			kept = append(kept, record)
			total += record.Count
		}
	}
	s.state.RequestHistory = kept
	return total
}

// CanMakeRequest decides whether an outbound AI call may proceed right now.
// Denials carry a human-meaningful reason and the wait until retry is useful.
func (s *RateLimitService) CanMakeRequest() models.RateLimitDecision {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decide(false)
}

// CanMakeFollowUpRequest applies every limit except the minimum spacing. It
// gates the second upstream call of a single user interaction, so one
// interaction never throttles itself; spacing still applies between
// interactions.
func (s *RateLimitService) CanMakeFollowUpRequest() models.RateLimitDecision {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decide(true)
}

// decide must be called with the mutex held
func (s *RateLimitService) decide(skipMinInterval bool) models.RateLimitDecision {
	now := s.now()

	// Check cooldown period
	if s.state.CooldownUntil != nil {
		if remaining := s.state.CooldownUntil.Sub(now); remaining > 0 {
			return models.RateLimitDecision{
				Allowed:  false,
				Reason:   models.DenyReasonCooldown,
				WaitTime: remaining,
			}
		}
		// Cooldown elapsed
		s.state.CooldownUntil = nil
		s.state.ConsecutiveErrors = 0
		s.persist()
	}

	s.rolloverIfNewDay()

	// Check daily quota
	if s.state.DailyCount >= s.cfg.DailyQuota {
		return models.RateLimitDecision{
			Allowed:  false,
			Reason:   models.DenyReasonDailyQuota,
			WaitTime: timeUntilLocalMidnight(now),
		}
	}

	// Check per-minute rate limit
	if requests := s.pruneHistory(now); requests >= s.cfg.RequestsPerMinute {
		oldest := s.state.RequestHistory[0].Timestamp
		for _, record := range s.state.RequestHistory {
			if record.Timestamp.Before(oldest) {
				oldest = record.Timestamp
			}
		}
		return models.RateLimitDecision{
			Allowed:  false,
			Reason:   models.DenyReasonPerMinute,
			WaitTime: perMinuteWindow - now.Sub(oldest),
		}
	}

	// Check minimum interval between requests
	if !skipMinInterval && !s.state.LastRequestTime.IsZero() {
		if elapsed := now.Sub(s.state.LastRequestTime); elapsed < minRequestInterval {
			return models.RateLimitDecision{
				Allowed:  false,
				Reason:   models.DenyReasonMinInterval,
				WaitTime: minRequestInterval - elapsed,
			}
		}
	}

	return models.RateLimitDecision{Allowed: true}
}

// RecordRequest counts an outbound call against all limiting dimensions
func (s *RateLimitService) RecordRequest() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.rolloverIfNewDay()
	s.state.RequestHistory = append(s.state.RequestHistory, models.RequestRecord{Timestamp: now, Count: 1})
	s.state.DailyCount++
	s.state.LastRequestTime = now
	s.persist()
}

// RecordError registers an upstream failure. Three consecutive errors open
// the circuit breaker; quota-type errors widen the cooldown to five minutes.
func (s *RateLimitService) RecordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.state.ConsecutiveErrors++

	if s.state.ConsecutiveErrors >= cooldownErrorThreshold {
		until := now.Add(time.Duration(s.state.CooldownDurationMs) * time.Millisecond)
		s.state.CooldownUntil = &until
		log.Printf("Entering cooldown period after %d consecutive errors", s.state.ConsecutiveErrors)
	}

	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "quota") || strings.Contains(msg, "limit") {
			s.state.CooldownDurationMs = quotaCooldownMs
			until := now.Add(time.Duration(quotaCooldownMs) * time.Millisecond)
			s.state.CooldownUntil = &until
			log.Println("API quota/limit error detected, entering extended cooldown")
		}
	}

	s.persist()
}

// RecordSuccess closes the circuit breaker and restores the default cooldown
func (s *RateLimitService) RecordSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.ConsecutiveErrors = 0
	s.state.CooldownUntil = nil
	s.state.CooldownDurationMs = defaultCooldownMs
	s.persist()
}

// GetStatus returns an observability snapshot without mutating state
func (s *RateLimitService) GetStatus() models.RateLimitStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-perMinuteWindow)
	requestsInLastMinute := 0
	for _, record := range s.state.RequestHistory {
		if record.Timestamp.After(cutoff) {
			requestsInLastMinute += record.Count
		}
	}

	inCooldown := s.state.CooldownUntil != nil && s.state.CooldownUntil.After(now)

	return models.RateLimitStatus{
		DailyCount:           s.state.DailyCount,
		DailyQuota:           s.cfg.DailyQuota,
		RequestsInLastMinute: requestsInLastMinute,
		RequestsPerMinute:    s.cfg.RequestsPerMinute,
		ConsecutiveErrors:    s.state.ConsecutiveErrors,
		IsInCooldown:         inCooldown,
		QuotaUsagePercentage: int(float64(s.state.DailyCount) / float64(s.cfg.DailyQuota) * 100),
	}
}

// Reset clears all counters and cooldown state
func (s *RateLimitService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = models.RateLimitState{
		LastResetDate:      s.now().Format("2006-01-02"),
		CooldownDurationMs: defaultCooldownMs,
	}
	s.persist()
	log.Println("Rate limit state reset")
}

func timeUntilLocalMidnight(now time.Time) time.Duration {
	year, month, day := now.Date()
	midnight := time.Date(year, month, day+1, 0, 0, 0, 0, now.Location())
	return midnight.Sub(now)
}
