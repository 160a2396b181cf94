package services

import (
	"errors"
	"testing"
	"time"

	"healthwatch-backend/config"
	"healthwatch-backend/database"
	"healthwatch-backend/models"
)

func newTestLimiter(t *testing.T, requestsPerMinute, dailyQuota int) (*RateLimitService, *time.Time) {
	t.Helper()
	cfg := &config.Config{
		RequestsPerMinute: requestsPerMinute,
		DailyQuota:        dailyQuota,
	}
	limiter := NewRateLimitService(cfg, database.NewMemoryKVStore())
	clock := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
	limiter.now = func() time.Time { return clock }
	return limiter, &clock
}

func TestMinimumIntervalBetweenRequests(t *testing.T) {
	limiter, clock := newTestLimiter(t, 15, 1000)

	decision := limiter.CanMakeRequest()
	if !decision.Allowed {
		t.Fatalf("First request should be allowed, got denial: %s", decision.Reason)
	}
	limiter.RecordRequest()

	*clock = clock.Add(1 * time.Second)
	decision = limiter.CanMakeRequest()
	if decision.Allowed {
		t.Fatal("Request 1s after previous should be denied")
	}
	if decision.Reason != models.DenyReasonMinInterval {
		t.Errorf("Expected reason %q, got %q", models.DenyReasonMinInterval, decision.Reason)
	}
	if decision.WaitTime != 1*time.Second {
		t.Errorf("Expected wait time 1s, got %v", decision.WaitTime)
	}

	*clock = clock.Add(1 * time.Second)
	if decision := limiter.CanMakeRequest(); !decision.Allowed {
		t.Errorf("Request 2s after previous should be allowed, got: %s", decision.Reason)
	}
}

func TestPerMinuteSlidingWindow(t *testing.T) {
	limiter, clock := newTestLimiter(t, 3, 1000)

	for i := 0; i < 3; i++ {
		if decision := limiter.CanMakeRequest(); !decision.Allowed {
			t.Fatalf("Request %d should be allowed, got: %s", i+1, decision.Reason)
		}
		limiter.RecordRequest()
		*clock = clock.Add(5 * time.Second)
	}

	decision := limiter.CanMakeRequest()
	if decision.Allowed {
		t.Fatal("Fourth request within a minute should be denied")
	}
	if decision.Reason != models.DenyReasonPerMinute {
		t.Errorf("Expected reason %q, got %q", models.DenyReasonPerMinute, decision.Reason)
	}

	// After the oldest entry slides out of the window the request goes through
	*clock = clock.Add(50 * time.Second)
	if decision := limiter.CanMakeRequest(); !decision.Allowed {
		t.Errorf("Request after window expiry should be allowed, got: %s", decision.Reason)
	}
}

func TestFollowUpRequestSkipsOnlyMinimumInterval(t *testing.T) {
	limiter, _ := newTestLimiter(t, 2, 1000)

	limiter.RecordRequest()
	if decision := limiter.CanMakeRequest(); decision.Allowed {
		t.Fatal("Immediate second request should hit the minimum interval")
	}
	if decision := limiter.CanMakeFollowUpRequest(); !decision.Allowed {
		t.Errorf("Follow-up of the same interaction should be allowed, got: %s", decision.Reason)
	}

	// The other dimensions still apply to follow-ups
	limiter.RecordRequest()
	decision := limiter.CanMakeFollowUpRequest()
	if decision.Allowed {
		t.Fatal("Follow-up over the per-minute limit should be denied")
	}
	if decision.Reason != models.DenyReasonPerMinute {
		t.Errorf("Expected reason %q, got %q", models.DenyReasonPerMinute, decision.Reason)
	}
}

func TestFollowUpRequestRespectsCooldown(t *testing.T) {
	limiter, _ := newTestLimiter(t, 15, 1000)

	limiter.RecordError(errors.New("timeout"))
	limiter.RecordError(errors.New("timeout"))
	limiter.RecordError(errors.New("timeout"))

	decision := limiter.CanMakeFollowUpRequest()
	if decision.Allowed {
		t.Fatal("Follow-up during cooldown should be denied")
	}
	if decision.Reason != models.DenyReasonCooldown {
		t.Errorf("Expected reason %q, got %q", models.DenyReasonCooldown, decision.Reason)
	}
}

func TestDailyQuotaAndRollover(t *testing.T) {
	limiter, clock := newTestLimiter(t, 100, 5)

	for i := 0; i < 5; i++ {
		if decision := limiter.CanMakeRequest(); !decision.Allowed {
			t.Fatalf("Request %d should be allowed, got: %s", i+1, decision.Reason)
		}
		limiter.RecordRequest()
		*clock = clock.Add(90 * time.Second)
	}

	decision := limiter.CanMakeRequest()
	if decision.Allowed {
		t.Fatal("Request over daily quota should be denied")
	}
	if decision.Reason != models.DenyReasonDailyQuota {
		t.Errorf("Expected reason %q, got %q", models.DenyReasonDailyQuota, decision.Reason)
	}
	if decision.WaitTime <= 0 || decision.WaitTime > 24*time.Hour {
		t.Errorf("Quota wait time should point at local midnight, got %v", decision.WaitTime)
	}

	// Crossing into the next calendar day resets the counter
	*clock = clock.Add(13 * time.Hour)
	if decision := limiter.CanMakeRequest(); !decision.Allowed {
		t.Errorf("Request on a new day should be allowed, got: %s", decision.Reason)
	}
	if status := limiter.GetStatus(); status.DailyCount != 0 {
		t.Errorf("Daily count should reset on new day, got %d", status.DailyCount)
	}
}

func TestDailyRolloverKeepsErrorCount(t *testing.T) {
	limiter, clock := newTestLimiter(t, 15, 1000)

	limiter.RecordError(errors.New("timeout"))
	limiter.RecordError(errors.New("timeout"))

	// Crossing local midnight resets the quota, not the breaker progress
	*clock = clock.Add(13 * time.Hour)
	if decision := limiter.CanMakeRequest(); !decision.Allowed {
		t.Fatalf("Request on a new day should be allowed, got: %s", decision.Reason)
	}
	if status := limiter.GetStatus(); status.ConsecutiveErrors != 2 {
		t.Errorf("Error count should survive the daily reset, got %d", status.ConsecutiveErrors)
	}

	limiter.RecordError(errors.New("timeout"))
	if decision := limiter.CanMakeRequest(); decision.Allowed {
		t.Error("Third consecutive error should open the breaker across the rollover")
	}
}

func TestCircuitBreakerOpensAfterThreeErrors(t *testing.T) {
	limiter, clock := newTestLimiter(t, 15, 1000)

	limiter.RecordError(errors.New("connection refused"))
	limiter.RecordError(errors.New("connection refused"))
	if decision := limiter.CanMakeRequest(); !decision.Allowed {
		t.Fatalf("Two errors should not open the breaker, got: %s", decision.Reason)
	}

	limiter.RecordError(errors.New("connection refused"))
	decision := limiter.CanMakeRequest()
	if decision.Allowed {
		t.Fatal("Three consecutive errors should open the breaker")
	}
	if decision.Reason != models.DenyReasonCooldown {
		t.Errorf("Expected reason %q, got %q", models.DenyReasonCooldown, decision.Reason)
	}
	if decision.WaitTime != 1*time.Minute {
		t.Errorf("Default cooldown should be 1 minute, got %v", decision.WaitTime)
	}

	// Cooldown clears on its own once the period elapses
	*clock = clock.Add(61 * time.Second)
	if decision := limiter.CanMakeRequest(); !decision.Allowed {
		t.Errorf("Request after cooldown expiry should be allowed, got: %s", decision.Reason)
	}
	if status := limiter.GetStatus(); status.ConsecutiveErrors != 0 {
		t.Errorf("Error counter should reset after cooldown, got %d", status.ConsecutiveErrors)
	}
}

func TestQuotaErrorWidensCooldown(t *testing.T) {
	limiter, _ := newTestLimiter(t, 15, 1000)

	limiter.RecordError(errors.New("429: quota exceeded"))

	decision := limiter.CanMakeRequest()
	if decision.Allowed {
		t.Fatal("Quota error should enter cooldown immediately")
	}
	if decision.WaitTime != 5*time.Minute {
		t.Errorf("Quota cooldown should be 5 minutes, got %v", decision.WaitTime)
	}
}

func TestSuccessClosesBreaker(t *testing.T) {
	limiter, _ := newTestLimiter(t, 15, 1000)

	limiter.RecordError(errors.New("timeout"))
	limiter.RecordError(errors.New("timeout"))
	limiter.RecordError(errors.New("timeout"))
	limiter.RecordSuccess()

	if decision := limiter.CanMakeRequest(); !decision.Allowed {
		t.Errorf("Success should close the breaker, got: %s", decision.Reason)
	}
	status := limiter.GetStatus()
	if status.ConsecutiveErrors != 0 || status.IsInCooldown {
		t.Errorf("Expected clean state after success, got errors=%d cooldown=%v",
			status.ConsecutiveErrors, status.IsInCooldown)
	}
}

func TestStatePersistsAcrossRestart(t *testing.T) {
	cfg := &config.Config{RequestsPerMinute: 15, DailyQuota: 1000}
	store := database.NewMemoryKVStore()

	limiter := NewRateLimitService(cfg, store)
	limiter.RecordRequest()
	limiter.RecordRequest()

	// Simulated restart against the same store
	restarted := NewRateLimitService(cfg, store)

	status := restarted.GetStatus()
	if status.DailyCount != 2 {
		t.Errorf("Expected daily count 2 after restart, got %d", status.DailyCount)
	}
	if status.RequestsInLastMinute != 2 {
		t.Errorf("Expected 2 requests in window after restart, got %d", status.RequestsInLastMinute)
	}
}

func TestGetStatusDoesNotMutate(t *testing.T) {
	limiter, clock := newTestLimiter(t, 15, 1000)
	limiter.RecordRequest()

	*clock = clock.Add(2 * time.Minute)
	if status := limiter.GetStatus(); status.RequestsInLastMinute != 0 {
		t.Errorf("Stale entries should not count, got %d", status.RequestsInLastMinute)
	}
	if status := limiter.GetStatus(); status.DailyCount != 1 {
		t.Errorf("Daily count should survive status reads, got %d", status.DailyCount)
	}
}

func TestReset(t *testing.T) {
	limiter, _ := newTestLimiter(t, 15, 1000)
	limiter.RecordRequest()
	limiter.RecordError(errors.New("quota exceeded"))

	limiter.Reset()

	status := limiter.GetStatus()
	if status.DailyCount != 0 || status.ConsecutiveErrors != 0 || status.IsInCooldown {
		t.Errorf("Reset should clear everything, got %+v", status)
	}
	if decision := limiter.CanMakeRequest(); !decision.Allowed {
		t.Errorf("Request after reset should be allowed, got: %s", decision.Reason)
	}
}
