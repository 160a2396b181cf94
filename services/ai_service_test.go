package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"healthwatch-backend/config"
	"healthwatch-backend/database"
	"healthwatch-backend/models"

	openai "github.com/sashabaranov/go-openai"
)

type stubChatCompleter struct {
	response  string
	err       error
	noChoices bool
	calls     int
	lastReq   openai.ChatCompletionRequest
}

func (s *stubChatCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	if s.noChoices {
		return openai.ChatCompletionResponse{}, nil
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.response}},
		},
	}, nil
}

func newTestAIService(stub *stubChatCompleter) (*AIService, *RateLimitService) {
	cfg := &config.Config{
		ChatModel:         "llama-3.3-70b-versatile",
		RequestsPerMinute: 15,
		DailyQuota:        1000,
	}
	limiter := NewRateLimitService(cfg, database.NewMemoryKVStore())
	service := &AIService{client: stub, cfg: cfg, limiter: limiter}
	if stub == nil {
		service.client = nil
	}
	return service, limiter
}

func TestGenerateHealthResponseUnconfigured(t *testing.T) {
	service, limiter := newTestAIService(nil)

	response, denial := service.GenerateHealthResponse(context.Background(), "what are dengue symptoms")
	if denial != nil {
		t.Errorf("Unconfigured service should not report a rate limit denial")
	}
	if response.Response == "" || response.Disclaimer == "" {
		t.Error("Unavailable response should still carry text and a disclaimer")
	}
	if status := limiter.GetStatus(); status.DailyCount != 0 {
		t.Errorf("Unconfigured path must not touch the limiter, got count %d", status.DailyCount)
	}
}

func TestGenerateHealthResponseSuccess(t *testing.T) {
	stub := &stubChatCompleter{response: "Rest well, drink water, and see a doctor if symptoms persist."}
	service, limiter := newTestAIService(stub)

	response, denial := service.GenerateHealthResponse(context.Background(), "i have a fever")
	if denial != nil {
		t.Fatalf("Unexpected denial: %+v", denial)
	}
	if stub.calls != 1 {
		t.Fatalf("Expected 1 upstream call, got %d", stub.calls)
	}
	if !strings.Contains(response.Response, "Rest well") {
		t.Errorf("Expected upstream text in response, got %q", response.Response)
	}
	if response.Severity != "Moderate" {
		t.Errorf("Mention of a doctor should read as Moderate, got %q", response.Severity)
	}
	if len(response.Recommendations) != 3 {
		t.Errorf("Expected rest/hydration/doctor recommendations, got %v", response.Recommendations)
	}
	if status := limiter.GetStatus(); status.DailyCount != 1 {
		t.Errorf("Successful call should count against quota, got %d", status.DailyCount)
	}
}

func TestGenerateHealthResponseDenied(t *testing.T) {
	stub := &stubChatCompleter{response: "irrelevant"}
	service, limiter := newTestAIService(stub)

	// Open the breaker so the next call is denied
	limiter.RecordError(errors.New("boom"))
	limiter.RecordError(errors.New("boom"))
	limiter.RecordError(errors.New("boom"))

	response, denial := service.GenerateHealthResponse(context.Background(), "query")
	if denial == nil {
		t.Fatal("Expected a rate limit denial")
	}
	if stub.calls != 0 {
		t.Errorf("Denied call must not reach upstream, got %d calls", stub.calls)
	}
	if !strings.Contains(response.Response, "wait") {
		t.Errorf("Denial message should tell the user to wait, got %q", response.Response)
	}
}

func TestGenerateHealthResponseCountsBeforeCall(t *testing.T) {
	stub := &stubChatCompleter{err: errors.New("connection reset")}
	service, limiter := newTestAIService(stub)

	service.GenerateHealthResponse(context.Background(), "query")

	// The failed call still consumed quota
	if status := limiter.GetStatus(); status.DailyCount != 1 {
		t.Errorf("Failed call should still count against quota, got %d", status.DailyCount)
	}
	if status := limiter.GetStatus(); status.ConsecutiveErrors != 1 {
		t.Errorf("Failure should be recorded, got %d errors", status.ConsecutiveErrors)
	}
}

func TestGenerateHealthResponseErrorCategories(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"auth", errors.New("401 unauthorized"), "API key"},
		{"quota", errors.New("429: rate limit exceeded"), "quota"},
		{"network", errors.New("dial tcp: connection refused"), "internet connection"},
		{"generic", errors.New("something odd"), "encountered an error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubChatCompleter{err: tt.err}
			service, _ := newTestAIService(stub)

			response, _ := service.GenerateHealthResponse(context.Background(), "query")
			if !strings.Contains(response.Response, tt.want) {
				t.Errorf("Expected %q in fallback, got %q", tt.want, response.Response)
			}
		})
	}
}

func TestConverseSingleTurnNotSelfThrottled(t *testing.T) {
	stub := &stubChatCompleter{response: "SAFE. This is a reasonable health question."}
	service, limiter := newTestAIService(stub)

	answer, check, denied := service.Converse(context.Background(), "what are dengue symptoms")
	if denied != nil {
		t.Fatalf("A single chat turn must not throttle itself, got: %s", denied.Reason)
	}
	if check.IsMisinformation {
		t.Error("Safe verdict expected")
	}
	if stub.calls != 2 {
		t.Errorf("Expected classifier and answer calls, got %d", stub.calls)
	}
	if answer.Response == "" {
		t.Error("Expected an answer, got empty response")
	}
	if status := limiter.GetStatus(); status.DailyCount != 2 {
		t.Errorf("Both calls of the turn count against quota, got %d", status.DailyCount)
	}
}

func TestConverseTurnsStillSpaced(t *testing.T) {
	stub := &stubChatCompleter{response: "SAFE. This is a reasonable health question."}
	service, _ := newTestAIService(stub)

	if _, _, denied := service.Converse(context.Background(), "first question"); denied != nil {
		t.Fatalf("First turn should go through, got: %s", denied.Reason)
	}

	_, _, denied := service.Converse(context.Background(), "second question")
	if denied == nil {
		t.Fatal("An immediate second turn should be rate limited")
	}
	if denied.Reason != models.DenyReasonMinInterval {
		t.Errorf("Expected reason %q, got %q", models.DenyReasonMinInterval, denied.Reason)
	}
}

func TestConversePatternQuerySpendsOneCall(t *testing.T) {
	stub := &stubChatCompleter{response: "Bleach is extremely dangerous and never a treatment."}
	service, _ := newTestAIService(stub)

	answer, check, denied := service.Converse(context.Background(), "Can drinking bleach cure covid?")
	if denied != nil {
		t.Fatalf("Unexpected denial: %s", denied.Reason)
	}
	if !check.IsMisinformation || check.Category != "Fake Cure" {
		t.Errorf("Pattern should flag the query, got %+v", check)
	}
	if stub.calls != 1 {
		t.Errorf("Pattern-classified turn should spend one upstream call, got %d", stub.calls)
	}
	if answer.Response == "" {
		t.Error("Expected an answer, got empty response")
	}
}

func TestDetectMisinformationPatternPreFilter(t *testing.T) {
	stub := &stubChatCompleter{response: "irrelevant"}
	service, _ := newTestAIService(stub)

	tests := []struct {
		name     string
		query    string
		category string
	}{
		{"bleach cure", "Can drinking bleach cure covid?", "Fake Cure"},
		{"5g conspiracy", "Does 5G spread covid?", "Conspiracy Theory"},
		{"vitamin cure", "Will vitamin c cure my infection?", "False Treatment"},
		{"masks harmful", "I heard masks are harmful to breathing", "False Prevention"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check, denial := service.DetectMisinformation(context.Background(), tt.query)
			if !check.IsMisinformation {
				t.Fatalf("Pattern should flag %q", tt.query)
			}
			if check.Category != tt.category {
				t.Errorf("Category = %q, want %q", check.Category, tt.category)
			}
			if check.Correction == "" {
				t.Error("Pattern matches must carry a correction")
			}
			if denial != nil {
				t.Error("Pattern path should not consult the limiter")
			}
		})
	}

	if stub.calls != 0 {
		t.Errorf("Pattern matches must not call upstream, got %d calls", stub.calls)
	}
}

func TestDetectMisinformationViaClassifier(t *testing.T) {
	stub := &stubChatCompleter{response: "MISINFORMATION. Antibiotics do not treat viral infections; they only work against bacteria."}
	service, _ := newTestAIService(stub)

	check, denial := service.DetectMisinformation(context.Background(), "antibiotics cure all viral fevers")
	if denial != nil {
		t.Fatalf("Unexpected denial: %+v", denial)
	}
	if !check.IsMisinformation {
		t.Fatal("Classifier verdict should be honored")
	}
	if check.Category != "Health Misinformation" {
		t.Errorf("Category = %q", check.Category)
	}
	if strings.Contains(strings.ToLower(check.Correction), "misinformation") {
		t.Errorf("Correction should have the verdict marker stripped, got %q", check.Correction)
	}
	if stub.lastReq.Temperature != 0.0 {
		t.Errorf("Classification should run at temperature 0, got %f", stub.lastReq.Temperature)
	}
}

func TestDetectMisinformationSafeVerdict(t *testing.T) {
	stub := &stubChatCompleter{response: "SAFE. This is a reasonable health question."}
	service, _ := newTestAIService(stub)

	check, _ := service.DetectMisinformation(context.Background(), "how much water should i drink daily")
	if check.IsMisinformation {
		t.Error("Safe verdict should not flag the query")
	}
}

func TestDetectMisinformationFailsOpen(t *testing.T) {
	stub := &stubChatCompleter{err: errors.New("service unavailable")}
	service, limiter := newTestAIService(stub)

	check, _ := service.DetectMisinformation(context.Background(), "some novel health claim")
	if check.IsMisinformation {
		t.Error("Classifier outage must fail open")
	}
	if check.Correction != "" {
		t.Error("No correction may be fabricated on error")
	}

	// Denied calls fail open too, without reaching upstream
	limiter.RecordError(errors.New("boom"))
	limiter.RecordError(errors.New("boom"))
	limiter.RecordError(errors.New("boom"))
	callsBefore := stub.calls

	check, denial := service.DetectMisinformation(context.Background(), "another novel claim")
	if check.IsMisinformation {
		t.Error("Denied classification must fail open")
	}
	if denial == nil {
		t.Error("Denial should be surfaced to the caller")
	}
	if stub.calls != callsBefore {
		t.Error("Denied classification must not reach upstream")
	}
}

func TestGenerateHealthResponseEmptyChoices(t *testing.T) {
	stub := &stubChatCompleter{noChoices: true}
	service, _ := newTestAIService(stub)

	response, denied := service.GenerateHealthResponse(context.Background(), "query")
	if denied != nil {
		t.Fatalf("Unexpected denial: %+v", denied)
	}
	if !strings.Contains(response.Response, "encountered an error") {
		t.Errorf("Empty upstream response should degrade to the generic fallback, got %q", response.Response)
	}
	if response.Disclaimer == "" {
		t.Error("Fallback should still carry a disclaimer")
	}
}

func TestDetectMisinformationEmptyChoices(t *testing.T) {
	stub := &stubChatCompleter{noChoices: true}
	service, _ := newTestAIService(stub)

	check, _ := service.DetectMisinformation(context.Background(), "some novel health claim")
	if check.IsMisinformation {
		t.Error("Empty upstream response must fail open")
	}
	if check.Correction != "" {
		t.Error("No correction may be fabricated on an empty response")
	}
}

func TestFormatWaitTime(t *testing.T) {
	tests := []struct {
		wait time.Duration
		want string
	}{
		{500 * time.Millisecond, "a moment"},
		{1 * time.Second, "1 second"},
		{45 * time.Second, "45 seconds"},
		{1 * time.Minute, "about a minute"},
		{5 * time.Minute, "about 5 minutes"},
		{90 * time.Minute, "about 1.5 hours"},
	}

	for _, tt := range tests {
		if got := FormatWaitTime(tt.wait); got != tt.want {
			t.Errorf("FormatWaitTime(%v) = %q, want %q", tt.wait, got, tt.want)
		}
	}
}
