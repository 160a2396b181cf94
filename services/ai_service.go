package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"healthwatch-backend/config"
	"healthwatch-backend/models"
	"healthwatch-backend/prompts"

	openai "github.com/sashabaranov/go-openai"
)

// chatCompleter is the outbound LLM call surface, satisfied by *openai.Client
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// AIService is the single choke point for outbound generation and
// classification calls. Every call is gated by the rate limiter and its
// outcome recorded; upstream failures are always translated into
// user-safe fallback responses.
type AIService struct {
	client  chatCompleter
	cfg     *config.Config
	limiter *RateLimitService
}

// NewAIService creates an AI gateway. A missing API key leaves the client
// unconfigured; calls then short-circuit to a fixed unavailable response
// without touching the rate limiter.
func NewAIService(cfg *config.Config, limiter *RateLimitService) *AIService {
	var client *openai.Client

	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIKey != "" {
			client = openai.NewClientWithConfig(openai.DefaultConfig(cfg.OpenAIKey))
		}
	case "groq":
		if cfg.GroqKey != "" {
			clientConfig := openai.DefaultConfig(cfg.GroqKey)
			clientConfig.BaseURL = cfg.LLMBaseURL
			client = openai.NewClientWithConfig(clientConfig)
		}
	default:
		log.Printf("Invalid LLM provider: %s, AI features disabled", cfg.LLMProvider)
	}

	if client == nil {
		log.Println("LLM API key not configured. AI features will be disabled.")
		return &AIService{cfg: cfg, limiter: limiter}
	}
	return &AIService{client: client, cfg: cfg, limiter: limiter}
}

// IsConfigured reports whether an LLM client is available
func (s *AIService) IsConfigured() bool {
	return s.client != nil
}

// Converse runs one chat turn: classify the query, then answer it. The two
// upstream calls count as a single gated interaction; when the classifier
// already spent a call this turn, the answer call skips only the
// minimum-interval check, so a turn never throttles itself.
func (s *AIService) Converse(ctx context.Context, query string) (models.HealthResponse, models.MisinformationCheck, *models.RateLimitDecision) {
	check, checkDenied, spent := s.detectMisinformation(ctx, query)
	answer, answerDenied := s.generateHealthResponse(ctx, query, spent)

	denied := answerDenied
	if denied == nil {
		denied = checkDenied
	}
	return answer, check, denied
}

// GenerateHealthResponse answers a health query. When the rate limiter denies
// the call, the denial is returned alongside a user-facing message embedding
// the wait time and the upstream API is not invoked.
func (s *AIService) GenerateHealthResponse(ctx context.Context, query string) (models.HealthResponse, *models.RateLimitDecision) {
	return s.generateHealthResponse(ctx, query, false)
}

func (s *AIService) generateHealthResponse(ctx context.Context, query string, followUp bool) (models.HealthResponse, *models.RateLimitDecision) {
	if s.client == nil {
		return models.HealthResponse{
			Response:   prompts.UnavailableResponse,
			Disclaimer: prompts.FallbackDisclaimer,
		}, nil
	}

	var decision models.RateLimitDecision
	if followUp {
		decision = s.limiter.CanMakeFollowUpRequest()
	} else {
		decision = s.limiter.CanMakeRequest()
	}
	if !decision.Allowed {
		return models.HealthResponse{
			Response: fmt.Sprintf("The assistant is receiving too many requests right now (%s). Please wait %s and try again.",
				strings.ToLower(decision.Reason), FormatWaitTime(decision.WaitTime)),
			Disclaimer: prompts.FallbackDisclaimer,
		}, &decision
	}

	// Count the request before the call so a crashed or hung call still
	// counts against quota; never exceeding remote limits takes priority
	// over never undercounting.
	s.limiter.RecordRequest()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompts.HealthResponsePrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		Temperature: 0.4,
		MaxTokens:   1024,
	})
	if err != nil {
		s.limiter.RecordError(err)
		log.Printf("LLM health response error: %v", err)
		return models.HealthResponse{
			Response:   categorizeUpstreamError(err) + " Please try again or consult a healthcare professional directly.",
			Disclaimer: prompts.ErrorDisclaimer,
		}, nil
	}
	s.limiter.RecordSuccess()

	if len(resp.Choices) == 0 {
		log.Println("LLM returned no choices for health response")
		return models.HealthResponse{
			Response:   "I'm sorry, I encountered an error while processing your query. Please try again or consult a healthcare professional directly.",
			Disclaimer: prompts.ErrorDisclaimer,
		}, nil
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	return models.HealthResponse{
		Response:        text,
		Disclaimer:      prompts.StandardDisclaimer,
		DiseaseDetected: detectDiseaseMention(text),
		Severity:        guessSeverity(text),
		Recommendations: extractRecommendations(text),
	}, nil
}

// DetectMisinformation classifies a query. Well-known misinformation
// patterns are matched locally before spending an LLM call; classifier
// outages fail open so a legitimate query is never blocked, and no
// correction is ever fabricated on error.
func (s *AIService) DetectMisinformation(ctx context.Context, query string) (models.MisinformationCheck, *models.RateLimitDecision) {
	check, decision, _ := s.detectMisinformation(ctx, query)
	return check, decision
}

// detectMisinformation additionally reports whether an upstream call was
// spent, so a same-turn follow-up call can skip the minimum-interval check.
func (s *AIService) detectMisinformation(ctx context.Context, query string) (models.MisinformationCheck, *models.RateLimitDecision, bool) {
	if match := matchMisinformationPattern(query); match != nil {
		return *match, nil, false
	}

	if s.client == nil {
		return models.MisinformationCheck{}, nil, false
	}

	decision := s.limiter.CanMakeRequest()
	if !decision.Allowed {
		// Fail open: an unclassified query passes through
		return models.MisinformationCheck{}, &decision, false
	}

	s.limiter.RecordRequest()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompts.MisinformationCheckPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		Temperature: 0.0,
		MaxTokens:   400,
	})
	if err != nil {
		s.limiter.RecordError(err)
		log.Printf("LLM misinformation check error: %v", err)
		return models.MisinformationCheck{}, nil, true
	}
	s.limiter.RecordSuccess()

	if len(resp.Choices) == 0 {
		return models.MisinformationCheck{}, nil, true
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if !strings.Contains(strings.ToLower(text), "misinformation") {
		return models.MisinformationCheck{}, nil, true
	}

	correction := regexp.MustCompile(`(?i)misinformation`).ReplaceAllString(text, "")
	return models.MisinformationCheck{
		IsMisinformation: true,
		Category:         "Health Misinformation",
		Correction:       strings.TrimSpace(correction),
	}, nil, true
}

// =============================================================================
// Local misinformation patterns
// =============================================================================

var misinformationPatterns = []struct {
	pattern    *regexp.Regexp
	category   string
	correction string
}{
	{
		pattern:    regexp.MustCompile(`(?i)drinking.*bleach|bleach.*cure|inject.*disinfectant`),
		category:   "Fake Cure",
		correction: "Never drink bleach or inject disinfectants. These are extremely dangerous and can be fatal. Always consult healthcare professionals for treatment.",
	},
	{
		pattern:    regexp.MustCompile(`(?i)5g.*covid|covid.*5g|5g.*virus`),
		category:   "Conspiracy Theory",
		correction: "5G networks do not cause COVID-19. COVID-19 is caused by the SARS-CoV-2 virus, which spreads through respiratory droplets.",
	},
	{
		pattern:    regexp.MustCompile(`(?i)vitamin.*c.*cure|lemon.*cure.*covid|garlic.*cure`),
		category:   "False Treatment",
		correction: "While vitamins and natural foods support immune health, they cannot cure serious diseases. Always follow medical advice for treatment.",
	},
	{
		pattern:    regexp.MustCompile(`(?i)masks.*dont.*work|masks.*harmful|masks.*oxygen`),
		category:   "False Prevention",
		correction: "Masks are effective in reducing the spread of respiratory diseases when used properly. They do not cause oxygen deficiency.",
	},
}

func matchMisinformationPattern(query string) *models.MisinformationCheck {
	for _, p := range misinformationPatterns {
		if p.pattern.MatchString(query) {
			return &models.MisinformationCheck{
				IsMisinformation: true,
				Category:         p.category,
				Correction:       p.correction,
			}
		}
	}
	return nil
}

// =============================================================================
// Response analysis helpers
// =============================================================================

func detectDiseaseMention(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range []string{"disease", "infection", "syndrome", "disorder", "condition"} {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func guessSeverity(text string) string {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "emergency") || strings.Contains(lower, "urgent") {
		return "High"
	}
	if strings.Contains(lower, "doctor") || strings.Contains(lower, "medical attention") {
		return "Moderate"
	}
	return "Low"
}

func extractRecommendations(text string) []string {
	lower := strings.ToLower(text)
	var recommendations []string
	if strings.Contains(lower, "rest") {
		recommendations = append(recommendations, "Get adequate rest")
	}
	if strings.Contains(lower, "water") || strings.Contains(lower, "fluid") {
		recommendations = append(recommendations, "Stay hydrated")
	}
	if strings.Contains(lower, "doctor") || strings.Contains(lower, "physician") {
		recommendations = append(recommendations, "Consult a healthcare professional")
	}
	return recommendations
}

func categorizeUpstreamError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key") || strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized"):
		return "API key issue detected. Please check the API key configuration."
	case strings.Contains(msg, "quota") || strings.Contains(msg, "limit") || strings.Contains(msg, "429"):
		return "API quota exceeded. Please try again later."
	case strings.Contains(msg, "network") || strings.Contains(msg, "timeout") || strings.Contains(msg, "connection"):
		return "Network error. Please check your internet connection and try again."
	default:
		return "I'm sorry, I encountered an error while processing your query."
	}
}

// FormatWaitTime renders a wait duration as human-readable text
func FormatWaitTime(wait time.Duration) string {
	switch {
	case wait < time.Second:
		return "a moment"
	case wait < time.Minute:
		seconds := int(wait.Round(time.Second).Seconds())
		if seconds == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", seconds)
	case wait < time.Hour:
		minutes := int(wait.Round(time.Minute).Minutes())
		if minutes <= 1 {
			return "about a minute"
		}
		return fmt.Sprintf("about %d minutes", minutes)
	default:
		hours := wait.Hours()
		return fmt.Sprintf("about %.1f hours", hours)
	}
}
