package models

// ChatRequest represents an incoming chat query
type ChatRequest struct {
	Query     string  `json:"query" binding:"required"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	City      string  `json:"city"`
	State     string  `json:"state"`
}

// HealthResponse is the AI gateway's answer to a health query
type HealthResponse struct {
	Response        string   `json:"response"`
	Disclaimer      string   `json:"disclaimer"`
	DiseaseDetected bool     `json:"disease_detected,omitempty"`
	Severity        string   `json:"severity,omitempty"` // "Low", "Moderate", "High"
	Recommendations []string `json:"recommendations,omitempty"`
}

// MisinformationCheck is the result of classifying a query
type MisinformationCheck struct {
	IsMisinformation bool   `json:"is_misinformation"`
	Category         string `json:"category,omitempty"`
	Correction       string `json:"correction,omitempty"`
}

// ChatResponse combines the misinformation check with the health answer
type ChatResponse struct {
	Answer           HealthResponse       `json:"answer"`
	Misinformation   *MisinformationCheck `json:"misinformation,omitempty"`
	ReportID         string               `json:"report_id,omitempty"`
	RateLimited      bool                 `json:"rate_limited,omitempty"`
	RetryAfterMillis int64                `json:"retry_after_ms,omitempty"`
}

// SyncRequest represents a sync trigger with an optional caller location
type SyncRequest struct {
	Force     bool    `json:"force" form:"force"`
	Latitude  float64 `json:"lat" form:"lat"`
	Longitude float64 `json:"lon" form:"lon"`
	City      string  `json:"city" form:"city"`
	State     string  `json:"state" form:"state"`
}

// ReportListRequest filters the report listing
type ReportListRequest struct {
	TimeRange string `form:"range"` // "today", "week", "month", "all"
}

// HotspotListRequest filters and orders the hotspot listing. A positive
// radius restricts results to hotspots near the given point.
type HotspotListRequest struct {
	TimeRange string  `form:"range"`
	SortBy    string  `form:"sort"` // "count", "recent", "severity"
	Latitude  float64 `form:"lat"`
	Longitude float64 `form:"lon"`
	RadiusKm  float64 `form:"radius_km"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
