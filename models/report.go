package models

import (
	"time"
)

// Report represents a misinformation report row in the database
// This is the core domain model with GORM tags for database operations
type Report struct {
	ID                    string    `gorm:"primaryKey" json:"id"`
	UserQuery             string    `json:"user_query"`
	MisinformationType    string    `gorm:"index:idx_misinfo_type" json:"misinformation_type"`
	CorrectInformation    string    `json:"correct_information"`
	UserLocation          string    `gorm:"index:idx_user_location" json:"user_location,omitempty"`
	Region                string    `gorm:"index:idx_region" json:"region,omitempty"`
	CreatedAt             time.Time `gorm:"index:idx_created_at" json:"created_at"`
	UserConsentedLocation *bool     `json:"user_consented_location,omitempty"`
	FrequencyCount        int       `json:"frequency_count"`
}

// TableName implements the GORM tabler interface.
func (Report) TableName() string { return "misinformation_reports" }

// HasLocation reports whether the record carries a usable location string.
// "Unknown Location" is the legacy placeholder and counts as empty.
func (r *Report) HasLocation() bool {
	return r.UserLocation != "" && r.UserLocation != "Unknown Location"
}

// Coordinates is a latitude/longitude pair
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationSource describes how a report's location was determined
type LocationSource string

const (
	LocationSourceUserProvided LocationSource = "user_provided"
	LocationSourceAutoDetected LocationSource = "auto_detected"
	LocationSourceGeocoded     LocationSource = "geocoded"
	LocationSourceManual       LocationSource = "manual"
)

// EnrichedReport is a Report annotated with geocoding provenance.
// Reports without coordinates are excluded from hotspot aggregation but
// retained so the next sync pass can retry enrichment.
type EnrichedReport struct {
	Report
	GeocodedCoordinates *Coordinates   `gorm:"-" json:"geocoded_coordinates,omitempty"`
	LocationSource      LocationSource `gorm:"-" json:"location_source,omitempty"`
	ValidatedLocation   bool           `gorm:"-" json:"validated_location"`
}

// SyncResult aggregates the outcome of one sync pass
type SyncResult struct {
	NewReports     []EnrichedReport `json:"new_reports"`
	UpdatedReports []EnrichedReport `json:"updated_reports"`
	TotalProcessed int              `json:"total_processed"`
	Errors         []string         `json:"errors"`
}

// TimeRange filters reports by age for dashboard views
type TimeRange string

const (
	TimeRangeToday TimeRange = "today"
	TimeRangeWeek  TimeRange = "week"
	TimeRangeMonth TimeRange = "month"
	TimeRangeAll   TimeRange = "all"
)

// Cutoff returns the earliest CreatedAt included by the range, relative to now.
// The zero time means no cutoff.
func (t TimeRange) Cutoff(now time.Time) time.Time {
	switch t {
	case TimeRangeToday:
		return now.Add(-24 * time.Hour)
	case TimeRangeWeek:
		return now.Add(-7 * 24 * time.Hour)
	case TimeRangeMonth:
		return now.Add(-30 * 24 * time.Hour)
	default:
		return time.Time{}
	}
}

// FilterByTimeRange returns the reports whose CreatedAt falls within the range.
func FilterByTimeRange(reports []EnrichedReport, tr TimeRange, now time.Time) []EnrichedReport {
	cutoff := tr.Cutoff(now)
	if cutoff.IsZero() {
		return reports
	}
	filtered := make([]EnrichedReport, 0, len(reports))
	for _, r := range reports {
		if !r.CreatedAt.Before(cutoff) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
