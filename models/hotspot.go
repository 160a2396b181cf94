package models

import (
	"sort"
	"time"
)

// Severity levels for hotspots
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Hotspot is a derived, location-keyed cluster of reports for map and
// dashboard display. Recomputed fully on every aggregation pass, never stored.
type Hotspot struct {
	Key          string      `json:"key"`
	Coordinates  Coordinates `json:"coordinates"`
	ReportCount  int         `json:"report_count"`
	Severity     string      `json:"severity"`
	Topics       []string    `json:"topics"`
	LastReported time.Time   `json:"last_reported"`
}

// SeverityForCount maps a report count onto a severity level
func SeverityForCount(count int) string {
	switch {
	case count > 10:
		return SeverityHigh
	case count > 5:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// HotspotSortKey selects the dashboard ordering for hotspot listings
type HotspotSortKey string

const (
	SortHotspotsByCount    HotspotSortKey = "count"
	SortHotspotsByRecent   HotspotSortKey = "recent"
	SortHotspotsBySeverity HotspotSortKey = "severity"
)

var severityRank = map[string]int{
	SeverityHigh:   3,
	SeverityMedium: 2,
	SeverityLow:    1,
}

// SortHotspots orders hotspots in place for display. SortStable keeps the
// aggregation order for ties so identical input always yields identical output.
func SortHotspots(hotspots []Hotspot, key HotspotSortKey) {
	sort.SliceStable(hotspots, func(i, j int) bool {
		switch key {
		case SortHotspotsByRecent:
			return hotspots[i].LastReported.After(hotspots[j].LastReported)
		case SortHotspotsBySeverity:
			return severityRank[hotspots[i].Severity] > severityRank[hotspots[j].Severity]
		default:
			return hotspots[i].ReportCount > hotspots[j].ReportCount
		}
	})
}
