package services

import (
	"healthwatch-backend/models"
	"healthwatch-backend/utils"
)

// HotspotService derives map-ready clusters from the current enriched report
// set. Aggregation is a pure function over its input; nothing is persisted.
type HotspotService struct{}

func NewHotspotService() *HotspotService {
	return &HotspotService{}
}

// Aggregate groups reports by location into severity-scored hotspots.
// Reports without geocoded coordinates contribute to no hotspot this pass;
// they stay in the report set for retry on a later sync. Output order is the
// first-seen order of location keys, so identical input yields identical
// output.
func (s *HotspotService) Aggregate(reports []models.EnrichedReport) []models.Hotspot {
	groups := make(map[string]*models.Hotspot)
	order := []string{}

	for _, report := range reports {
		if report.GeocodedCoordinates == nil {
			continue
		}

		key := report.UserLocation
		if key == "" {
			key = report.Region
		}
		if key == "" {
			key = "Unknown Location"
		}

		hotspot, ok := groups[key]
		if !ok {
			hotspot = &models.Hotspot{
				Key: key,
				Coordinates: models.Coordinates{
					Latitude:  report.GeocodedCoordinates.Latitude,
					Longitude: report.GeocodedCoordinates.Longitude,
				},
				Topics:       []string{},
				LastReported: report.CreatedAt,
			}
			groups[key] = hotspot
			order = append(order, key)
		}

		hotspot.ReportCount++

		if report.MisinformationType != "" && !containsTopic(hotspot.Topics, report.MisinformationType) {
			hotspot.Topics = append(hotspot.Topics, report.MisinformationType)
		}

		if report.CreatedAt.After(hotspot.LastReported) {
			hotspot.LastReported = report.CreatedAt
		}
	}

	hotspots := make([]models.Hotspot, 0, len(order))
	for _, key := range order {
		hotspot := groups[key]
		hotspot.Severity = models.SeverityForCount(hotspot.ReportCount)
		hotspots = append(hotspots, *hotspot)
	}
	return hotspots
}

// FilterWithinRadius keeps only hotspots within radiusKm of the reference
// point. A non-positive radius returns the input unchanged.
func (s *HotspotService) FilterWithinRadius(hotspots []models.Hotspot, lat, lon, radiusKm float64) []models.Hotspot {
	if radiusKm <= 0 {
		return hotspots
	}
	filtered := make([]models.Hotspot, 0, len(hotspots))
	for _, hotspot := range hotspots {
		if utils.IsWithinRadius(lat, lon, hotspot.Coordinates.Latitude, hotspot.Coordinates.Longitude, radiusKm) {
			filtered = append(filtered, hotspot)
		}
	}
	return filtered
}

func containsTopic(topics []string, topic string) bool {
	for _, t := range topics {
		if t == topic {
			return true
		}
	}
	return false
}
