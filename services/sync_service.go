package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"healthwatch-backend/config"
	"healthwatch-backend/database"
	"healthwatch-backend/models"
)

const syncCheckpointKey = "misinformation_last_sync"

// Geocoder is the location-resolution collaborator used during enrichment
type Geocoder interface {
	Geocode(ctx context.Context, locationString string) *GeocodedLocation
	GenerateRandomLocationInIndia() GeocodedLocation
}

// CurrentLocation is the caller's own position, used to enrich reports whose
// authors consented to location sharing but left the field empty
type CurrentLocation struct {
	Latitude  float64
	Longitude float64
	City      string
	State     string
}

// SyncService performs idempotent, resumable ingestion of new misinformation
// reports with location enrichment. Each pass fetches reports created after
// the persisted checkpoint, enriches them with geocoded coordinates, writes
// improvements back non-destructively, and advances the checkpoint.
//
// Invocations are serialized internally; re-running with no new data is a
// side-effect-free no-op.
type SyncService struct {
	cfg      *config.Config
	reports  database.ReportStore
	geocoder Geocoder
	kv       database.KVStore

	mu        sync.Mutex
	observers []func(models.EnrichedReport)
}

// NewSyncService creates a sync engine over the given collaborators
func NewSyncService(cfg *config.Config, reports database.ReportStore, geocoder Geocoder, kv database.KVStore) *SyncService {
	return &SyncService{
		cfg:      cfg,
		reports:  reports,
		geocoder: geocoder,
		kv:       kv,
	}
}

// OnReportIngested registers a callback invoked for every report a sync pass
// ingests. Replaces ad-hoc cross-component signaling with an explicit
// subscription.
func (s *SyncService) OnReportIngested(callback func(models.EnrichedReport)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, callback)
}

// NotifyReportFiled is invoked by callers that insert a report directly (the
// chat flow), so subscribers refresh without waiting for the next sync pass.
func (s *SyncService) NotifyReportFiled(report models.EnrichedReport) {
	s.mu.Lock()
	observers := append([]func(models.EnrichedReport){}, s.observers...)
	s.mu.Unlock()
	for _, observer := range observers {
		observer(report)
	}
}

func (s *SyncService) checkpoint() time.Time {
	value, ok, err := s.kv.Get(syncCheckpointKey)
	if err != nil {
		log.Printf("Failed to read sync checkpoint: %v", err)
		return time.Time{}
	}
	if !ok {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		log.Printf("Invalid sync checkpoint %q: %v", value, err)
		return time.Time{}
	}
	return ts
}

func (s *SyncService) saveCheckpoint(ts time.Time) {
	if err := s.kv.Set(syncCheckpointKey, ts.Format(time.RFC3339Nano)); err != nil {
		log.Printf("Failed to save sync checkpoint: %v", err)
	}
}

// fetchNewReports retrieves reports created after the checkpoint, retrying
// transient failures per the configured policy. A final failure is fatal to
// the sync invocation; the checkpoint stays unchanged so the next attempt
// retries the same window.
func (s *SyncService) fetchNewReports(since time.Time) ([]models.Report, error) {
	attempts := s.cfg.SyncMaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := time.Duration(s.cfg.SyncBackoffMs) * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		reports, err := s.reports.QueryNewerThan(since)
		if err == nil {
			return reports, nil
		}
		lastErr = err
		log.Printf("Fetch attempt %d/%d failed: %v", attempt, attempts, err)
		if attempt < attempts {
			time.Sleep(backoff)
		}
	}
	return nil, fmt.Errorf("failed to fetch new reports: %w", lastErr)
}

// SyncData runs one incremental sync pass. Individual enrichment or
// write-back failures are collected per record and never abort the batch;
// the affected report is still returned so callers never lose visibility of
// a record.
func (s *SyncService) SyncData(ctx context.Context, currentLocation *CurrentLocation) (*models.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncLocked(ctx, currentLocation)
}

func (s *SyncService) syncLocked(ctx context.Context, currentLocation *CurrentLocation) (*models.SyncResult, error) {
	result := &models.SyncResult{
		NewReports:     []models.EnrichedReport{},
		UpdatedReports: []models.EnrichedReport{},
		Errors:         []string{},
	}

	since := s.checkpoint()
	fetched, err := s.fetchNewReports(since)
	if err != nil {
		return nil, err
	}

	result.TotalProcessed = len(fetched)
	if len(fetched) == 0 {
		return result, nil
	}

	// The checkpoint must advance to the maximum CreatedAt observed, not the
	// last-processed record.
	newest := fetched[0].CreatedAt
	for _, report := range fetched {
		if report.CreatedAt.After(newest) {
			newest = report.CreatedAt
		}
	}

	for _, report := range fetched {
		enriched := s.enrichReport(ctx, report, currentLocation)

		if err := s.persistEnrichment(enriched); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to update report %s: %v", report.ID, err))
			// Still include the report so callers see the record
			result.NewReports = append(result.NewReports, enriched)
			continue
		}

		result.NewReports = append(result.NewReports, enriched)
		result.UpdatedReports = append(result.UpdatedReports, enriched)
	}

	// Fetch completeness, not enrichment completeness, is the checkpoint's
	// contract: per-record failures are retried from the updated location
	// fields on the next pass, not by re-fetching.
	s.saveCheckpoint(newest)

	for _, enriched := range result.NewReports {
		for _, observer := range s.observers {
			observer(enriched)
		}
	}

	log.Printf("Sync completed: %d new reports, %d updated, %d errors",
		len(result.NewReports), len(result.UpdatedReports), len(result.Errors))

	return result, nil
}

// enrichReport attaches coordinates and provenance, first applicable wins:
// consented caller location, geocoding the existing location string, then a
// random in-country placeholder flagged as unverified.
func (s *SyncService) enrichReport(ctx context.Context, report models.Report, currentLocation *CurrentLocation) models.EnrichedReport {
	enriched := models.EnrichedReport{
		Report:         report,
		LocationSource: models.LocationSourceManual,
	}

	consented := report.UserConsentedLocation != nil && *report.UserConsentedLocation

	// Priority 1: adopt the caller's location for consenting reports with
	// no usable location of their own
	if currentLocation != nil && consented && !report.HasLocation() {
		enriched.UserLocation = fmt.Sprintf("%s, %s", currentLocation.City, currentLocation.State)
		enriched.Region = currentLocation.State
		enriched.GeocodedCoordinates = &models.Coordinates{
			Latitude:  currentLocation.Latitude,
			Longitude: currentLocation.Longitude,
		}
		enriched.LocationSource = models.LocationSourceAutoDetected
		enriched.ValidatedLocation = true
		return enriched
	}

	// Priority 2: geocode the existing location string
	if report.UserLocation != "" {
		if geocoded := s.geocoder.Geocode(ctx, report.UserLocation); geocoded != nil {
			enriched.GeocodedCoordinates = &models.Coordinates{
				Latitude:  geocoded.Latitude,
				Longitude: geocoded.Longitude,
			}
			// Rewrite to the canonical "City, State" form when geocoding
			// improved precision
			if geocoded.City != "" && geocoded.State != "" {
				canonical := fmt.Sprintf("%s, %s", geocoded.City, geocoded.State)
				if canonical != report.UserLocation {
					enriched.UserLocation = canonical
					enriched.Region = geocoded.State
				}
			}
			if strings.Contains(strings.ToLower(report.UserLocation), "unknown") {
				enriched.LocationSource = models.LocationSourceGeocoded
			} else {
				enriched.LocationSource = models.LocationSourceUserProvided
			}
			enriched.ValidatedLocation = true
		}
		return enriched
	}

	// Priority 3: placeholder location, explicitly flagged as unverified
	fallback := s.geocoder.GenerateRandomLocationInIndia()
	enriched.UserLocation = fmt.Sprintf("%s, %s", fallback.City, fallback.State)
	enriched.Region = fallback.State
	enriched.GeocodedCoordinates = &models.Coordinates{
		Latitude:  fallback.Latitude,
		Longitude: fallback.Longitude,
	}
	enriched.LocationSource = models.LocationSourceGeocoded
	enriched.ValidatedLocation = false
	return enriched
}

// persistEnrichment writes back only the fields enrichment actually improved.
// Manual locations are authoritative and never overwritten.
func (s *SyncService) persistEnrichment(enriched models.EnrichedReport) error {
	if enriched.LocationSource == models.LocationSourceManual {
		return nil
	}

	fields := map[string]interface{}{}
	if enriched.UserLocation != "" {
		fields["user_location"] = enriched.UserLocation
	}
	if enriched.Region != "" {
		fields["region"] = enriched.Region
	}
	if len(fields) == 0 {
		return nil
	}

	return s.reports.UpdateLocation(enriched.ID, fields)
}

// ForceRefresh treats all records as unseen and runs the same pipeline. The
// prior checkpoint is restored only when the pass produced errors, so a
// failed refresh does not silently advance past unprocessed data.
func (s *SyncService) ForceRefresh(ctx context.Context, currentLocation *CurrentLocation) (*models.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior, hadPrior, err := s.kv.Get(syncCheckpointKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint before refresh: %w", err)
	}

	if err := s.kv.Delete(syncCheckpointKey); err != nil {
		return nil, fmt.Errorf("failed to clear checkpoint: %w", err)
	}

	result, err := s.syncLocked(ctx, currentLocation)
	if err != nil || (result != nil && len(result.Errors) > 0) {
		if hadPrior {
			if restoreErr := s.kv.Set(syncCheckpointKey, prior); restoreErr != nil {
				log.Printf("Failed to restore checkpoint after refresh: %v", restoreErr)
			}
		}
	}
	return result, err
}

// GetAllEnrichedReports syncs, then returns the full current report set with
// coordinates re-derived from the persisted location fields. Consumers that
// want "latest known state" rather than a delta use this.
func (s *SyncService) GetAllEnrichedReports(ctx context.Context, currentLocation *CurrentLocation) ([]models.EnrichedReport, error) {
	if _, err := s.SyncData(ctx, currentLocation); err != nil {
		return nil, err
	}

	reports, err := s.reports.All()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reports: %w", err)
	}

	enriched := make([]models.EnrichedReport, 0, len(reports))
	for _, report := range reports {
		e := models.EnrichedReport{
			Report:         report,
			LocationSource: models.LocationSourceUserProvided,
		}
		if report.UserLocation != "" {
			if geocoded := s.geocoder.Geocode(ctx, report.UserLocation); geocoded != nil {
				e.GeocodedCoordinates = &models.Coordinates{
					Latitude:  geocoded.Latitude,
					Longitude: geocoded.Longitude,
				}
				e.ValidatedLocation = true
			}
		}
		enriched = append(enriched, e)
	}
	return enriched, nil
}
