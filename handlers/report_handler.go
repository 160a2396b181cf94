package handlers

import (
	"net/http"
	"sync/atomic"
	"time"

	"healthwatch-backend/config"
	"healthwatch-backend/database"
	"healthwatch-backend/models"
	"healthwatch-backend/services"
	"healthwatch-backend/utils"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	cfg            *config.Config
	syncService    *services.SyncService
	hotspotService *services.HotspotService
	reports        database.ReportStore

	// in-flight guard: concurrent refresh triggers are skipped, not queued
	syncInFlight atomic.Bool
}

// NewReportHandler creates a new report handler
func NewReportHandler(cfg *config.Config, syncService *services.SyncService, hotspotService *services.HotspotService, reports database.ReportStore) *ReportHandler {
	return &ReportHandler{
		cfg:            cfg,
		syncService:    syncService,
		hotspotService: hotspotService,
		reports:        reports,
	}
}

// SyncReports triggers an incremental sync pass, or a full re-enrichment
// pass when force=true
// POST /api/v1/reports/sync?force=true&lat=...&lon=...&city=...&state=...
func (h *ReportHandler) SyncReports(c *gin.Context) {
	var req models.SyncRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if !h.syncInFlight.CompareAndSwap(false, true) {
		respondWithError(c, http.StatusConflict, "Sync in progress", "A sync pass is already running, try again shortly")
		return
	}
	defer h.syncInFlight.Store(false)

	loc := currentLocationFrom(req.Latitude, req.Longitude, req.City, req.State)

	var result *models.SyncResult
	var err error
	if req.Force {
		result, err = h.syncService.ForceRefresh(c.Request.Context(), loc)
	} else {
		result, err = h.syncService.SyncData(c.Request.Context(), loc)
	}
	if err != nil {
		respondInternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListReports returns the full enriched report set, newest first
// GET /api/v1/reports?range=week
func (h *ReportHandler) ListReports(c *gin.Context) {
	var req models.ReportListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	reports, err := h.syncService.GetAllEnrichedReports(c.Request.Context(), nil)
	if err != nil {
		respondInternalError(c, err.Error())
		return
	}

	reports = models.FilterByTimeRange(reports, models.TimeRange(req.TimeRange), time.Now())
	if len(reports) > h.cfg.MaxReportsReturn {
		reports = reports[:h.cfg.MaxReportsReturn]
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"count":   len(reports),
	})
}

// GetHotspots aggregates the current report set into map-ready clusters
// GET /api/v1/hotspots?range=week&sort=count&lat=...&lon=...&radius_km=...
func (h *ReportHandler) GetHotspots(c *gin.Context) {
	var req models.HotspotListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if req.RadiusKm > 0 {
		if err := utils.ValidateLocation(req.Latitude, req.Longitude); err != nil {
			respondBadRequest(c, err.Error())
			return
		}
	}

	reports, err := h.syncService.GetAllEnrichedReports(c.Request.Context(), nil)
	if err != nil {
		respondInternalError(c, err.Error())
		return
	}

	reports = models.FilterByTimeRange(reports, models.TimeRange(req.TimeRange), time.Now())
	hotspots := h.hotspotService.Aggregate(reports)
	hotspots = h.hotspotService.FilterWithinRadius(hotspots, req.Latitude, req.Longitude, req.RadiusKm)
	models.SortHotspots(hotspots, models.HotspotSortKey(req.SortBy))

	c.JSON(http.StatusOK, gin.H{
		"hotspots": hotspots,
		"count":    len(hotspots),
	})
}

// GetStats returns statistics about the report database
// GET /api/v1/reports/stats
func (h *ReportHandler) GetStats(c *gin.Context) {
	stats, err := h.reports.Stats()
	if err != nil {
		respondInternalError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, stats)
}
