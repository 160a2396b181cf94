package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"healthwatch-backend/database"
	"healthwatch-backend/models"
	"healthwatch-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChatHandler struct {
	aiService   *services.AIService
	syncService *services.SyncService
	reports     database.ReportStore
}

// NewChatHandler creates a new chat handler
func NewChatHandler(aiService *services.AIService, syncService *services.SyncService, reports database.ReportStore) *ChatHandler {
	return &ChatHandler{
		aiService:   aiService,
		syncService: syncService,
		reports:     reports,
	}
}

// Chat answers a health query, checking it for misinformation first
// POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	answer, check, denied := h.aiService.Converse(c.Request.Context(), req.Query)

	response := models.ChatResponse{Answer: answer}
	if check.IsMisinformation {
		response.Misinformation = &check
		response.ReportID = h.fileReport(req, check)
	}
	if denied != nil {
		response.RateLimited = true
		response.RetryAfterMillis = denied.WaitTime.Milliseconds()
	}

	c.JSON(http.StatusOK, response)
}

// fileReport stores a detected misinformation query as a report and notifies
// sync subscribers. Filing failures are logged, never surfaced to the user.
func (h *ChatHandler) fileReport(req models.ChatRequest, check models.MisinformationCheck) string {
	report := models.Report{
		ID:                 uuid.NewString(),
		UserQuery:          req.Query,
		MisinformationType: check.Category,
		CorrectInformation: check.Correction,
		CreatedAt:          time.Now(),
		FrequencyCount:     1,
	}
	if req.City != "" && req.State != "" {
		report.UserLocation = fmt.Sprintf("%s, %s", req.City, req.State)
		report.Region = req.State
	}

	if err := h.reports.Insert(&report); err != nil {
		log.Printf("Failed to file misinformation report: %v", err)
		return ""
	}

	enriched := models.EnrichedReport{
		Report:         report,
		LocationSource: models.LocationSourceUserProvided,
	}
	if loc := currentLocationFrom(req.Latitude, req.Longitude, req.City, req.State); loc != nil {
		enriched.GeocodedCoordinates = &models.Coordinates{
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
		}
		enriched.ValidatedLocation = true
	}
	h.syncService.NotifyReportFiled(enriched)

	return report.ID
}
