package handlers

import (
	"net/http"

	"healthwatch-backend/models"
	"healthwatch-backend/services"
	"healthwatch-backend/utils"

	"github.com/gin-gonic/gin"
)

// =============================================================================
// Response Helpers
// =============================================================================

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, code int, error, message string) {
	c.JSON(code, models.ErrorResponse{
		Error:   error,
		Message: message,
		Code:    code,
	})
}

// respondBadRequest sends a 400 error response
func respondBadRequest(c *gin.Context, message string) {
	respondWithError(c, http.StatusBadRequest, "Invalid request", message)
}

// respondInternalError sends a 500 error response
func respondInternalError(c *gin.Context, message string) {
	respondWithError(c, http.StatusInternalServerError, "Internal error", message)
}

// currentLocationFrom builds the optional caller location used to enrich
// consenting reports. Coordinates are required for the location to be usable.
func currentLocationFrom(lat, lon float64, city, state string) *services.CurrentLocation {
	if lat == 0 && lon == 0 {
		return nil
	}
	if err := utils.ValidateLocation(lat, lon); err != nil {
		return nil
	}
	return &services.CurrentLocation{
		Latitude:  lat,
		Longitude: lon,
		City:      city,
		State:     state,
	}
}
