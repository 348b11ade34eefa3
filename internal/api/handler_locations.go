package api

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dining-status-backend/internal/model"
	"dining-status-backend/internal/schedule"
	"dining-status-backend/internal/store"
)

// LocationResponse is a location with its status at the requested instant.
type LocationResponse struct {
	ID                  int64                `json:"conceptId"`
	Name                string               `json:"name"`
	ShortDescription    string               `json:"shortDescription"`
	Description         string               `json:"description"`
	Location            string               `json:"location"`
	URL                 string               `json:"url"`
	Menu                string               `json:"menu"`
	AcceptsOnlineOrders bool                 `json:"acceptsOnlineOrders"`
	HoursValid          bool                 `json:"hoursValid"`
	Times               []schedule.TimeRange `json:"times"`
	schedule.StatusResult
}

// evaluationTime reads the optional "at" query parameter.
func (h *Handler) evaluationTime(c *gin.Context) (time.Time, bool) {
	atParam := c.Query("at")
	if atParam == "" {
		return h.now(), true
	}
	at, err := time.Parse(time.RFC3339, atParam)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'at' timestamp format. Use RFC3339."})
		return time.Time{}, false
	}
	return at, true
}

func (h *Handler) respond(loc model.Location, at time.Time) LocationResponse {
	status, err := loc.Status(at)
	if err != nil {
		h.log.Warn("stored schedule is invalid", zap.Int64("location_id", loc.ID), zap.Error(err))
	}
	return LocationResponse{
		ID:                  loc.ID,
		Name:                loc.Name,
		ShortDescription:    loc.ShortDescription,
		Description:         loc.Description,
		Location:            loc.Address,
		URL:                 loc.URL,
		Menu:                loc.MenuURL,
		AcceptsOnlineOrders: loc.AcceptsOnlineOrders,
		HoursValid:          loc.HoursValid,
		Times:               loc.Schedule(),
		StatusResult:        status,
	}
}

// GetLocations handles GET /api/locations, listing every location in
// display order.
func (h *Handler) GetLocations(c *gin.Context) {
	at, ok := h.evaluationTime(c)
	if !ok {
		return
	}

	locations, err := h.store.ListLocations(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list locations", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve locations"})
		return
	}

	response := make([]LocationResponse, 0, len(locations))
	for _, loc := range locations {
		response = append(response, h.respond(loc, at))
	}
	slices.SortStableFunc(response, func(a, b LocationResponse) int {
		return schedule.CompareDisplay(
			schedule.DisplayEntry{Name: a.Name, Status: a.StatusResult},
			schedule.DisplayEntry{Name: b.Name, Status: b.StatusResult},
		)
	})
	c.JSON(http.StatusOK, response)
}

// GetLocation handles GET /api/locations/:id.
func (h *Handler) GetLocation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}
	at, ok := h.evaluationTime(c)
	if !ok {
		return
	}

	loc, err := h.store.GetLocation(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}
	if err != nil {
		h.log.Error("failed to get location", zap.Int64("location_id", id), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve location"})
		return
	}
	c.JSON(http.StatusOK, h.respond(loc, at))
}
