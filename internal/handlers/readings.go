package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bacnet_device_sim/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errDeviceID    = "invalid 'device_id'; must be a positive integer"
	errLimit       = "invalid 'limit'; must be a positive integer"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List readings
// @Description  Filter stored readings by device and date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). If 'to' is date-only, it is treated as end-of-day inclusive (23:59:59.999999999Z).
// @Tags         readings
// @Produce      json
// @Param        device_id  query   int     false  "Device id; omit for every device"  example(1)
// @Param        from       query   string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2025-08-01)
// @Param        to         query   string  false  "End of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). Date-only treated as end of day."  example(2025-08-31)
// @Param        limit      query   int     false  "Maximum number of readings"
// @Success      200   {object}  map[string]interface{}  "count, readings"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/readings [get]
// @Security     BearerAuth
func (h *Handler) getReadings(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		filter service.ReadingFilter
		err    error
	)
	if qs := c.Query("device_id"); qs != "" {
		filter.DeviceID, err = strconv.Atoi(qs)
		if err != nil || filter.DeviceID < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errDeviceID})
			return
		}
	}
	if qs := c.Query("limit"); qs != "" {
		filter.Limit, err = strconv.Atoi(qs)
		if err != nil || filter.Limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errLimit})
			return
		}
	}
	// Parse 'from' (optional)
	if qs := c.Query("from"); qs != "" {
		filter.From, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	// Parse 'to' (optional). If only a date is provided, make it end-of-day inclusive.
	if qs := c.Query("to"); qs != "" {
		filter.To, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			filter.To = filter.To.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	// Validate range if both provided
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return
	}
	readings, err := h.services.ReadingLog.List(ctx, filter)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("readings_list_failed", "err", err, "device_id", filter.DeviceID, "from", filter.From, "to", filter.To)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load readings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(readings),
		"readings": readings,
	})
}

// parseQueryTime accepts RFC3339, date-time and date-only layouts, normalizing to UTC.
func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
