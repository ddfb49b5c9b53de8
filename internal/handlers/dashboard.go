package handlers

import (
	"context"
	"net/http"

	"sensor_dashboard/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errUnknownKind = "unknown sensor kind; use luminosity, humidity or temperature"
)

// snapshot is the dashboard payload: every series plus the actuator status.
type snapshot struct {
	Series   []models.Series       `json:"series"`
	Actuator models.ActuatorStatus `json:"actuator"`
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Warnw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      All rolling histories
// @Description  Luminosity, humidity and temperature series in poll order.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "series"
// @Router       /api/v1/history [get]
func (h *Handler) getHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"series": h.services.Monitoring.AllSeries(c.Request.Context()),
	})
}

// @Summary      One rolling history
// @Tags         dashboard
// @Produce      json
// @Param        kind  path      string  true  "Sensor kind"  Enums(luminosity,humidity,temperature)
// @Success      200   {object}  models.Series
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/history/{kind} [get]
func (h *Handler) getSeries(c *gin.Context) {
	kind, err := models.ParseSensorKind(c.Param("kind"))
	if err != nil {
		h.logAndJSONError(c, http.StatusNotFound, errUnknownKind, "history_unknown_kind", err)
		return
	}
	c.JSON(http.StatusOK, h.services.Monitoring.Series(c.Request.Context(), kind))
}

// @Summary      Actuator status
// @Description  Last acknowledged command, last decision and last tick time.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  models.ActuatorStatus
// @Router       /api/v1/actuator [get]
func (h *Handler) getActuator(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.Status(c.Request.Context()))
}

func (h *Handler) currentSnapshot(ctx context.Context) snapshot {
	return snapshot{
		Series:   h.services.Monitoring.AllSeries(ctx),
		Actuator: h.services.Monitoring.Status(ctx),
	}
}
