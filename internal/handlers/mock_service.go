package handlers

import (
	"context"
	"time"

	"sensor_dashboard/internal/metrics"
	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockMonitoring struct {
	series map[models.SensorKind]models.Series
	status models.ActuatorStatus
}

func (m *mockMonitoring) Series(ctx context.Context, kind models.SensorKind) models.Series {
	if s, ok := m.series[kind]; ok {
		return s
	}
	return models.NewSeries(kind, nil)
}

func (m *mockMonitoring) AllSeries(ctx context.Context) []models.Series {
	out := make([]models.Series, 0, len(models.SensorKinds))
	for _, k := range models.SensorKinds {
		out = append(out, m.Series(ctx, k))
	}
	return out
}

func (m *mockMonitoring) Status(ctx context.Context) models.ActuatorStatus {
	return m.status
}

type mockEventLog struct {
	resp     []models.ActuatorEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.ActuatorEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, metrics.New(), nil)
	return h.InitRoutes()
}
