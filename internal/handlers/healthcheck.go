package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/yungbote/saathi-backend/internal/db"
)

type HealthCheckHandler struct {
  pg            *db.PostgresService
  generatorMode string
}

func NewHealthCheckHandler(pg *db.PostgresService, generatorMode string) *HealthCheckHandler {
  return &HealthCheckHandler{pg: pg, generatorMode: generatorMode}
}

func (h *HealthCheckHandler) HealthCheck(c *gin.Context) {
  dbStatus := "ok"
  status := "healthy"
  code := http.StatusOK

  if h.pg == nil {
    dbStatus = "unavailable"
    status = "unhealthy"
    code = http.StatusInternalServerError
  } else if err := h.pg.Ping(); err != nil {
    dbStatus = "error"
    status = "unhealthy"
    code = http.StatusInternalServerError
  }

  c.JSON(code, gin.H{
    "status": status,
    "services": gin.H{
      "database":  dbStatus,
      "generator": h.generatorMode,
    },
  })
}
