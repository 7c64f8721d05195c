package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/yungbote/saathi-backend/internal/logger"
  "github.com/yungbote/saathi-backend/internal/services"
)

const screeningHistoryLimit = 10

type screeningRequest struct {
  UID           string `json:"uid" binding:"required"`
  ScreeningType string `json:"screening_type" binding:"required"`
  Responses     []int  `json:"responses" binding:"required"`
}

type ScreeningHandler struct {
  log              *logger.Logger
  screeningService services.ScreeningService
}

func NewScreeningHandler(log *logger.Logger, screeningService services.ScreeningService) *ScreeningHandler {
  return &ScreeningHandler{log: log.With("handler", "ScreeningHandler"), screeningService: screeningService}
}

func (h *ScreeningHandler) Submit(c *gin.Context) {
  var req screeningRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "uid, screening_type, and responses are required"})
    return
  }

  submission, err := h.screeningService.Submit(c.Request.Context(), req.UID, req.ScreeningType, req.Responses)
  if err != nil {
    h.log.Error("Screening processing failed", "uid", req.UID, "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{"error": "Screening processing failed"})
    return
  }
  c.JSON(http.StatusOK, submission)
}

func (h *ScreeningHandler) History(c *gin.Context) {
  uid := c.Query("uid")
  if uid == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "uid parameter required"})
    return
  }

  screenings, err := h.screeningService.History(c.Request.Context(), uid, screeningHistoryLimit)
  if err != nil {
    c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"screenings": screenings})
}
