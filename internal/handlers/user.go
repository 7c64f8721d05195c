package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/yungbote/saathi-backend/internal/logger"
  "github.com/yungbote/saathi-backend/internal/services"
)

type UserHandler struct {
  log         *logger.Logger
  userService services.UserService
}

func NewUserHandler(log *logger.Logger, userService services.UserService) *UserHandler {
  return &UserHandler{log: log.With("handler", "UserHandler"), userService: userService}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
  uid := c.Query("uid")
  if uid == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "uid parameter required"})
    return
  }

  profile, err := h.userService.GetProfile(c.Request.Context(), uid)
  if err != nil {
    c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
    return
  }
  c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpsertProfile(c *gin.Context) {
  var input services.ProfileInput
  if err := c.ShouldBindJSON(&input); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "uid is required"})
    return
  }

  profile, created, err := h.userService.UpsertProfile(c.Request.Context(), input)
  if err != nil {
    h.log.Error("Profile upsert failed", "uid", input.UID, "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{"error": "Profile update failed"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"profile": profile, "created": created})
}

func (h *UserHandler) GetMemories(c *gin.Context) {
  uid := c.Query("uid")
  if uid == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "uid parameter required"})
    return
  }

  memories, err := h.userService.GetMemories(c.Request.Context(), uid)
  if err != nil {
    c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"memories": memories})
}
