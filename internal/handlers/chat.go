package handlers

import (
  "net/http"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/yungbote/saathi-backend/internal/logger"
  "github.com/yungbote/saathi-backend/internal/services"
)

const historyDefaultLimit = 20

type ChatHandler struct {
  log         *logger.Logger
  chatService services.ChatService
}

func NewChatHandler(log *logger.Logger, chatService services.ChatService) *ChatHandler {
  return &ChatHandler{log: log.With("handler", "ChatHandler"), chatService: chatService}
}

func (h *ChatHandler) Chat(c *gin.Context) {
  var req services.ChatRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "uid and message are required"})
    return
  }

  resp, err := h.chatService.ProcessChat(c.Request.Context(), req)
  if err != nil {
    h.log.Error("Chat processing failed", "uid", req.UID, "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{
      "error": "Internal server error",
      "reply": "I'm having some technical difficulties. Please try again, or if you're in crisis, contact emergency services.",
    })
    return
  }

  c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) ConversationHistory(c *gin.Context) {
  uid := c.Query("uid")
  if uid == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "uid parameter required"})
    return
  }

  limit := historyDefaultLimit
  if v := c.Query("limit"); v != "" {
    if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
      limit = parsed
    }
  }

  conversations, err := h.chatService.GetConversationHistory(c.Request.Context(), uid, limit)
  if err != nil {
    c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}
