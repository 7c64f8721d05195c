package services

import (
  "os"

  "github.com/yungbote/saathi-backend/internal/logger"
)

// Generator operating modes, reported by the healthcheck.
const (
  GeneratorModeHosted   = "hosted"
  GeneratorModeFallback = "fallback"
)

// NewResponseGenerator selects the hosted generator when a Hugging Face
// credential is configured and the canned responder otherwise. The returned
// mode tells which one is active.
func NewResponseGenerator(log *logger.Logger) (ResponseGenerator, string) {
  fallback := NewFallbackResponder(nil)

  if os.Getenv("HUGGINGFACE_API_KEY") == "" {
    log.Info("No HUGGINGFACE_API_KEY configured, using fallback responses")
    return fallback, GeneratorModeFallback
  }

  hosted, err := NewHFGenerator(log, fallback)
  if err != nil {
    log.Warn("Failed to init hosted generator, using fallback responses", "error", err)
    return fallback, GeneratorModeFallback
  }
  log.Info("Hosted generator initialized", "model", hosted.model)
  return hosted, GeneratorModeHosted
}
