package services

import (
  "bytes"
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "io"
  "math/rand"
  "net"
  "net/http"
  "os"
  "strconv"
  "strings"
  "time"

  "github.com/yungbote/saathi-backend/internal/logger"
)

const hfSystemMessage = `You are Saathi, a compassionate AI mental wellness companion designed specifically for college students. You provide emotional support, active listening, and gentle guidance while maintaining appropriate boundaries.

Key guidelines:
- Be warm, empathetic, and non-judgmental
- Use a conversational, supportive tone
- Ask follow-up questions to encourage reflection
- Provide practical coping strategies when appropriate
- Always prioritize user safety - escalate crisis situations immediately
- Respect privacy and maintain confidentiality
- Acknowledge the challenges unique to college life
- Encourage professional help when needed

Remember: You are a supportive companion, not a replacement for professional therapy.`

// Control tokens the model sometimes echoes back; stripped from raw output.
var hfArtifacts = []string{
  "<|eot_id|>", "<|end_of_text|>", "<|start_header_id|>",
  "<|end_header_id|>", "<|begin_of_text|>",
}

// HFGenerator calls the Hugging Face Inference API for text generation. Any
// call failure, transport errors included, degrades to the canned responder
// instead of propagating.
type HFGenerator struct {
  log        *logger.Logger
  baseURL    string
  apiKey     string
  model      string
  httpClient *http.Client
  maxRetries int
  fallback   *FallbackResponder
}

func NewHFGenerator(log *logger.Logger, fallback *FallbackResponder) (*HFGenerator, error) {
  apiKey := os.Getenv("HUGGINGFACE_API_KEY")
  if apiKey == "" {
    return nil, fmt.Errorf("missing HUGGINGFACE_API_KEY")
  }

  baseURL := os.Getenv("HUGGINGFACE_BASE_URL")
  if baseURL == "" {
    baseURL = "https://api-inference.huggingface.co"
  }

  model := os.Getenv("HUGGINGFACE_MODEL")
  if model == "" {
    model = "meta-llama/Llama-3.2-8B-Instruct"
  }

  timeoutSec := 60
  if v := os.Getenv("HUGGINGFACE_TIMEOUT_SECONDS"); v != "" {
    if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
      timeoutSec = parsed
    }
  }

  maxRetries := 2
  if v := os.Getenv("HUGGINGFACE_MAX_RETRIES"); v != "" {
    if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
      maxRetries = parsed
    }
  }

  return &HFGenerator{
    log:        log.With("service", "HFGenerator"),
    baseURL:    baseURL,
    apiKey:     apiKey,
    model:      model,
    httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
    maxRetries: maxRetries,
    fallback:   fallback,
  }, nil
}

func (g *HFGenerator) Generate(ctx context.Context, prompt string, genContext map[string]any, maxTokens int, temperature float64) string {
  out, err := g.textGeneration(ctx, formatLlamaPrompt(prompt, genContext), maxTokens, temperature)
  if err != nil {
    g.log.Error("Hosted generation failed, using fallback", "error", err)
    return g.fallback.Generate(ctx, prompt, genContext, maxTokens, temperature)
  }
  return out
}

type hfHTTPError struct {
  StatusCode int
  Body       string
}

func (e *hfHTTPError) Error() string {
  return fmt.Sprintf("huggingface http %d: %s", e.StatusCode, e.Body)
}

func hfRetryableHTTP(code int) bool {
  if code == 408 || code == 429 {
    return true
  }
  // 503 also covers the "model loading" response
  if code >= 500 && code <= 599 {
    return true
  }
  return false
}

func hfRetryableErr(err error) bool {
  if err == nil {
    return false
  }
  if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
    return true
  }
  var netErr net.Error
  if errors.As(err, &netErr) {
    if netErr.Timeout() {
      return true
    }
  }
  var httpErr *hfHTTPError
  if errors.As(err, &httpErr) {
    return hfRetryableHTTP(httpErr.StatusCode)
  }
  return false
}

func hfJitterSleep(base time.Duration) time.Duration {
  // +/- 20%
  if base <= 0 {
    return 0
  }
  j := 0.2
  delta := base.Seconds() * j
  low := base.Seconds() - delta
  high := base.Seconds() + delta
  if low < 0 {
    low = 0
  }
  v := low + rand.Float64()*(high-low)
  return time.Duration(v * float64(time.Second))
}

type hfGenerationRequest struct {
  Inputs     string                 `json:"inputs"`
  Parameters hfGenerationParameters `json:"parameters"`
}

type hfGenerationParameters struct {
  MaxNewTokens   int     `json:"max_new_tokens"`
  Temperature    float64 `json:"temperature"`
  DoSample       bool    `json:"do_sample"`
  ReturnFullText bool    `json:"return_full_text"`
}

type hfGenerationResponse []struct {
  GeneratedText string `json:"generated_text"`
}

func (g *HFGenerator) textGeneration(ctx context.Context, formattedPrompt string, maxTokens int, temperature float64) (string, error) {
  req := hfGenerationRequest{
    Inputs: formattedPrompt,
    Parameters: hfGenerationParameters{
      MaxNewTokens:   maxTokens,
      Temperature:    temperature,
      DoSample:       true,
      ReturnFullText: false,
    },
  }

  var resp hfGenerationResponse
  if err := g.do(ctx, "POST", "/models/"+g.model, req, &resp); err != nil {
    return "", err
  }
  if len(resp) == 0 {
    return "", fmt.Errorf("huggingface returned no generations")
  }
  return cleanGeneratedText(resp[0].GeneratedText), nil
}

func (g *HFGenerator) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
  var buf bytes.Buffer
  if body != nil {
    if err := json.NewEncoder(&buf).Encode(body); err != nil {
      return nil, nil, err
    }
  }

  req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, &buf)
  if err != nil {
    return nil, nil, err
  }
  req.Header.Set("Authorization", "Bearer "+g.apiKey)
  req.Header.Set("Content-Type", "application/json")

  resp, err := g.httpClient.Do(req)
  if err != nil {
    return nil, nil, err
  }

  raw, readErr := io.ReadAll(resp.Body)
  _ = resp.Body.Close()
  if readErr != nil {
    return resp, nil, readErr
  }

  if resp.StatusCode < 200 || resp.StatusCode >= 300 {
    return resp, raw, &hfHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
  }
  return resp, raw, nil
}

func (g *HFGenerator) do(ctx context.Context, method, path string, body any, out any) error {
  backoff := 1 * time.Second

  for attempt := 0; attempt <= g.maxRetries; attempt++ {
    if ctx.Err() != nil {
      return ctx.Err()
    }

    resp, raw, err := g.doOnce(ctx, method, path, body)
    if err == nil {
      if out == nil {
        return nil
      }
      if uErr := json.Unmarshal(raw, out); uErr != nil {
        return fmt.Errorf("huggingface decode error: %w; raw=%s", uErr, string(raw))
      }
      return nil
    }

    if !hfRetryableErr(err) {
      return err
    }
    if attempt == g.maxRetries {
      return err
    }

    sleepFor := backoff
    if resp != nil {
      ra := strings.TrimSpace(resp.Header.Get("Retry-After"))
      if ra != "" {
        if secs, parseErr := strconv.Atoi(ra); parseErr == nil && secs > 0 {
          sleepFor = time.Duration(secs) * time.Second
        }
      }
    }
    if sleepFor > 10*time.Second {
      sleepFor = 10 * time.Second
    }
    sleepFor = hfJitterSleep(sleepFor)

    g.log.Warn("HuggingFace request retrying",
      "path", path,
      "attempt", attempt+1,
      "max_retries", g.maxRetries,
      "sleep", sleepFor.String(),
      "error", err.Error(),
    )

    time.Sleep(sleepFor)
    backoff *= 2
  }

  return fmt.Errorf("unreachable retry loop")
}

// formatLlamaPrompt wraps the prompt in the Llama instruct chat template with
// role delimiters, folding the retrieval context into the system block.
func formatLlamaPrompt(prompt string, genContext map[string]any) string {
  var contextStr strings.Builder
  if genContext != nil {
    if screening, ok := genContext["screening_results"]; ok && screening != nil {
      fmt.Fprintf(&contextStr, "Recent screening results: %v\n", screening)
    }
    if memories, ok := genContext["user_memories"]; ok && memories != nil {
      fmt.Fprintf(&contextStr, "User context: %v\n", memories)
    }
    if history, ok := genContext["conversation_history"]; ok && history != nil {
      fmt.Fprintf(&contextStr, "Recent conversation: %v\n", history)
    }
  }

  return fmt.Sprintf("<|begin_of_text|><|start_header_id|>system<|end_header_id|>\n\n%s\n\n%s<|eot_id|><|start_header_id|>user<|end_header_id|>\n\n%s<|eot_id|><|start_header_id|>assistant<|end_header_id|>\n\n",
    hfSystemMessage, contextStr.String(), prompt)
}

func cleanGeneratedText(response string) string {
  response = strings.TrimSpace(response)
  for _, artifact := range hfArtifacts {
    response = strings.ReplaceAll(response, artifact, "")
  }
  return strings.TrimSpace(response)
}
