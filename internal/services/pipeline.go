package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/saathi-backend/internal/logger"
)

const (
	maxMessageChars    = 2000
	minMessageChars    = 3
	recentMemoryLimit  = 10
	recentConvLimit    = 3
	convSideTruncChars = 200
	responseMaxTokens  = 400
	responseTemp       = 0.8
	retrieverTopK      = 3
)

// safeFallbackReply is returned whenever the pipeline itself fails; it must
// never be replaced by an error to the caller.
const safeFallbackReply = "I'm experiencing some technical difficulties right now. Please try again, or if you're in crisis, please contact emergency services or call 988."

// Exchange is one user/assistant turn pair.
type Exchange struct {
	User string `json:"user"`
	AI   string `json:"ai"`
}

// MemoryStore is the persistence contract the pipeline reads through. Both
// lookups may fail; the pipeline degrades to empty context instead of failing
// the conversation. Implementations must be safe for concurrent use.
type MemoryStore interface {
	RecentMemories(ctx context.Context, uid string, limit int) (map[string]map[string]string, error)
	RecentConversations(ctx context.Context, uid string, limit int) ([]Exchange, error)
}

// ResponseGenerator produces text for a prompt. Implementations never return
// an error; a hosted generator degrades to canned responses internally.
type ResponseGenerator interface {
	Generate(ctx context.Context, prompt string, genContext map[string]any, maxTokens int, temperature float64) string
}

// RetrievedDocument is one passage returned by the vector index.
type RetrievedDocument struct {
	Text     string         `json:"text"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// DocumentRetriever is the query contract the pipeline expects from the
// document index. How documents get into the index is not its concern.
type DocumentRetriever interface {
	Query(ctx context.Context, query string, uid string, topK int) ([]RetrievedDocument, error)
}

type EscalationResource struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

type Escalation struct {
	Type      string               `json:"type"`
	Resources []EscalationResource `json:"resources"`
	Immediate bool                 `json:"immediate"`
}

// CrisisLog is handed to the caller for persistence as a crisis event record.
type CrisisLog struct {
	CrisisType      string   `json:"crisis_type"`
	SeverityScore   float64  `json:"severity_score"`
	TriggerKeywords []string `json:"trigger_keywords"`
}

type PipelineResult struct {
	Reply           string              `json:"reply"`
	Crisis          bool                `json:"crisis"`
	SuggestedCoping []string            `json:"suggested_coping"`
	MemoryUpdate    map[string][]string `json:"memory_update"`
	Escalation      *Escalation         `json:"escalation,omitempty"`
	ProcessingSteps []string            `json:"processing_steps"`
	CrisisLog       *CrisisLog          `json:"crisis_log,omitempty"`
	Error           string              `json:"error,omitempty"`
}

// pipelineState is the per-request working record threaded through the
// stages. It is never persisted; the caller only sees the PipelineResult
// built from it.
type pipelineState struct {
	uid            string
	rawMessage     string
	message        string
	history        []Exchange
	reqContext     map[string]any
	moderationFlag string

	crisis CrisisSignal

	userMemories map[string]map[string]string
	convContext  []Exchange
	ragDocuments []RetrievedDocument

	aiResponse      string
	memoryUpdates   map[string][]string
	suggestedCoping []string
	escalation      *Escalation
	crisisLog       *CrisisLog
	processingSteps []string
}

// ConversationPipeline runs a single message through moderation, crisis
// detection, context retrieval, generation and postprocessing. One call is
// one synchronous run; the pipeline holds no per-request state of its own.
type ConversationPipeline struct {
	log        *logger.Logger
	classifier *CrisisClassifier
	generator  ResponseGenerator
	store      MemoryStore
	retriever  DocumentRetriever
	prompts    *PromptBuilder
	post       *PostProcessor
}

func NewConversationPipeline(log *logger.Logger, classifier *CrisisClassifier, generator ResponseGenerator, store MemoryStore, retriever DocumentRetriever) *ConversationPipeline {
	return &ConversationPipeline{
		log:        log.With("service", "ConversationPipeline"),
		classifier: classifier,
		generator:  generator,
		store:      store,
		retriever:  retriever,
		prompts:    NewPromptBuilder(),
		post:       NewPostProcessor(),
	}
}

// Process never fails past this boundary: any panic in a stage is converted
// into the fixed safe reply with the error recorded on the result.
func (p *ConversationPipeline) Process(ctx context.Context, uid string, message string, history []Exchange, reqContext map[string]any) (result *PipelineResult) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("Pipeline processing failed", "uid", uid, "panic", r)
			result = &PipelineResult{
				Reply:           safeFallbackReply,
				Crisis:          false,
				SuggestedCoping: []string{},
				MemoryUpdate:    map[string][]string{},
				ProcessingSteps: []string{},
				Error:           fmt.Sprintf("%v", r),
			}
		}
	}()

	state := &pipelineState{
		uid:             uid,
		rawMessage:      message,
		message:         message,
		history:         history,
		reqContext:      reqContext,
		userMemories:    map[string]map[string]string{},
		memoryUpdates:   map[string][]string{},
		suggestedCoping: []string{},
		processingSteps: []string{},
	}

	p.moderatorStep(state)
	p.crisisDetectionStep(state)

	if state.crisis.Detected {
		p.crisisResponseStep(ctx, state)
		return formatFinalResult(state)
	}

	p.memoryRetrievalStep(ctx, state)
	p.therapistStep(ctx, state)
	p.postprocessStep(state)

	return formatFinalResult(state)
}

// moderatorStep flags out-of-bounds input and truncates oversized messages.
// The flags are advisory: nothing downstream blocks on them.
func (p *ConversationPipeline) moderatorStep(state *pipelineState) {
	state.processingSteps = append(state.processingSteps, "moderator")

	// limits are in characters, not bytes; truncation must not split a rune
	if len([]rune(strings.TrimSpace(state.message))) < minMessageChars {
		state.moderationFlag = "too_short"
	} else if runes := []rune(state.message); len(runes) > maxMessageChars {
		state.moderationFlag = "too_long"
		state.message = string(runes[:maxMessageChars]) + "..."
	}
}

func (p *ConversationPipeline) crisisDetectionStep(state *pipelineState) {
	state.processingSteps = append(state.processingSteps, "crisis_detection")

	signal := p.classifier.Detect(state.message)
	if signal.Detected {
		state.crisis = signal
		p.log.Warn("Crisis detected",
			"uid", state.uid,
			"crisis_type", signal.CrisisType,
			"severity", signal.SeverityScore,
		)
	}
}

// crisisResponseStep short-circuits the pipeline: memory retrieval and free
// generation never run, and the escalation payload is fixed.
func (p *ConversationPipeline) crisisResponseStep(ctx context.Context, state *pipelineState) {
	state.processingSteps = append(state.processingSteps, "crisis_response")

	prompt := p.prompts.BuildCrisisPrompt(state.message)
	state.aiResponse = p.generator.Generate(ctx, prompt, map[string]any{"crisis": true}, responseMaxTokens, responseTemp)

	state.escalation = &Escalation{
		Type: "crisis",
		Resources: []EscalationResource{
			{Name: "Crisis Text Line", Contact: "Text HOME to 741741"},
			{Name: "National Suicide Prevention Lifeline", Contact: "988"},
			{Name: "Emergency Services", Contact: "911"},
		},
		Immediate: state.crisis.ImmediateIntervention,
	}
	state.crisisLog = &CrisisLog{
		CrisisType:      state.crisis.CrisisType,
		SeverityScore:   state.crisis.SeverityScore,
		TriggerKeywords: state.crisis.MatchedKeywords,
	}
}

// memoryRetrievalStep loads recent memories, conversation context and indexed
// documents. Every lookup failure degrades to empty context; retrieval is
// never fatal to the conversation.
func (p *ConversationPipeline) memoryRetrievalStep(ctx context.Context, state *pipelineState) {
	state.processingSteps = append(state.processingSteps, "memory_rag")

	memories, err := p.store.RecentMemories(ctx, state.uid, recentMemoryLimit)
	if err != nil {
		p.log.Error("Memory retrieval failed", "uid", state.uid, "error", err)
		memories = map[string]map[string]string{}
	}
	state.userMemories = memories

	recent, err := p.store.RecentConversations(ctx, state.uid, recentConvLimit)
	if err != nil {
		p.log.Error("Conversation context retrieval failed", "uid", state.uid, "error", err)
		recent = nil
	}
	state.convContext = make([]Exchange, 0, len(recent))
	for _, ex := range recent {
		state.convContext = append(state.convContext, Exchange{
			User: truncate(ex.User, convSideTruncChars),
			AI:   truncate(ex.AI, convSideTruncChars),
		})
	}

	docs, err := p.retriever.Query(ctx, state.message, state.uid, retrieverTopK)
	if err != nil {
		p.log.Error("Document retrieval failed", "uid", state.uid, "error", err)
		docs = nil
	}
	state.ragDocuments = docs
}

func (p *ConversationPipeline) therapistStep(ctx context.Context, state *pipelineState) {
	state.processingSteps = append(state.processingSteps, "therapist")

	prompt := p.prompts.BuildTherapistPrompt(state)

	genContext := map[string]any{
		"user_memories":        state.userMemories,
		"conversation_history": state.convContext,
	}
	if screening, ok := state.reqContext["screening_results"]; ok {
		genContext["screening_results"] = screening
	}

	state.aiResponse = p.generator.Generate(ctx, prompt, genContext, responseMaxTokens, responseTemp)
}

func (p *ConversationPipeline) postprocessStep(state *pipelineState) {
	state.processingSteps = append(state.processingSteps, "postprocess")

	state.memoryUpdates = p.post.ExtractMemoryUpdates(state.message)
	state.suggestedCoping = p.post.ExtractCopingStrategies(state.aiResponse)
}

func formatFinalResult(state *pipelineState) *PipelineResult {
	return &PipelineResult{
		Reply:           state.aiResponse,
		Crisis:          state.crisis.Detected,
		SuggestedCoping: state.suggestedCoping,
		MemoryUpdate:    state.memoryUpdates,
		Escalation:      state.escalation,
		ProcessingSteps: state.processingSteps,
		CrisisLog:       state.crisisLog,
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
