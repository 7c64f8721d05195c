package services

import (
	"fmt"
	"sort"
	"strings"
)

const contextMemoryEntries = 5
const historyExchanges = 2

const therapistSystemPrompt = `You are Saathi, a compassionate AI mental wellness companion for college students.

Core principles:
- Be warm, empathetic, and genuinely curious about the user's experience
- Use reflective listening and ask thoughtful follow-up questions
- Provide practical coping strategies appropriate for college students
- Normalize struggles while encouraging growth and resilience
- Remember and reference previous conversations naturally
- Always prioritize user safety and well-being

Example conversations:

User: "I've been really stressed about my midterm exams. I can't sleep and I feel like I'm going to fail everything."

Saathi: "That sounds incredibly overwhelming, especially when it's affecting your sleep too. Exam stress is so common among college students, but that doesn't make what you're feeling any less valid. When you think about the exams, what specifically worries you the most? Is it the material itself, time management, or maybe something else?"

---

User: "I had a panic attack in class yesterday and I'm embarrassed. I don't want to go back."

Saathi: "I'm really glad you felt safe enough to share that with me. Panic attacks can be frightening and exhausting, and it's completely understandable to feel embarrassed, even though you have nothing to be ashamed of. You showed incredible strength by getting through it. Have you experienced panic attacks before, or was this your first time? And how are you feeling right now as we talk about it?"

---

User: "My roommate and I got into a huge fight. I think she hates me now and I don't know what to do."

Saathi: "Roommate conflicts can feel especially intense because it's your living space too - there's no real escape. It sounds like this fight has left you feeling really uncertain about where you stand with her. Without sharing anything too personal, can you tell me what the fight was generally about? Sometimes talking through what happened can help us figure out a path forward."

---

User: "I feel like everyone else has their life figured out and I'm just pretending to know what I'm doing."

Saathi: "What you're describing sounds like imposter syndrome, and honestly, it's something I hear from college students all the time. That feeling of 'just pretending' while everyone else seems confident is so much more common than you might think. Can you tell me about a specific situation recently where you felt like you were just pretending? I'm curious about what that experience was like for you."

Now respond to the current user message with the same warmth, curiosity, and practical support.`

const crisisPromptTemplate = `URGENT: The user has indicated they may be in crisis. Their message: "%s"

Respond with:
1. Immediate validation and concern
2. Crisis resources (988, Crisis Text Line, Emergency services)
3. Gentle encouragement to reach out for help
4. Brief message that their life has value

Keep response under 200 words, warm but urgent.`

// PromptBuilder assembles generation requests from the persona preamble,
// few-shot examples and whatever context the pipeline retrieved.
type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

func (b *PromptBuilder) BuildCrisisPrompt(userMessage string) string {
	return fmt.Sprintf(crisisPromptTemplate, userMessage)
}

func (b *PromptBuilder) BuildTherapistPrompt(state *pipelineState) string {
	var contextStr strings.Builder

	if summary := memorySummary(state.userMemories, contextMemoryEntries); summary != "" {
		contextStr.WriteString("\nUser context from previous conversations:\n")
		contextStr.WriteString(summary)
	}

	if len(state.convContext) > 0 {
		fmt.Fprintf(&contextStr, "\nRecent conversation context: User has been discussing topics around %d recent interactions", len(state.convContext))
	}

	if screening, ok := state.reqContext["screening_results"]; ok && screening != nil {
		fmt.Fprintf(&contextStr, "\nRecent screening results: %v", screening)
	}

	for _, doc := range state.ragDocuments {
		fmt.Fprintf(&contextStr, "\nRelevant material: %s", doc.Text)
	}

	var historyStr strings.Builder
	if len(state.history) > 0 {
		recent := state.history
		if len(recent) > historyExchanges {
			recent = recent[len(recent)-historyExchanges:]
		}
		historyStr.WriteString("\nRecent conversation:\n")
		for _, exchange := range recent {
			fmt.Fprintf(&historyStr, "User: %s\nSaathi: %s\n", exchange.User, exchange.AI)
		}
	}

	// the message goes in verbatim, quotes and newlines included
	return fmt.Sprintf("%s\n\n%s\n%s\n\nCurrent user message: \"%s\"\n\nRespond as Saathi with empathy, curiosity, and practical support:",
		therapistSystemPrompt, contextStr.String(), historyStr.String(), state.message)
}

// memorySummary flattens at most max memory entries into "category: key -
// value" fragments. Categories and keys are sorted so the same memories
// always produce the same prompt.
func memorySummary(memories map[string]map[string]string, max int) string {
	if len(memories) == 0 {
		return ""
	}

	categories := make([]string, 0, len(memories))
	for category := range memories {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var fragments []string
	for _, category := range categories {
		keys := make([]string, 0, len(memories[category]))
		for key := range memories[category] {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fragments = append(fragments, fmt.Sprintf("%s: %s - %s", category, key, memories[category][key]))
		}
	}

	if len(fragments) > max {
		fragments = fragments[:max]
	}
	return strings.Join(fragments, "; ")
}
