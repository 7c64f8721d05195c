package services

import (
	"strings"
	"testing"
)

func TestBuildCrisisPrompt(t *testing.T) {
	builder := NewPromptBuilder()

	prompt := builder.BuildCrisisPrompt("I can't do this anymore")
	if !strings.Contains(prompt, `"I can't do this anymore"`) {
		t.Fatalf("crisis prompt does not embed the user message: %q", prompt)
	}
	if !strings.Contains(prompt, "988") {
		t.Fatal("crisis prompt does not mention the 988 lifeline")
	}
	if !strings.HasPrefix(prompt, "URGENT:") {
		t.Fatalf("crisis prompt missing urgency marker: %q", prompt[:40])
	}
}

func TestPromptsEmbedMessageVerbatim(t *testing.T) {
	builder := NewPromptBuilder()
	message := "I feel alone.\nNobody cares about \"me\"."

	crisis := builder.BuildCrisisPrompt(message)
	if !strings.Contains(crisis, message) {
		t.Fatalf("crisis prompt does not carry the message verbatim:\n%s", crisis)
	}
	if strings.Contains(crisis, `\n`) || strings.Contains(crisis, `\"`) {
		t.Fatal("crisis prompt escapes the message instead of embedding it")
	}

	therapist := builder.BuildTherapistPrompt(&pipelineState{message: message})
	if !strings.Contains(therapist, "Current user message: \""+message+"\"") {
		t.Fatalf("therapist prompt does not carry the message verbatim:\n%s", therapist)
	}
}

func TestBuildTherapistPromptBare(t *testing.T) {
	builder := NewPromptBuilder()
	state := &pipelineState{message: "I'm feeling a bit lost"}

	prompt := builder.BuildTherapistPrompt(state)
	if !strings.HasPrefix(prompt, "You are Saathi") {
		t.Fatal("therapist prompt missing persona preamble")
	}
	if !strings.Contains(prompt, `Current user message: "I'm feeling a bit lost"`) {
		t.Fatal("therapist prompt missing current user message")
	}
	if strings.Contains(prompt, "User context from previous conversations") {
		t.Fatal("memory section present without memories")
	}
	if strings.Contains(prompt, "Recent conversation:") {
		t.Fatal("history section present without history")
	}
}

func TestBuildTherapistPromptWithContext(t *testing.T) {
	builder := NewPromptBuilder()
	state := &pipelineState{
		message: "still stressed",
		userMemories: map[string]map[string]string{
			"interests": {"chess": "chess"},
			"academic":  {"biology": "biology"},
		},
		convContext: []Exchange{
			{User: "old one", AI: "old reply"},
		},
		history: []Exchange{
			{User: "first", AI: "reply one"},
			{User: "second", AI: "reply two"},
			{User: "third", AI: "reply three"},
		},
		reqContext: map[string]any{"screening_results": "PHQ-9: moderate"},
	}

	prompt := builder.BuildTherapistPrompt(state)

	if !strings.Contains(prompt, "academic: biology - biology; interests: chess - chess") {
		t.Fatalf("memory summary missing or unsorted:\n%s", prompt)
	}
	if !strings.Contains(prompt, "1 recent interactions") {
		t.Fatal("conversation-context count missing")
	}
	if !strings.Contains(prompt, "Recent screening results: PHQ-9: moderate") {
		t.Fatal("screening results missing")
	}

	// only the last two exchanges appear
	if strings.Contains(prompt, "User: first") {
		t.Fatal("oldest exchange should be dropped from history")
	}
	if !strings.Contains(prompt, "User: second") || !strings.Contains(prompt, "User: third") {
		t.Fatal("last two exchanges missing from history")
	}
	if !strings.Contains(prompt, "Saathi: reply three") {
		t.Fatal("assistant side of history missing")
	}
}

func TestMemorySummaryCapsEntries(t *testing.T) {
	memories := map[string]map[string]string{
		"interests": {
			"a": "1", "b": "2", "c": "3", "d": "4", "e": "5", "f": "6", "g": "7",
		},
	}

	summary := memorySummary(memories, contextMemoryEntries)
	if got := len(strings.Split(summary, "; ")); got != contextMemoryEntries {
		t.Fatalf("summary has %d fragments, want %d: %q", got, contextMemoryEntries, summary)
	}

	// deterministic across invocations despite map iteration order
	if again := memorySummary(memories, contextMemoryEntries); again != summary {
		t.Fatalf("summary not deterministic:\n%q\n%q", summary, again)
	}
}
