package services

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Canned pools keyed by prompt family. The crisis family is checked first;
// family order below is the priority order.
var fallbackResponses = map[string][]string{
	"greeting": {
		"Hello! I'm Saathi, your mental wellness companion. I'm here to listen and support you. How are you feeling today?",
		"Hi there! I'm glad you're here. I'm Saathi, and I'm here to provide a safe space for you to share what's on your mind.",
		"Welcome! I'm Saathi, your AI wellness companion. I'm here to support your mental health journey. What would you like to talk about?",
	},
	"crisis_support": {
		"I'm really concerned about what you're sharing. Your safety is the most important thing right now. Please reach out to:\n\nCrisis Text Line: Text HOME to 741741\nNational Suicide Prevention Lifeline: 988\nEmergency Services: 911\n\nYou don't have to go through this alone. There are people who want to help.",
		"Thank you for trusting me with these difficult feelings. Right now, I want to connect you with immediate support:\n\nCrisis Text Line: Text HOME to 741741\nNational Suicide Prevention Lifeline: 988\nCampus Counseling: Contact your university's counseling center\n\nYour life has value, and there are people trained to help you through this.",
	},
	"anxiety_support": {
		"Anxiety can feel overwhelming, but you're taking a positive step by talking about it. Have you tried any breathing exercises or grounding techniques that help you?",
		"It's understandable to feel anxious, especially with everything you have going on. Let's focus on what you can control right now. What's one thing you can do today for yourself?",
	},
	"academic_stress": {
		"Academic pressure is really common among college students, and it sounds like you're dealing with a lot. What's the most stressful part of your academic life right now?",
		"College can be incredibly demanding. It's important to remember that your worth isn't determined by your grades. How are you taking care of yourself during this busy time?",
	},
	"general_support": {
		"Thank you for sharing that with me. It takes courage to open up about how you're feeling. What's something that's been on your mind lately?",
		"I'm here to listen and support you. Everyone's mental health journey looks different, and I'm glad you're taking steps to care for yours.",
	},
}

// Keyword families checked in priority order when classifying a prompt.
var fallbackFamilies = []struct {
	category string
	keywords []string
}{
	{"crisis_support", []string{
		"suicide", "kill myself", "end it all", "not worth living",
		"better off dead", "hurt myself", "self harm", "cut myself",
	}},
	{"anxiety_support", []string{
		"anxious", "anxiety", "panic", "worried", "stress", "overwhelmed",
		"can't breathe", "heart racing", "nervous",
	}},
	{"academic_stress", []string{
		"exam", "test", "grade", "study", "college", "university",
		"assignment", "homework", "professor", "class",
	}},
	{"greeting", []string{
		"hello", "hi", "hey", "good morning", "good afternoon",
		"good evening", "how are you",
	}},
}

// FallbackResponder is the canned ResponseGenerator: it classifies the prompt
// by keyword family and picks a pooled response at random. Any input yields a
// non-empty reply, which makes it both the no-credential mode and the circuit
// breaker for the hosted generator. The mutex serializes draws from the
// shared rand source; rand.Rand itself is not safe for concurrent use and
// Generate is called from concurrent requests.
type FallbackResponder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewFallbackResponder takes its random source so tests can pin selection.
// A nil rng gets a time-seeded one.
func NewFallbackResponder(rng *rand.Rand) *FallbackResponder {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &FallbackResponder{rng: rng}
}

func (f *FallbackResponder) Generate(_ context.Context, prompt string, _ map[string]any, _ int, _ float64) string {
	return f.pick(classifyPrompt(prompt))
}

func classifyPrompt(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, family := range fallbackFamilies {
		for _, keyword := range family.keywords {
			if strings.Contains(lower, keyword) {
				return family.category
			}
		}
	}
	return "general_support"
}

func (f *FallbackResponder) pick(category string) string {
	pool, ok := fallbackResponses[category]
	if !ok {
		pool = fallbackResponses["general_support"]
	}
	f.mu.Lock()
	n := f.rng.Intn(len(pool))
	f.mu.Unlock()
	return pool[n]
}
