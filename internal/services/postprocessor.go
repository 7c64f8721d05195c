package services

import (
	"regexp"
	"strings"
)

// extractionRule is one (category, pattern, minimum length) entry. Rules run
// in declaration order and append to their category, duplicates included;
// dedup here would change what the caller upserts.
type extractionRule struct {
	category string
	pattern  *regexp.Regexp
	minChars int
}

// copingVocabulary is the fixed membership list for coping-strategy tags.
var copingVocabulary = []string{
	"breathing", "meditation", "exercise", "journaling", "sleep",
	"talk to someone", "counseling", "therapy", "mindfulness",
	"grounding", "relaxation", "self-care", "break", "walk",
}

// PostProcessor extracts structured side-effects from an exchange: memory
// updates from the user message and coping tags from the generated reply.
type PostProcessor struct {
	rules []extractionRule
}

func NewPostProcessor() *PostProcessor {
	return &PostProcessor{
		rules: []extractionRule{
			{"interests", regexp.MustCompile(`i (?:like|love|enjoy) (\w+(?:\s+\w+)*)`), 2},
			{"interests", regexp.MustCompile(`i'm into (\w+(?:\s+\w+)*)`), 2},
			{"interests", regexp.MustCompile(`my hobby is (\w+(?:\s+\w+)*)`), 2},
			{"academic", regexp.MustCompile(`i'm (?:studying|majoring in) (\w+(?:\s+\w+)*)`), 0},
			{"academic", regexp.MustCompile(`my major is (\w+(?:\s+\w+)*)`), 0},
			{"academic", regexp.MustCompile(`i'm a (\w+) major`), 0},
			{"goals", regexp.MustCompile(`i want to (\w+(?:\s+\w+)*)`), 3},
			{"goals", regexp.MustCompile(`my goal is to (\w+(?:\s+\w+)*)`), 3},
			{"goals", regexp.MustCompile(`i hope to (\w+(?:\s+\w+)*)`), 3},
		},
	}
}

// ExtractMemoryUpdates lower-cases the user message and applies every rule in
// order. Matches at or below a rule's minimum length are discarded.
func (p *PostProcessor) ExtractMemoryUpdates(userMessage string) map[string][]string {
	updates := map[string][]string{}
	lower := strings.ToLower(userMessage)

	for _, rule := range p.rules {
		for _, match := range rule.pattern.FindAllStringSubmatch(lower, -1) {
			captured := match[1]
			if len(captured) <= rule.minChars {
				continue
			}
			updates[rule.category] = append(updates[rule.category], captured)
		}
	}
	return updates
}

// ExtractCopingStrategies runs the fixed-vocabulary membership test against
// the generated reply. Tags are title-cased and deduplicated, unlike memory
// updates.
func (p *PostProcessor) ExtractCopingStrategies(aiResponse string) []string {
	lower := strings.ToLower(aiResponse)

	strategies := []string{}
	for _, keyword := range copingVocabulary {
		if strings.Contains(lower, keyword) {
			strategies = append(strategies, titleCase(keyword))
		}
	}
	return strategies
}

// titleCase capitalizes the first letter of every word, treating hyphens as
// word boundaries ("self-care" -> "Self-Care").
func titleCase(s string) string {
	var b strings.Builder
	startOfWord := true
	for _, r := range s {
		switch {
		case r == ' ' || r == '-':
			startOfWord = true
			b.WriteRune(r)
		case startOfWord && r >= 'a' && r <= 'z':
			b.WriteRune(r - ('a' - 'A'))
			startOfWord = false
		case startOfWord:
			b.WriteRune(r)
			startOfWord = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
