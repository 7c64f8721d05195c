package services

import "strings"

// Crisis categories, in detection priority order.
const (
	CrisisTypeSuicidalIdeation = "suicidal_ideation"
	CrisisTypeSelfHarm         = "self_harm"
	CrisisTypeSevereDepression = "severe_depression"
)

// immediateInterventionThreshold marks the severity at or above which a
// detection requires immediate intervention.
const immediateInterventionThreshold = 0.8

// CrisisSignal is the immutable result of one classification pass.
type CrisisSignal struct {
	Detected              bool     `json:"crisis_detected"`
	CrisisType            string   `json:"crisis_type,omitempty"`
	SeverityScore         float64  `json:"severity_score"`
	MatchedKeywords       []string `json:"matched_keywords,omitempty"`
	ImmediateIntervention bool     `json:"immediate_intervention"`
}

type crisisCategory struct {
	name     string
	severity float64
	keywords []string
}

// CrisisClassifier scans text against weighted keyword sets. Detect is a pure
// function over the category table: no I/O, no state, safe to share.
type CrisisClassifier struct {
	categories []crisisCategory
}

func NewCrisisClassifier() *CrisisClassifier {
	return &CrisisClassifier{
		categories: []crisisCategory{
			{
				name:     CrisisTypeSuicidalIdeation,
				severity: 1.0,
				keywords: []string{
					"kill myself", "end my life", "suicide", "not worth living",
					"better off dead", "end it all", "take my own life",
				},
			},
			{
				name:     CrisisTypeSelfHarm,
				severity: 0.8,
				keywords: []string{
					"hurt myself", "cut myself", "self harm", "harm myself",
					"cutting", "burning myself",
				},
			},
			{
				name:     CrisisTypeSevereDepression,
				severity: 0.6,
				keywords: []string{
					"hopeless", "no point", "nothing matters", "can't go on",
					"give up", "worthless", "burden",
				},
			},
		},
	}
}

// Detect reports the highest-severity category matched by text. Matching is
// case-insensitive substring containment. The comparison is strictly
// greater-than, so on exact severity ties the earlier category keeps the
// reported type, while matched keywords accumulate across every category.
func (c *CrisisClassifier) Detect(text string) CrisisSignal {
	textLower := strings.ToLower(text)

	var (
		detectedType string
		maxSeverity  float64
		matched      []string
	)

	for _, category := range c.categories {
		for _, keyword := range category.keywords {
			if strings.Contains(textLower, keyword) {
				if category.severity > maxSeverity {
					maxSeverity = category.severity
					detectedType = category.name
				}
				matched = append(matched, keyword)
			}
		}
	}

	if detectedType == "" {
		return CrisisSignal{Detected: false, SeverityScore: 0}
	}

	return CrisisSignal{
		Detected:              true,
		CrisisType:            detectedType,
		SeverityScore:         maxSeverity,
		MatchedKeywords:       matched,
		ImmediateIntervention: maxSeverity >= immediateInterventionThreshold,
	}
}
