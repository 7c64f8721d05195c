package services

import (
	"reflect"
	"testing"
)

func TestDetectSuicidalIdeation(t *testing.T) {
	classifier := NewCrisisClassifier()

	cases := []struct {
		name string
		text string
	}{
		{name: "plain", text: "I want to kill myself"},
		{name: "upper_case", text: "I WANT TO KILL MYSELF"},
		{name: "mixed_case", text: "Sometimes I think about SuIcIdE a lot"},
		{name: "embedded", text: "honestly everyone would be better off dead without me around"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			signal := classifier.Detect(tc.text)
			if !signal.Detected {
				t.Fatalf("Detect(%q).Detected=false, want true", tc.text)
			}
			if signal.CrisisType != CrisisTypeSuicidalIdeation {
				t.Fatalf("Detect(%q).CrisisType=%q, want %q", tc.text, signal.CrisisType, CrisisTypeSuicidalIdeation)
			}
			if signal.SeverityScore != 1.0 {
				t.Fatalf("Detect(%q).SeverityScore=%v, want 1.0", tc.text, signal.SeverityScore)
			}
			if !signal.ImmediateIntervention {
				t.Fatalf("Detect(%q).ImmediateIntervention=false, want true", tc.text)
			}
		})
	}
}

func TestDetectSevereDepressionOnly(t *testing.T) {
	classifier := NewCrisisClassifier()

	signal := classifier.Detect("everything feels hopeless and I'm just a burden")
	if !signal.Detected {
		t.Fatal("expected detection")
	}
	if signal.CrisisType != CrisisTypeSevereDepression {
		t.Fatalf("CrisisType=%q, want %q", signal.CrisisType, CrisisTypeSevereDepression)
	}
	if signal.SeverityScore != 0.6 {
		t.Fatalf("SeverityScore=%v, want 0.6", signal.SeverityScore)
	}
	if signal.ImmediateIntervention {
		t.Fatal("ImmediateIntervention=true, want false at severity 0.6")
	}
	if len(signal.MatchedKeywords) != 2 {
		t.Fatalf("MatchedKeywords=%v, want both phrases", signal.MatchedKeywords)
	}
}

func TestDetectHigherSeverityWins(t *testing.T) {
	classifier := NewCrisisClassifier()

	// matches both self_harm and suicidal_ideation phrases
	signal := classifier.Detect("I cut myself and I want to end my life")
	if signal.CrisisType != CrisisTypeSuicidalIdeation {
		t.Fatalf("CrisisType=%q, want %q", signal.CrisisType, CrisisTypeSuicidalIdeation)
	}
	if signal.SeverityScore != 1.0 {
		t.Fatalf("SeverityScore=%v, want 1.0", signal.SeverityScore)
	}

	wantKeywords := map[string]bool{"cut myself": false, "end my life": false}
	for _, kw := range signal.MatchedKeywords {
		if _, ok := wantKeywords[kw]; ok {
			wantKeywords[kw] = true
		}
	}
	for kw, seen := range wantKeywords {
		if !seen {
			t.Fatalf("MatchedKeywords=%v, missing %q", signal.MatchedKeywords, kw)
		}
	}
}

func TestDetectSelfHarmImmediate(t *testing.T) {
	classifier := NewCrisisClassifier()

	signal := classifier.Detect("lately I've been cutting again")
	if signal.CrisisType != CrisisTypeSelfHarm {
		t.Fatalf("CrisisType=%q, want %q", signal.CrisisType, CrisisTypeSelfHarm)
	}
	if !signal.ImmediateIntervention {
		t.Fatal("ImmediateIntervention=false, want true at severity 0.8")
	}
}

func TestDetectNoMatch(t *testing.T) {
	classifier := NewCrisisClassifier()

	signal := classifier.Detect("I had a great day at the library")
	if signal.Detected {
		t.Fatalf("Detect returned detection for benign text: %+v", signal)
	}
	if signal.SeverityScore != 0 {
		t.Fatalf("SeverityScore=%v, want 0", signal.SeverityScore)
	}
}

func TestDetectIsIdempotent(t *testing.T) {
	classifier := NewCrisisClassifier()
	text := "I feel worthless and want to hurt myself"

	first := classifier.Detect(text)
	second := classifier.Detect(text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Detect not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
}
