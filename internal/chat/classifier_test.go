package chat

import (
	"testing"

	"github.com/nestieai/nestie/internal/history"
)

func TestClassifyGeneralPatterns(t *testing.T) {
	t.Parallel()

	c := NewClassifier(nil)
	questions := []string{
		"hello there",
		"hey, how are you?",
		"thanks a lot",
		"goodbye!",
		"who are you exactly",
		"can you help me with something",
		"  yes  ",
		"ok",
		"what's the weather like",
		"tell me a joke",
	}
	for _, q := range questions {
		if got := c.Classify(q, "", false); got != history.ClassGeneral {
			t.Errorf("Classify(%q) = %s, want general", q, got)
		}
	}
}

func TestClassifyHelpMentioningDocumentsIsNotGeneral(t *testing.T) {
	t.Parallel()

	c := NewClassifier(nil)
	// "help me" alone is small talk, but not when a document is involved;
	// "document" and "file" then score two keywords.
	got := c.Classify("can you help me find the document file?", "", false)
	if got != history.ClassDocument {
		t.Errorf("expected document route, got %s", got)
	}
}

func TestClassifyKeywordScores(t *testing.T) {
	t.Parallel()

	c := NewClassifier([]string{"Remote Work"})
	tests := []struct {
		question string
		want     history.Classification
	}{
		{"what is our remote work policy?", history.ClassDocument}, // "remote work" + "policy"
		{"what does the summary say about vacation days, according to page 3?", history.ClassDocument},
		{"what is the policy on snacks?", history.ClassHybrid}, // one keyword only
		{"do we sell colorful umbrellas?", history.ClassGeneral},
	}
	for _, tt := range tests {
		if got := c.Classify(tt.question, "", false); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.question, got, tt.want)
		}
	}
}

func TestClassifyContinuationInheritsLast(t *testing.T) {
	t.Parallel()

	c := NewClassifier([]string{"Company Policies"})
	tests := []struct {
		question string
		last     history.Classification
	}{
		// keyword score would say document-query, but continuation wins
		{"and what about the policy document summary?", history.ClassGeneral},
		{"tell me more", history.ClassDocument},
		{"but why though", history.ClassHybrid},
		{"elaborate on that", history.ClassDocument},
	}
	for _, tt := range tests {
		if got := c.Classify(tt.question, tt.last, true); got != tt.last {
			t.Errorf("Classify(%q) = %s, want inherited %s", tt.question, got, tt.last)
		}
	}
}

func TestClassifyContinuationWithoutLastFallsThrough(t *testing.T) {
	t.Parallel()

	c := NewClassifier(nil)
	// "tell me more" is a continuation, but with no previous turn it falls
	// through; zero keywords make it general chat.
	if got := c.Classify("tell me more", "", false); got != history.ClassGeneral {
		t.Errorf("expected general, got %s", got)
	}
}

func TestClassifyDocumentNameCountsAsKeyword(t *testing.T) {
	t.Parallel()

	with := NewClassifier([]string{"Engineering Handbook"})
	without := NewClassifier(nil)

	q := "where is the engineering handbook kept?"
	if got := with.Classify(q, "", false); got != history.ClassHybrid {
		t.Errorf("with document name: got %s, want hybrid", got)
	}
	if got := without.Classify(q, "", false); got != history.ClassGeneral {
		t.Errorf("without document name: got %s, want general", got)
	}
}
