// Package chat routes questions between document retrieval and free-form
// conversation, and owns the per-user answer sessions.
package chat

import (
	"regexp"
	"strings"

	"github.com/nestieai/nestie/internal/history"
)

// Baseline vocabulary of document-ish words; the lowercased names of the
// loaded documents are appended at construction time.
var documentKeywords = []string{
	"document",
	"doc",
	"file",
	"paper",
	"text",
	"pdf",
	"summarize",
	"summary",
	"main topic",
	"key points",
	"information",
	"data",
	"content",
	"source",
	"reference",
	"what does",
	"according to",
	"mentioned in",
	"states that",
	"chapter",
	"section",
	"page",
	"paragraph",
	"policy",
	"rule",
}

var generalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(hello|hi|hey|good morning|good afternoon|good evening)\b`),
	regexp.MustCompile(`\b(how are you|what's up|how's it going)\b`),
	regexp.MustCompile(`\b(thank you|thanks|appreciate)\b`),
	regexp.MustCompile(`\b(goodbye|bye|see you|talk to you later)\b`),
	regexp.MustCompile(`\b(who are you|what are you|tell me about yourself)\b`),
	regexp.MustCompile(`^\s*(yes|no|okay|ok|sure|maybe|perhaps)\s*$`),
	regexp.MustCompile(`\b(weather|time|date|joke|story)\b`),
}

// Help requests count as general chat only when they do not mention documents;
// RE2 has no lookahead, so the exclusion is a second predicate.
var (
	helpPattern        = regexp.MustCompile(`\b(can you help|help me)\b`)
	helpExcludePattern = regexp.MustCompile(`\b(document|file|pdf)\b`)
)

var continuationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(also|and|furthermore|additionally|moreover)\b`),
	regexp.MustCompile(`\b(what about|how about|tell me more)\b`),
	regexp.MustCompile(`\b(continue|more|further|elaborate)\b`),
	regexp.MustCompile(`\b(that|this|it|they)\b`),
	regexp.MustCompile(`^\s*(and|but|however|although|though)\b`),
}

// Classifier decides how a question should be answered. It is stateless; the
// caller passes the previous turn's classification for continuation handling.
type Classifier struct {
	keywords []string
}

// NewClassifier builds a classifier whose keyword vocabulary includes the
// given document display names (lowercased).
func NewClassifier(documentNames []string) *Classifier {
	keywords := make([]string, 0, len(documentKeywords)+len(documentNames))
	keywords = append(keywords, documentKeywords...)
	for _, name := range documentNames {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			keywords = append(keywords, name)
		}
	}
	return &Classifier{keywords: keywords}
}

// Classify maps a question to a route. Precedence: continuations inherit the
// previous classification when one exists, then general-chat patterns, then
// the keyword score (>=2 document, ==1 hybrid, 0 general).
func (c *Classifier) Classify(question string, last history.Classification, hasLast bool) history.Classification {
	lowered := strings.ToLower(strings.TrimSpace(question))

	if hasLast {
		for _, pattern := range continuationPatterns {
			if pattern.MatchString(lowered) {
				return last
			}
		}
	}

	for _, pattern := range generalPatterns {
		if pattern.MatchString(lowered) {
			return history.ClassGeneral
		}
	}
	if helpPattern.MatchString(lowered) && !helpExcludePattern.MatchString(lowered) {
		return history.ClassGeneral
	}

	score := 0
	for _, keyword := range c.keywords {
		if strings.Contains(lowered, keyword) {
			score++
		}
	}
	switch {
	case score >= 2:
		return history.ClassDocument
	case score == 1:
		return history.ClassHybrid
	default:
		return history.ClassGeneral
	}
}
