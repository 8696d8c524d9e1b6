package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/nestieai/nestie/internal/index"
)

type fakeSearcher struct {
	passages []index.Passage
	err      error
	queries  []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string, k int) ([]index.Passage, error) {
	f.queries = append(f.queries, query)
	return f.passages, f.err
}

type fakeGenerator struct {
	answers []string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.answers) == 0 {
		return "", nil
	}
	answer := f.answers[0]
	if len(f.answers) > 1 {
		f.answers = f.answers[1:]
	}
	return answer, nil
}

func newTestService(searcher *fakeSearcher, generator *fakeGenerator, docNames []string) *Service {
	return NewService(slog.Default(), searcher, generator, docNames, 3, 10, time.Second)
}

func TestAskDocumentQueryAddsAttribution(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{passages: []index.Passage{
		{Text: "Employees may work remotely up to three days a week.", DocumentName: "Company Policies", Page: 4},
		{Text: "Remote work requests go through your manager.", DocumentName: "Company Policies", Page: 5},
		{Text: "We trust people to manage their own time.", DocumentName: "Company Culture", Page: 1},
	}}
	generator := &fakeGenerator{answers: []string{"You can work remotely up to three days a week."}}
	svc := newTestService(searcher, generator, []string{"Company Culture", "Company Policies"})

	answer := svc.NewSession().Ask(context.Background(), "What is our remote work policy?")

	if !strings.Contains(answer, "three days a week") {
		t.Errorf("expected generated answer, got %q", answer)
	}
	if !strings.Contains(answer, "_Sources: Company Culture, Company Policies_") {
		t.Errorf("expected deduplicated sorted attribution line, got %q", answer)
	}
}

func TestAskEmptyGenerationReturnsNoInfoSentinel(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{passages: []index.Passage{{Text: "irrelevant", DocumentName: "Doc"}}}
	generator := &fakeGenerator{answers: []string{""}}
	svc := newTestService(searcher, generator, []string{"Doc"})

	// two keywords force the document route
	answer := svc.NewSession().Ask(context.Background(), "summarize the policy")
	if answer != NoInfoAnswer {
		t.Errorf("expected no-info sentinel, got %q", answer)
	}
}

func TestAskHybridFallsBackWithSuggestion(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{}
	// first generation is the document attempt (empty -> sentinel), second is
	// the general fallback
	generator := &fakeGenerator{answers: []string{"", "Happy to chat about that!"}}
	svc := newTestService(searcher, generator, []string{"Company Culture", "Company Policies"})

	// exactly one keyword ("policy") routes hybrid
	answer := svc.NewSession().Ask(context.Background(), "is there a policy about birthdays?")

	if !strings.Contains(answer, "Happy to chat about that!") {
		t.Errorf("expected general fallback, got %q", answer)
	}
	if !strings.Contains(answer, "try asking about: Company Culture, Company Policies") {
		t.Errorf("expected document suggestion, got %q", answer)
	}
}

func TestAskHybridFallsBackOnParaphrasedNoInfo(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{passages: []index.Passage{{Text: "ctx", DocumentName: "Handbook"}}}
	// the model paraphrases instead of emitting the sentinel verbatim
	generator := &fakeGenerator{answers: []string{
		"Sorry, I don't find any relevant information about birthdays here.",
		"Birthdays are fun!",
	}}
	svc := newTestService(searcher, generator, []string{"Handbook"})

	answer := svc.NewSession().Ask(context.Background(), "is there a policy about birthdays?")

	if !strings.Contains(answer, "Birthdays are fun!") {
		t.Errorf("expected general fallback, got %q", answer)
	}
	if !strings.Contains(answer, "try asking about: Handbook") {
		t.Errorf("expected document suggestion, got %q", answer)
	}
}

func TestAskHybridKeepsDocumentAnswer(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{passages: []index.Passage{{Text: "rule text", DocumentName: "Handbook"}}}
	generator := &fakeGenerator{answers: []string{"The handbook covers this."}}
	svc := newTestService(searcher, generator, []string{"Handbook"})

	answer := svc.NewSession().Ask(context.Background(), "is there a rule about this?")
	if !strings.Contains(answer, "The handbook covers this.") {
		t.Errorf("expected document answer kept, got %q", answer)
	}
	if len(generator.prompts) != 1 {
		t.Errorf("expected a single generation, got %d", len(generator.prompts))
	}
}

func TestAskServiceFailureReturnsApologyAndRecordsTurn(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{err: errors.New("index unavailable")}
	generator := &fakeGenerator{}
	svc := newTestService(searcher, generator, []string{"Doc"})
	session := svc.NewSession()

	answer := session.Ask(context.Background(), "summarize the policy document")
	if answer != ApologyAnswer {
		t.Errorf("expected apology, got %q", answer)
	}
	if session.HistoryLen() != 1 {
		t.Errorf("expected failed turn recorded, got %d", session.HistoryLen())
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	t.Parallel()

	svc := newTestService(&fakeSearcher{}, &fakeGenerator{}, nil)
	session := svc.NewSession()

	if answer := session.Ask(context.Background(), "   "); answer != EmptyQuestionAnswer {
		t.Errorf("unexpected answer %q", answer)
	}
	if session.HistoryLen() != 0 {
		t.Errorf("expected blank input not recorded, got %d turns", session.HistoryLen())
	}
}

func TestAskBuildsContextFromPreviousTurns(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{passages: []index.Passage{{Text: "policy", DocumentName: "Doc"}}}
	generator := &fakeGenerator{answers: []string{"First answer.", "Second answer."}}
	svc := newTestService(searcher, generator, []string{"Doc"})
	session := svc.NewSession()

	session.Ask(context.Background(), "summarize the policy document")
	session.Ask(context.Background(), "summarize the policy document again")

	if len(searcher.queries) != 2 {
		t.Fatalf("expected two searches, got %d", len(searcher.queries))
	}
	second := searcher.queries[1]
	if !strings.Contains(second, "Previous Q: summarize the policy document") {
		t.Errorf("expected previous question in context, got %q", second)
	}
	if !strings.Contains(second, "Previous A: First answer.") {
		t.Errorf("expected previous answer in context, got %q", second)
	}
	if !strings.Contains(second, "Current question: summarize the policy document again") {
		t.Errorf("expected current question marker, got %q", second)
	}
}

func TestContinuationFollowsPreviousRoute(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{passages: []index.Passage{{Text: "ctx", DocumentName: "Doc"}}}
	generator := &fakeGenerator{answers: []string{"Documents say X.", "More detail on X."}}
	svc := newTestService(searcher, generator, []string{"Doc"})
	session := svc.NewSession()

	session.Ask(context.Background(), "summarize the policy document")
	session.Ask(context.Background(), "tell me more")

	// the continuation rides the document route, so a second search happens
	if len(searcher.queries) != 2 {
		t.Errorf("expected continuation to re-query the index, got %d searches", len(searcher.queries))
	}
}

func TestHubIsolatesSessions(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{}
	generator := &fakeGenerator{answers: []string{"hi!"}}
	svc := newTestService(searcher, generator, nil)
	hub := NewHub(svc)

	a := hub.Session("U1")
	b := hub.Session("U2")
	if a == b {
		t.Fatal("expected distinct sessions per user")
	}
	if again := hub.Session("U1"); again != a {
		t.Error("expected the same session on repeat lookup")
	}

	a.Ask(context.Background(), "hello")
	if b.HistoryLen() != 0 {
		t.Error("history leaked across sessions")
	}
	if hub.Count() != 2 {
		t.Errorf("expected 2 sessions, got %d", hub.Count())
	}
}

func TestSourceNamesDeduplicatesAndSorts(t *testing.T) {
	t.Parallel()

	names := sourceNames([]index.Passage{
		{DocumentName: "Zeta"},
		{DocumentName: "Alpha"},
		{DocumentName: "Zeta"},
		{DocumentName: ""},
	})
	if len(names) != 2 || names[0] != "Alpha" || names[1] != "Zeta" {
		t.Errorf("unexpected names %v", names)
	}
}
