package chat

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nestieai/nestie/internal/history"
	"github.com/nestieai/nestie/internal/index"
	"github.com/nestieai/nestie/internal/llm"
)

// Fixed user-facing strings. These are matched verbatim by callers and tests,
// so they must not drift.
const (
	// NoInfoAnswer signals that retrieval produced nothing usable.
	NoInfoAnswer = "I don't find any relevant information in the available documents"
	// ApologyAnswer is returned for any external service failure.
	ApologyAnswer = "😅 Sorry, I encountered an error. Please try again or contact support."
	// EmptyQuestionAnswer is returned for blank input.
	EmptyQuestionAnswer = "Please ask me something! I can help with documents or just chat."
)

// contextTurns is how many history turns feed the contextual query. It is
// intentionally smaller than the buffer capacity.
const contextTurns = 2

// Service holds the shared, read-only collaborators behind every session.
type Service struct {
	classifier *Classifier
	searcher   index.Searcher
	generator  llm.Generator
	docNames   []string
	retrievalK int
	maxHistory int
	timeout    time.Duration
	logger     *slog.Logger
}

// NewService builds the answer router service. documentNames feed both the
// classifier vocabulary and the hybrid-route suggestion.
func NewService(log *slog.Logger, searcher index.Searcher, generator llm.Generator, documentNames []string, retrievalK, maxHistory int, timeout time.Duration) *Service {
	if log == nil {
		log = slog.Default()
	}
	if retrievalK <= 0 {
		retrievalK = 3
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	names := make([]string, len(documentNames))
	copy(names, documentNames)
	return &Service{
		classifier: NewClassifier(names),
		searcher:   searcher,
		generator:  generator,
		docNames:   names,
		retrievalK: retrievalK,
		maxHistory: maxHistory,
		timeout:    timeout,
		logger:     log.With(slog.String("component", "chat")),
	}
}

// DocumentNames returns the loaded document display names.
func (s *Service) DocumentNames() []string {
	return s.docNames
}

// Session is one user's conversation: a history buffer plus the previous
// classification. A session processes one question at a time.
type Session struct {
	mu      sync.Mutex
	svc     *Service
	buffer  *history.Buffer
	last    history.Classification
	hasLast bool
}

// NewSession creates an empty conversation session.
func (s *Service) NewSession() *Session {
	return &Session{
		svc:    s,
		buffer: history.NewBuffer(s.maxHistory),
	}
}

// Ask classifies the question, routes it, records the turn, and returns the
// reply text. Service failures come back as the apology string, never as an
// error; the failed turn is still recorded so a rephrased retry keeps its
// continuation context.
func (s *Session) Ask(ctx context.Context, question string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	question = strings.TrimSpace(question)
	if question == "" {
		return EmptyQuestionAnswer
	}

	ctx, cancel := context.WithTimeout(ctx, s.svc.timeout)
	defer cancel()

	classification := s.svc.classifier.Classify(question, s.last, s.hasLast)

	var answer string
	switch classification {
	case history.ClassDocument:
		answer = s.askDocument(ctx, question)
	case history.ClassGeneral:
		answer = s.askGeneral(ctx, question)
	default:
		answer = s.askHybrid(ctx, question)
	}

	s.buffer.Append(history.Turn{
		Timestamp:      time.Now(),
		Question:       question,
		Answer:         answer,
		Classification: classification,
	})
	s.last = classification
	s.hasLast = true

	return answer
}

// HistoryLen reports the number of recorded turns.
func (s *Session) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer.Len()
}

func (s *Session) askDocument(ctx context.Context, question string) string {
	query := s.contextualQuery(question)

	passages, err := s.svc.searcher.Search(ctx, query, s.svc.retrievalK)
	if err != nil {
		s.svc.logger.Error("document search failed", slog.Any("error", err))
		return ApologyAnswer
	}

	answer, err := s.svc.generator.Generate(ctx, documentPrompt(passages, query))
	if err != nil {
		s.svc.logger.Error("document answer generation failed", slog.Any("error", err))
		return ApologyAnswer
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return NoInfoAnswer
	}

	if sources := sourceNames(passages); len(sources) > 0 {
		answer += "\n\n_Sources: " + strings.Join(sources, ", ") + "_"
	}
	return answer
}

func (s *Session) askGeneral(ctx context.Context, question string) string {
	prompt := generalPrompt(s.contextualQuery(question))
	answer, err := s.svc.generator.Generate(ctx, prompt)
	if err != nil {
		s.svc.logger.Error("general answer generation failed", slog.Any("error", err))
		return ApologyAnswer
	}
	return strings.TrimSpace(answer)
}

// noInfoMarker is the fragment the hybrid route looks for when deciding to
// fall back; it is deliberately shorter than NoInfoAnswer so that paraphrased
// no-info replies from the model still trigger the fallback.
const noInfoMarker = "don't find any relevant information"

func (s *Session) askHybrid(ctx context.Context, question string) string {
	answer := s.askDocument(ctx, question)
	if !strings.Contains(strings.ToLower(answer), noInfoMarker) {
		return answer
	}

	general := s.askGeneral(ctx, question)
	if len(s.svc.docNames) > 0 {
		general += "\n\n💡 _If you're looking for specific information, try asking about: " +
			strings.Join(s.svc.docNames, ", ") + "_"
	}
	return general
}

// contextualQuery prepends up to the last two turns so that follow-up
// questions carry their topic.
func (s *Session) contextualQuery(question string) string {
	turns := s.buffer.Recent(contextTurns)
	if len(turns) == 0 {
		return question
	}
	var b strings.Builder
	b.WriteString("Conversation context:\n")
	for _, turn := range turns {
		b.WriteString("Previous Q: ")
		b.WriteString(turn.Question)
		b.WriteString("\nPrevious A: ")
		b.WriteString(turn.Answer)
		b.WriteString("\n")
	}
	b.WriteString("\nCurrent question: ")
	b.WriteString(question)
	return b.String()
}

func sourceNames(passages []index.Passage) []string {
	seen := map[string]struct{}{}
	names := make([]string, 0, len(passages))
	for _, passage := range passages {
		name := strings.TrimSpace(passage.DocumentName)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
