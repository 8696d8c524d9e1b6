package history

import (
	"fmt"
	"testing"
	"time"
)

func TestAppendEvictsOldest(t *testing.T) {
	t.Parallel()

	const capacity = 10
	b := NewBuffer(capacity)
	for i := 0; i < capacity+1; i++ {
		b.Append(Turn{
			Timestamp: time.Now(),
			Question:  fmt.Sprintf("q%d", i),
			Answer:    fmt.Sprintf("a%d", i),
		})
	}

	if b.Len() != capacity {
		t.Fatalf("expected length %d, got %d", capacity, b.Len())
	}
	turns := b.Recent(capacity)
	if turns[0].Question != "q1" {
		t.Errorf("expected oldest surviving turn q1, got %s", turns[0].Question)
	}
	if turns[len(turns)-1].Question != fmt.Sprintf("q%d", capacity) {
		t.Errorf("expected newest turn q%d, got %s", capacity, turns[len(turns)-1].Question)
	}
	for i := 1; i < len(turns); i++ {
		if turns[i].Question <= turns[i-1].Question && len(turns[i].Question) == len(turns[i-1].Question) {
			t.Errorf("turns out of order at %d: %s after %s", i, turns[i].Question, turns[i-1].Question)
		}
	}
}

func TestRecentRoundTrip(t *testing.T) {
	t.Parallel()

	b := NewBuffer(5)
	turn := Turn{
		Timestamp:      time.Now(),
		Question:       "what is the policy?",
		Answer:         "the policy is x",
		Classification: ClassDocument,
	}
	b.Append(turn)

	got := b.Recent(1)
	if len(got) != 1 {
		t.Fatalf("expected one turn, got %d", len(got))
	}
	if got[0] != turn {
		t.Errorf("round trip mismatch: %+v", got[0])
	}
}

func TestRecentBounds(t *testing.T) {
	t.Parallel()

	b := NewBuffer(3)
	if got := b.Recent(2); got != nil {
		t.Errorf("expected nil on empty buffer, got %v", got)
	}
	b.Append(Turn{Question: "q1"})
	if got := b.Recent(5); len(got) != 1 {
		t.Errorf("expected clamped result of 1, got %d", len(got))
	}
	if got := b.Recent(0); got != nil {
		t.Errorf("expected nil for n=0, got %v", got)
	}
}

func TestZeroCapacityFallsBackToDefault(t *testing.T) {
	t.Parallel()

	b := NewBuffer(0)
	for i := 0; i < DefaultCapacity+5; i++ {
		b.Append(Turn{Question: fmt.Sprintf("q%d", i)})
	}
	if b.Len() != DefaultCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultCapacity, b.Len())
	}
}
