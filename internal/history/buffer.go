// Package history keeps the bounded per-conversation record of past turns.
package history

import "time"

// Classification is the route a question was answered through.
type Classification string

const (
	// ClassDocument routes through retrieval over the document index.
	ClassDocument Classification = "document"
	// ClassGeneral routes through free-form generation without retrieval.
	ClassGeneral Classification = "general"
	// ClassHybrid tries the document route first and falls back to general.
	ClassHybrid Classification = "hybrid"
)

// Turn is one question/answer exchange. Immutable once appended.
type Turn struct {
	Timestamp      time.Time
	Question       string
	Answer         string
	Classification Classification
}

// Buffer is a fixed-capacity FIFO log of conversation turns. Appending past
// capacity evicts the oldest turn. A Buffer belongs to exactly one
// conversation and is not safe for concurrent use.
type Buffer struct {
	turns []Turn
	cap   int
}

// DefaultCapacity is the history length used when capacity is not configured.
const DefaultCapacity = 10

// NewBuffer returns a Buffer holding at most capacity turns.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{cap: capacity}
}

// Append records a turn, evicting the oldest once the buffer is full.
func (b *Buffer) Append(turn Turn) {
	b.turns = append(b.turns, turn)
	if len(b.turns) > b.cap {
		b.turns = b.turns[len(b.turns)-b.cap:]
	}
}

// Recent returns up to n most recent turns in chronological order.
func (b *Buffer) Recent(n int) []Turn {
	if n <= 0 || len(b.turns) == 0 {
		return nil
	}
	if n > len(b.turns) {
		n = len(b.turns)
	}
	out := make([]Turn, n)
	copy(out, b.turns[len(b.turns)-n:])
	return out
}

// Len reports the number of stored turns.
func (b *Buffer) Len() int {
	return len(b.turns)
}
