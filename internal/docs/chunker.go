package docs

import "strings"

// Chunk is one passage of a document, ready for embedding.
type Chunk struct {
	DocumentName string
	Ordinal      int
	Content      string
}

// Chunker splits document text into overlapping passages, breaking at word
// boundaries where possible.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker returns a Chunker with the given size and overlap in bytes.
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 5
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split returns the passages of doc in order.
func (c *Chunker) Split(doc Document) []Chunk {
	content := strings.TrimSpace(doc.Content)
	if content == "" {
		return nil
	}

	var chunks []Chunk
	start := 0
	ordinal := 0
	for start < len(content) {
		end := start + c.size
		if end > len(content) {
			end = len(content)
		}
		if end < len(content) {
			if lastSpace := strings.LastIndex(content[start:end], " "); lastSpace > 0 {
				end = start + lastSpace
			}
		}

		piece := strings.TrimSpace(content[start:end])
		if piece != "" {
			chunks = append(chunks, Chunk{
				DocumentName: doc.Name,
				Ordinal:      ordinal,
				Content:      piece,
			})
			ordinal++
		}

		if end == len(content) {
			break
		}
		next := end - c.overlap
		if next <= start {
			// overlap would not advance; skip it for this boundary
			next = end
		}
		start = next
	}
	return chunks
}

// SplitAll splits every document in order.
func (c *Chunker) SplitAll(documents []Document) []Chunk {
	var all []Chunk
	for _, doc := range documents {
		all = append(all, c.Split(doc)...)
	}
	return all
}
