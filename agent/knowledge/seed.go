package knowledge

import (
	"context"
	"strings"
)

// Document is one knowledge source file before chunking.
type Document struct {
	Source   string
	Filename string
	Category string
	Text     string
}

const defaultChunkSize = 800

// SplitText chunks text on paragraph boundaries, greedily packing paragraphs
// up to maxLen characters. A single oversized paragraph becomes its own
// chunk rather than being split mid-sentence.
func SplitText(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = defaultChunkSize
	}

	paragraphs := strings.Split(strings.TrimSpace(text), "\n\n")

	var chunks []string
	var current strings.Builder
	for _, paragraph := range paragraphs {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		if current.Len() > 0 && current.Len()+len(paragraph)+2 > maxLen {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(paragraph)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// Seed chunks and indexes documents into a collection, returning the number
// of chunks written.
func Seed(ctx context.Context, store *Store, collection string, docs []Document) (int, error) {
	var chunks []Chunk
	for _, doc := range docs {
		for i, text := range SplitText(doc.Text, defaultChunkSize) {
			chunks = append(chunks, Chunk{
				Text:     text,
				Source:   doc.Source,
				Filename: doc.Filename,
				Category: doc.Category,
				Index:    i,
			})
		}
	}

	if err := store.Upsert(ctx, collection, chunks); err != nil {
		return 0, err
	}
	return len(chunks), nil
}
