// Package chunker splits extracted document text into overlapping
// segments sized for embedding. Pure functions, no shared state.
package chunker

import "strings"

// Chunk walks the text with a cursor, cutting slices of at most
// chunkSize characters. When a slice does not reach the end of the
// text it is truncated just after the last '.' or '\n' inside it, but
// only if that break point sits past the midpoint - otherwise a short
// sentence early in the slice would produce degenerate tiny chunks.
// Consecutive chunks overlap by `overlap` characters so context is
// not lost at the seams.
//
// A chunkSize <= 0 or empty text yields an empty result, not an error.
// Callers are expected to keep overlap < chunkSize (config validation
// rejects anything else); the cursor still clamps to forward progress
// so a bad pairing can never stall the loop.
func Chunk(text string, chunkSize int, overlap int) []string {
	if text == "" || chunkSize <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}

	// Sizes are measured in characters. Slicing the string by byte
	// offsets would land mid-rune on multibyte text and halve the
	// effective chunk width for 2-byte scripts.
	runes := []rune(text)

	var chunks []string
	start := 0
	textLength := len(runes)

	for start < textLength {
		end := start + chunkSize
		sliceEnd := end
		if sliceEnd > textLength {
			sliceEnd = textLength
		}
		chunk := runes[start:sliceEnd]

		if end < textLength {
			breakPoint := -1
			for i := len(chunk) - 1; i >= 0; i-- {
				if chunk[i] == '.' || chunk[i] == '\n' {
					breakPoint = i
					break
				}
			}

			// Only break early if we keep at least half the slice.
			if breakPoint > chunkSize/2 {
				chunk = chunk[:breakPoint+1]
				end = start + breakPoint + 1
			}
		}

		if trimmed := strings.TrimSpace(string(chunk)); trimmed != "" {
			chunks = append(chunks, trimmed)
		}

		next := end - overlap
		if next <= start {
			next = start + 1 //forward progress guard
		}
		start = next
	}

	return chunks
}
