package tts

import (
	"regexp"
	"strings"
)

var sentenceRe = regexp.MustCompile(`[^\.!\?]*[\.!\?]`)

// SplitSentences breaks text into complete sentences. Trailing text without
// terminal punctuation is returned as the last sentence.
func SplitSentences(text string) []string {
	buffer := &strings.Builder{}
	sentences := processChunk(buffer, text)
	if leftover := strings.TrimSpace(buffer.String()); leftover != "" {
		sentences = append(sentences, leftover)
	}
	return sentences
}

// processChunk appends chunk to buffer, extracts all full sentences and leaves
// the remainder in buffer.
func processChunk(buffer *strings.Builder, chunk string) []string {
	buffer.WriteString(chunk)
	text := buffer.String()

	var sentences []string
	for {
		loc := sentenceRe.FindStringIndex(text)
		if loc == nil {
			break
		}
		sentence := strings.TrimSpace(text[:loc[1]])
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		text = text[loc[1]:]
	}

	buffer.Reset()
	buffer.WriteString(text)
	return sentences
}
