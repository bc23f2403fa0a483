package stt

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

// Alternative is one candidate transcript for a recognized utterance.
type Alternative struct {
	Transcript string
	Confidence float64
}

// Result is one recognized utterance. Alternatives are ordered best first.
type Result struct {
	Alternatives []Alternative
	Final        bool
}

// Top returns the best transcript, or "" when there is none.
func (r Result) Top() string {
	if len(r.Alternatives) == 0 {
		return ""
	}
	return r.Alternatives[0].Transcript
}

// Recognizer starts speech recognition sessions. The returned channel is
// closed when the session ends; cancelling ctx ends the session.
type Recognizer interface {
	Recognize(ctx context.Context, lang string) (<-chan Result, error)
}

// Lines recognizes "speech" typed on a reader, one utterance per line. It stands
// in for a microphone when none is configured.
type Lines struct {
	mu      sync.Mutex
	scanner *bufio.Scanner
}

func NewLines(r io.Reader) *Lines {
	return &Lines{scanner: bufio.NewScanner(r)}
}

func (l *Lines) Recognize(ctx context.Context, lang string) (<-chan Result, error) {
	results := make(chan Result, 1)
	go func() {
		defer close(results)
		l.mu.Lock()
		defer l.mu.Unlock()
		for l.scanner.Scan() {
			text := strings.TrimSpace(l.scanner.Text())
			if text == "" {
				continue
			}
			select {
			case results <- Result{Alternatives: []Alternative{{Transcript: text, Confidence: 1}}, Final: true}:
			case <-ctx.Done():
			}
			return
		}
	}()
	return results, nil
}
