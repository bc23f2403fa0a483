package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/mrsingh-rishi/riverwood-chat/model"
	"github.com/muesli/termenv"
)

const (
	VoiceCommand = "/voice"
	QuitCommand  = "/quit"
)

// Terminal is a line-oriented View. Each line read is the user pressing Enter:
// "/voice" starts voice capture, anything else is submitted.
type Terminal struct {
	out        *termenv.Output
	transcript *model.Transcript
	prompt     bool

	mu       sync.Mutex
	input    string
	onSubmit []func()
	onVoice  []func()
}

// NewTerminal renders to w. The prompt is only drawn when w is a terminal.
func NewTerminal(w io.Writer) *Terminal {
	prompt := false
	if f, ok := w.(*os.File); ok {
		prompt = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Terminal{
		out:        termenv.NewOutput(w),
		transcript: model.NewTranscript(),
		prompt:     prompt,
	}
}

// Transcript exposes the rendered entries.
func (t *Terminal) Transcript() *model.Transcript {
	return t.transcript
}

func (t *Terminal) Append(entry model.Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.transcript.Append(entry)

	label := t.out.String(entry.Sender + ":").Bold()
	switch entry.Sender {
	case model.SenderUser:
		label = label.Foreground(t.out.Color("12"))
	case model.SenderAgent:
		label = label.Foreground(t.out.Color("10"))
	case model.SenderError:
		label = label.Foreground(t.out.Color("9"))
	}
	fmt.Fprintf(t.out, "%s %s\n", label, entry.Text)
}

func (t *Terminal) Input() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.input
}

func (t *Terminal) SetInput(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.input = text
}

func (t *Terminal) OnSubmit(handler func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSubmit = append(t.onSubmit, handler)
}

func (t *Terminal) OnVoice(handler func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onVoice = append(t.onVoice, handler)
}

// Run reads lines from in and fires the registered handlers until EOF,
// "/quit" or ctx is done.
func (t *Terminal) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		t.drawPrompt()
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return nil
				}
			}
			switch strings.TrimSpace(line) {
			case QuitCommand:
				return nil
			case VoiceCommand:
				t.fire(true)
			default:
				t.SetInput(line)
				t.fire(false)
			}
		}
	}
}

func (t *Terminal) fire(voice bool) {
	t.mu.Lock()
	hs := t.onSubmit
	if voice {
		hs = t.onVoice
	}
	hs = append([]func(){}, hs...)
	t.mu.Unlock()
	for _, h := range hs {
		h()
	}
}

func (t *Terminal) drawPrompt() {
	if t.prompt {
		fmt.Fprint(t.out, "> ")
	}
}
