package model

import "sync"

// Sender labels shown in front of every transcript line.
const (
	SenderUser  = "🧑 You"
	SenderAgent = "🤖 Riverwood AI"
	SenderError = "❌ Error"
)

const (
	// PlaceholderReply is shown when the backend answers without a reply.
	PlaceholderReply = "Sorry, I didn’t understand that."
	// ConnectErrorText is shown for any failed request.
	ConnectErrorText = "Unable to connect to backend"
)

// Entry is one displayed chat line.
type Entry struct {
	Sender string
	Text   string
}

// Transcript is the append-only list of displayed entries.
type Transcript struct {
	mu      sync.Mutex
	entries []Entry
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds an entry at the end.
func (t *Transcript) Append(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, e)
}

// Entries returns a copy of the entries in render order.
func (t *Transcript) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
