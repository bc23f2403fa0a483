// Package ui holds the chat view: the transcript display, the pending input
// line and the user events that drive the client.
package ui

import "github.com/mrsingh-rishi/riverwood-chat/model"

// View is what the chat client renders into and listens on.
type View interface {
	// Append renders a new transcript entry.
	Append(entry model.Entry)
	// Input returns the pending input text.
	Input() string
	// SetInput replaces the pending input text.
	SetInput(text string)
	// OnSubmit registers a handler fired when the user sends the input.
	OnSubmit(handler func())
	// OnVoice registers a handler fired when the user asks for voice input.
	OnVoice(handler func())
}
