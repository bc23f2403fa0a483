package types

// ChatRequest is the body posted to /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is what /chat answers. Reply is optional; clients substitute a
// placeholder when it is missing. Audio is base64 encoded mp3.
type ChatResponse struct {
	Reply string `json:"reply,omitempty"`
	Audio string `json:"audio,omitempty"`
	Error string `json:"error,omitempty"`
}
