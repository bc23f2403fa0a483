package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/mrsingh-rishi/riverwood-chat/types"
	"github.com/pkg/errors"
)

// Endpoint is the remote service that answers a message.
type Endpoint interface {
	Send(ctx context.Context, message string) (types.ChatResponse, error)
}

// HTTPEndpoint posts messages to {BaseURL}/chat.
type HTTPEndpoint struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHTTPEndpoint(baseURL string) *HTTPEndpoint {
	return &HTTPEndpoint{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: http.DefaultClient,
	}
}

// ErrNullResponse is returned when the endpoint answers with a JSON null.
var ErrNullResponse = errors.New("chat response is null")

// Send posts {"message": message} and decodes the JSON answer. The status code
// is not inspected: any body that is a single JSON object is an answer.
func (e *HTTPEndpoint) Send(ctx context.Context, message string) (types.ChatResponse, error) {
	body, err := json.Marshal(types.ChatRequest{Message: message})
	if err != nil {
		return types.ChatResponse{}, errors.Wrap(err, "marshal chat request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return types.ChatResponse{}, errors.Wrap(err, "build chat request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return types.ChatResponse{}, errors.Wrap(err, "post chat request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.ChatResponse{}, errors.Wrap(err, "read chat response")
	}
	return decodeResponse(raw, resp.StatusCode)
}

// decodeResponse accepts exactly one JSON object. Trailing data, a null body
// and mistyped fields are errors.
func decodeResponse(raw []byte, status int) (types.ChatResponse, error) {
	var out *types.ChatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return types.ChatResponse{}, errors.Wrapf(err, "decode chat response (status %d)", status)
	}
	if out == nil {
		return types.ChatResponse{}, errors.Wrapf(ErrNullResponse, "status %d", status)
	}
	return *out, nil
}
