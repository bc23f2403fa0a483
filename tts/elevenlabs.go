package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

const (
	DefaultElevenLabsURL = "https://api.elevenlabs.io"
	DefaultModelID       = "eleven_multilingual_v2"
)

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type speechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id,omitempty"`
	LanguageCode  string        `json:"language_code,omitempty"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type ElevenLabsClient struct {
	APIKey  string
	VoiceID string
	ModelID string
	BaseURL string
	// OutputFormat is passed as output_format on streaming requests.
	OutputFormat string
	HTTPClient   *http.Client
	// OutputDeviceChannel receives base64 audio chunks from Speak.
	OutputDeviceChannel chan<- string
}

func NewElevenLabsClient(apiKey, voiceID string, outputDeviceChannel chan<- string) (*ElevenLabsClient, error) {
	if apiKey == "" {
		return nil, errors.New("elevenlabs API key is required")
	}
	if voiceID == "" {
		return nil, errors.New("elevenlabs voice id is required")
	}
	return &ElevenLabsClient{
		APIKey:              apiKey,
		VoiceID:             voiceID,
		ModelID:             DefaultModelID,
		BaseURL:             DefaultElevenLabsURL,
		OutputFormat:        "mp3_44100_128",
		HTTPClient:          http.DefaultClient,
		OutputDeviceChannel: outputDeviceChannel,
	}, nil
}

// Speak streams speech for text and emits every audio chunk on the output
// device channel.
func (c *ElevenLabsClient) Speak(ctx context.Context, text, lang string) error {
	if c.OutputDeviceChannel == nil {
		return errors.New("elevenlabs: no output device channel")
	}

	base, err := url.Parse(fmt.Sprintf("%s/v1/text-to-speech/%s/stream/with-timestamps", c.BaseURL, c.VoiceID))
	if err != nil {
		return errors.Wrap(err, "elevenlabs: parse url")
	}
	if c.OutputFormat != "" {
		q := base.Query()
		q.Set("output_format", c.OutputFormat)
		base.RawQuery = q.Encode()
	}

	resp, err := c.post(ctx, base.String(), speechRequest{
		Text:          text,
		ModelID:       c.ModelID,
		LanguageCode:  languageCode(lang),
		VoiceSettings: voiceSettings{Stability: 0.75, SimilarityBoost: 0.7},
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	dec := json.NewDecoder(resp.Body)
	for {
		var chunk struct {
			AudioBase64 string `json:"audio_base64"`
		}
		if err := dec.Decode(&chunk); err != nil {
			if err == io.EOF {
				return nil
			}
			return errors.Wrap(err, "elevenlabs: decode chunk")
		}
		if chunk.AudioBase64 == "" {
			continue
		}
		select {
		case c.OutputDeviceChannel <- chunk.AudioBase64:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Synthesize returns the complete mp3 for text.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := c.post(ctx, fmt.Sprintf("%s/v1/text-to-speech/%s", c.BaseURL, c.VoiceID), speechRequest{
		Text:          text,
		VoiceSettings: voiceSettings{Stability: 0.5, SimilarityBoost: 0.8},
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "elevenlabs: read audio")
	}
	return audio, nil
}

func (c *ElevenLabsClient) post(ctx context.Context, endpoint string, payload speechRequest) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "elevenlabs: marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "elevenlabs: build request")
	}
	req.Header.Set("xi-api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "elevenlabs: request")
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, errors.Errorf("elevenlabs TTS failed: %d %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return resp, nil
}

// languageCode reduces "en-IN" to the ISO 639-1 code ElevenLabs expects.
func languageCode(lang string) string {
	for i, r := range lang {
		if r == '-' || r == '_' {
			return lang[:i]
		}
	}
	return lang
}
