package tts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElevenLabsSpeakStreamsChunks(t *testing.T) {
	var got speechRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/text-to-speech/voice-1/stream/with-timestamps", r.URL.Path)
		assert.Equal(t, "mp3_44100_128", r.URL.Query().Get("output_format"))
		assert.Equal(t, "key", r.Header.Get("xi-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprintln(w, `{"audio_base64":"AAA="}`)
		fmt.Fprintln(w, `{"audio_base64":""}`)
		fmt.Fprintln(w, `{"audio_base64":"BBB="}`)
	}))
	defer srv.Close()

	out := make(chan string, 4)
	c, err := NewElevenLabsClient("key", "voice-1", out)
	require.NoError(t, err)
	c.BaseURL = srv.URL

	require.NoError(t, c.Speak(context.Background(), "hello", "en-IN"))
	close(out)

	var chunks []string
	for chunk := range out {
		chunks = append(chunks, chunk)
	}
	assert.Equal(t, []string{"AAA=", "BBB="}, chunks)
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, "en", got.LanguageCode)
	assert.Equal(t, DefaultModelID, got.ModelID)
}

func TestElevenLabsSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/text-to-speech/voice-1", r.URL.Path)
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	c, err := NewElevenLabsClient("key", "voice-1", nil)
	require.NoError(t, err)
	c.BaseURL = srv.URL

	audio, err := c.Synthesize(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3-bytes"), audio)
}

func TestElevenLabsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := NewElevenLabsClient("key", "voice-1", make(chan string, 1))
	require.NoError(t, err)
	c.BaseURL = srv.URL

	_, err = c.Synthesize(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "quota exceeded")

	assert.Error(t, c.Speak(context.Background(), "hello", "en-IN"))
}

func TestNewElevenLabsClientValidates(t *testing.T) {
	_, err := NewElevenLabsClient("", "voice", nil)
	assert.Error(t, err)
	_, err = NewElevenLabsClient("key", "", nil)
	assert.Error(t, err)
}

func TestLanguageCode(t *testing.T) {
	assert.Equal(t, "en", languageCode("en-IN"))
	assert.Equal(t, "hi", languageCode("hi_IN"))
	assert.Equal(t, "en", languageCode("en"))
}
