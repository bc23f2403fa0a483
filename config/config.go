package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	DefaultEndpoint = "https://riverwood-ai-agent.onrender.com"
	DefaultLang     = "en-IN"
	DefaultVoiceID  = "21m00Tcm4TlvDq8ikWAM"
	DefaultModel    = "gpt-4o-mini"
	DefaultPort     = "8000"
)

// Client configures the terminal chat client.
type Client struct {
	Endpoint       string
	Lang           string
	ElevenAPIKey   string
	VoiceID        string
	DeepgramAPIKey string
	// TTSCommand is a local speech command such as "espeak-ng".
	TTSCommand string
	// VoiceInput is a file or fifo of recognized utterances, one per line.
	VoiceInput string
	// AudioOut is where ElevenLabs audio is written; empty discards it.
	AudioOut string
	Debug    bool
}

// Server configures the /chat backend.
type Server struct {
	Port         string
	OpenAIAPIKey string
	ElevenAPIKey string
	VoiceID      string
	Model        string
}

// LoadDotEnv loads .env when present. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "load .env")
	}
	return nil
}

// LoadClient reads the client configuration from the environment.
func LoadClient() Client {
	return Client{
		Endpoint:       getenv("CHAT_ENDPOINT", DefaultEndpoint),
		Lang:           getenv("SPEECH_LANG", DefaultLang),
		ElevenAPIKey:   os.Getenv("ELEVEN_API_KEY"),
		VoiceID:        getenv("VOICE_ID", DefaultVoiceID),
		DeepgramAPIKey: os.Getenv("DEEPGRAM_API_KEY"),
		TTSCommand:     os.Getenv("TTS_COMMAND"),
		VoiceInput:     os.Getenv("VOICE_INPUT"),
		AudioOut:       os.Getenv("AUDIO_OUT"),
		Debug:          os.Getenv("DEBUG") != "",
	}
}

// LoadServer reads the backend configuration from the environment.
func LoadServer() (Server, error) {
	cfg := Server{
		Port:         getenv("PORT", DefaultPort),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		ElevenAPIKey: os.Getenv("ELEVEN_API_KEY"),
		VoiceID:      getenv("VOICE_ID", DefaultVoiceID),
		Model:        getenv("OPENAI_MODEL", DefaultModel),
	}
	if cfg.OpenAIAPIKey == "" {
		return cfg, errors.New("OPENAI_API_KEY must be set")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
