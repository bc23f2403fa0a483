package main

import (
	"log"

	"github.com/mrsingh-rishi/riverwood-chat/config"
	"github.com/mrsingh-rishi/riverwood-chat/llm"
	"github.com/mrsingh-rishi/riverwood-chat/logging"
	"github.com/mrsingh-rishi/riverwood-chat/server"
	"github.com/mrsingh-rishi/riverwood-chat/tts"
	"go.uber.org/zap"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(false)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	replier, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.Model)
	if err != nil {
		logger.Fatal("init openai client", zap.Error(err))
	}

	var synthesizer server.Synthesizer
	if cfg.ElevenAPIKey != "" {
		eleven, err := tts.NewElevenLabsClient(cfg.ElevenAPIKey, cfg.VoiceID, nil)
		if err != nil {
			logger.Fatal("init elevenlabs client", zap.Error(err))
		}
		synthesizer = eleven
	} else {
		logger.Warn("ELEVEN_API_KEY not set, replies will carry no audio")
	}

	app := server.New(replier, synthesizer, logger).App()

	addr := ":" + cfg.Port
	logger.Info("riverwood backend listening", zap.String("addr", addr), zap.String("model", cfg.Model))
	if err := app.Listen(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
