package workers

import (
	"context"

	"github.com/mrsingh-rishi/riverwood-chat/logging"
	"github.com/mrsingh-rishi/riverwood-chat/tts"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SpeechWorker speaks texts sentence by sentence, one text at a time in the
// order they were queued.
type SpeechWorker struct {
	*RequestWorker[string]
	Speaker tts.Speaker
	Lang    string
	log     *zap.Logger
}

func NewSpeechWorker(speaker tts.Speaker, lang string, log *zap.Logger) (*SpeechWorker, error) {
	if speaker == nil {
		return nil, errors.New("speaker is required")
	}
	log = logging.OrNop(log)
	w := &SpeechWorker{Speaker: speaker, Lang: lang, log: log}
	rw, err := NewRequestWorker(w.speak)
	if err != nil {
		return nil, err
	}
	w.RequestWorker = rw
	return w, nil
}

// Say queues text without waiting for it to be spoken.
func (w *SpeechWorker) Say(text string) {
	if !w.Submit(text) {
		w.log.Debug("speech dropped after stop", zap.String("text", text))
	}
}

func (w *SpeechWorker) speak(ctx context.Context, text string) {
	for _, sentence := range tts.SplitSentences(text) {
		if err := w.Speaker.Speak(ctx, sentence, w.Lang); err != nil {
			w.log.Warn("speech output failed", zap.Error(err))
			return
		}
	}
}
