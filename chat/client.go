// Package chat wires the chat view to the remote endpoint and to speech
// input and output.
package chat

import (
	"context"
	"strings"

	"github.com/mrsingh-rishi/riverwood-chat/config"
	"github.com/mrsingh-rishi/riverwood-chat/logging"
	"github.com/mrsingh-rishi/riverwood-chat/model"
	"github.com/mrsingh-rishi/riverwood-chat/stt"
	"github.com/mrsingh-rishi/riverwood-chat/tts"
	"github.com/mrsingh-rishi/riverwood-chat/ui"
	"github.com/mrsingh-rishi/riverwood-chat/workers"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrNoRecognizer is returned by CaptureVoice when no recognizer is configured.
var ErrNoRecognizer = errors.New("voice input is not configured")

// ErrClosed is returned by CaptureVoice after Close.
var ErrClosed = errors.New("chat client is closed")

type Option func(*Client)

// WithLang sets the spoken-language tag for speech input and output.
func WithLang(lang string) Option {
	return func(c *Client) { c.lang = lang }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = logging.OrNop(log) }
}

// Client mediates between the view, the chat endpoint and speech I/O.
// Submissions are sent one at a time in submission order; input is never
// blocked while a request is in flight.
type Client struct {
	view       ui.View
	endpoint   Endpoint
	recognizer stt.Recognizer
	lang       string
	log        *zap.Logger

	requests *workers.RequestWorker[string]
	speech   *workers.SpeechWorker

	// ctx lives until Close; voice sessions end with it.
	ctx    context.Context
	cancel context.CancelFunc
}

// New builds a client and registers its handlers on view. A nil speaker
// disables speech output and a nil recognizer disables voice input.
func New(view ui.View, endpoint Endpoint, speaker tts.Speaker, recognizer stt.Recognizer, opts ...Option) (*Client, error) {
	if view == nil {
		return nil, errors.New("view is required")
	}
	if endpoint == nil {
		return nil, errors.New("endpoint is required")
	}
	if speaker == nil {
		speaker = tts.NoOp{}
	}

	c := &Client{
		view:       view,
		endpoint:   endpoint,
		recognizer: recognizer,
		lang:       config.DefaultLang,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	requests, err := workers.NewRequestWorker(c.send)
	if err != nil {
		return nil, err
	}
	speech, err := workers.NewSpeechWorker(speaker, c.lang, c.log)
	if err != nil {
		return nil, err
	}
	c.requests = requests
	c.speech = speech
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.requests.Start()
	c.speech.Start()

	view.OnSubmit(func() { c.Submit(view.Input()) })
	view.OnVoice(func() {
		if err := c.CaptureVoice(c.ctx); err != nil {
			c.log.Warn("voice capture failed", zap.Error(err))
		}
	})
	return c, nil
}

// Submit shows text as a user entry and queues it for the endpoint. Empty or
// whitespace-only text is ignored.
func (c *Client) Submit(text string) {
	message := strings.TrimSpace(text)
	if message == "" {
		return
	}
	c.view.Append(model.Entry{Sender: model.SenderUser, Text: message})
	c.view.SetInput("")

	if !c.requests.Submit(message) {
		c.log.Warn("chat client closed, message not sent")
		return
	}
	c.log.Debug("message queued", zap.Int("queued", c.requests.Queue.Len()))
}

func (c *Client) send(ctx context.Context, message string) {
	resp, err := c.endpoint.Send(ctx, message)
	if err != nil {
		c.log.Error("chat request failed", zap.Error(err))
		c.view.Append(model.Entry{Sender: model.SenderError, Text: model.ConnectErrorText})
		return
	}

	reply := resp.Reply
	if reply == "" {
		if resp.Error != "" {
			c.log.Warn("backend reported an error", zap.String("error", resp.Error))
		}
		reply = model.PlaceholderReply
	}
	c.view.Append(model.Entry{Sender: model.SenderAgent, Text: reply})
	c.Speak(reply)
}

// Speak queues text for speech output and returns immediately.
func (c *Client) Speak(text string) {
	c.speech.Say(text)
}

// CaptureVoice starts one recognition session and returns. The top transcript
// of the first result replaces the pending input and is submitted; the
// session is then ended. The session also ends when ctx is done or the client
// is closed.
func (c *Client) CaptureVoice(ctx context.Context) error {
	if c.recognizer == nil {
		return ErrNoRecognizer
	}
	if c.ctx.Err() != nil {
		return ErrClosed
	}
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.ctx, cancel)
	results, err := c.recognizer.Recognize(ctx, c.lang)
	if err != nil {
		stop()
		cancel()
		return errors.Wrap(err, "start voice capture")
	}

	go func() {
		defer stop()
		defer cancel()
		var res stt.Result
		var ok bool
		select {
		case res, ok = <-results:
		case <-ctx.Done():
			c.log.Debug("voice capture cancelled")
			return
		}
		if !ok {
			c.log.Debug("voice capture ended without a result")
			return
		}
		text := res.Top()
		c.view.SetInput(text)
		c.Submit(text)
	}()
	return nil
}

// Wait blocks until queued requests and the speech they trigger are done.
func (c *Client) Wait() {
	c.requests.Wait()
	c.speech.Wait()
}

// Close ends any voice session, finishes queued requests and speech, then
// stops the workers.
func (c *Client) Close() {
	c.cancel()
	c.requests.Stop()
	c.speech.Stop()
}
