package stt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/mrsingh-rishi/riverwood-chat/logging"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const DefaultDeepgramURL = "wss://api.deepgram.com/v1/listen"

// AudioSource opens a raw audio stream for one recognition session, e.g. a
// microphone capture process.
type AudioSource func(ctx context.Context) (io.ReadCloser, error)

type transcriptionMessage struct {
	Type    string `json:"type"`
	IsFinal bool   `json:"is_final"`
	Channel struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"channel"`
}

type DeepgramClient struct {
	APIKey   string
	Endpoint string
	Model    string
	// Encoding and SampleRate describe the audio produced by Source.
	Encoding   string
	SampleRate int
	Source     AudioSource
	Dialer     *gws.Dialer
	ChunkSize  int
	log        *zap.Logger
}

func NewDeepgramClient(apiKey string, source AudioSource, log *zap.Logger) (*DeepgramClient, error) {
	if apiKey == "" {
		return nil, errors.New("deepgram API key is required")
	}
	if source == nil {
		return nil, errors.New("audio source is required")
	}
	log = logging.OrNop(log)
	return &DeepgramClient{
		APIKey:     apiKey,
		Endpoint:   DefaultDeepgramURL,
		Model:      "nova-2",
		Encoding:   "linear16",
		SampleRate: 16000,
		Source:     source,
		Dialer:     gws.DefaultDialer,
		ChunkSize:  3200,
		log:        log,
	}, nil
}

func (dg *DeepgramClient) listenURL(lang string) (string, error) {
	u, err := url.Parse(dg.Endpoint)
	if err != nil {
		return "", errors.Wrap(err, "deepgram: parse endpoint")
	}
	q := u.Query()
	q.Set("model", dg.Model)
	q.Set("encoding", dg.Encoding)
	q.Set("sample_rate", fmt.Sprint(dg.SampleRate))
	q.Set("channels", "1")
	q.Set("language", lang)
	q.Set("punctuate", "true")
	q.Set("smart_format", "true")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Recognize dials Deepgram, streams audio from Source and emits every final,
// non-empty transcript until ctx is cancelled or either side closes.
func (dg *DeepgramClient) Recognize(ctx context.Context, lang string) (<-chan Result, error) {
	endpoint, err := dg.listenURL(lang)
	if err != nil {
		return nil, err
	}
	header := http.Header{"Authorization": {fmt.Sprintf("Token %s", dg.APIKey)}}
	conn, _, err := dg.Dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		return nil, errors.Wrap(err, "deepgram: dial")
	}

	audio, err := dg.Source(ctx)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "deepgram: open audio source")
	}

	ctx, cancel := context.WithCancel(ctx)
	results := make(chan Result)

	go func() {
		<-ctx.Done()
		audio.Close()
		conn.WriteControl(gws.CloseMessage, gws.FormatCloseMessage(gws.CloseNormalClosure, ""), time.Now().Add(time.Second))
		conn.Close()
	}()

	go dg.sendAudio(ctx, conn, audio)

	go func() {
		defer close(results)
		defer cancel()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil && !gws.IsCloseError(err, gws.CloseNormalClosure) {
					dg.log.Warn("deepgram read failed", zap.Error(err))
				}
				return
			}
			res, ok := dg.parse(msg)
			if !ok {
				continue
			}
			select {
			case results <- res:
			case <-ctx.Done():
				return
			}
		}
	}()

	return results, nil
}

func (dg *DeepgramClient) sendAudio(ctx context.Context, conn *gws.Conn, audio io.Reader) {
	buf := make([]byte, dg.ChunkSize)
	for {
		n, err := audio.Read(buf)
		if n > 0 {
			if werr := conn.WriteMessage(gws.BinaryMessage, buf[:n]); werr != nil {
				if ctx.Err() == nil {
					dg.log.Warn("deepgram write failed", zap.Error(werr))
				}
				return
			}
		}
		if err != nil {
			if err != io.EOF && ctx.Err() == nil {
				dg.log.Warn("audio source read failed", zap.Error(err))
			}
			// ask Deepgram to flush the final transcript
			conn.WriteMessage(gws.TextMessage, []byte(`{"type":"CloseStream"}`))
			return
		}
	}
}

func (dg *DeepgramClient) parse(msg []byte) (Result, bool) {
	var m transcriptionMessage
	if err := json.Unmarshal(msg, &m); err != nil {
		dg.log.Debug("deepgram message ignored", zap.Error(err))
		return Result{}, false
	}
	if !m.IsFinal || len(m.Channel.Alternatives) == 0 || m.Channel.Alternatives[0].Transcript == "" {
		return Result{}, false
	}
	res := Result{Final: true}
	for _, alt := range m.Channel.Alternatives {
		res.Alternatives = append(res.Alternatives, Alternative{Transcript: alt.Transcript, Confidence: alt.Confidence})
	}
	return res, true
}
