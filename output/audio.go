package output

import (
	"context"
	"encoding/base64"
	"io"
	"sync"

	"github.com/mrsingh-rishi/riverwood-chat/logging"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// AudioOutput decodes base64 audio chunks from a channel and writes them to an
// audio device, a file or a player's stdin.
type AudioOutput struct {
	ctx                 context.Context
	cancel              context.CancelFunc
	OutputDeviceChannel <-chan string
	w                   io.Writer
	log                 *zap.Logger
	done                chan struct{}
	once                sync.Once
}

func NewAudioOutput(w io.Writer, outputDeviceChannel <-chan string, log *zap.Logger) (*AudioOutput, error) {
	if outputDeviceChannel == nil {
		return nil, errors.New("output device channel is required")
	}
	if w == nil {
		w = io.Discard
	}
	log = logging.OrNop(log)
	ctx, cancel := context.WithCancel(context.Background())
	return &AudioOutput{
		ctx:                 ctx,
		cancel:              cancel,
		OutputDeviceChannel: outputDeviceChannel,
		w:                   w,
		log:                 log,
		done:                make(chan struct{}),
	}, nil
}

// Start consumes chunks until Stop is called or the channel is closed.
func (o *AudioOutput) Start() {
	go func() {
		defer close(o.done)
		for {
			select {
			case <-o.ctx.Done():
				o.drain()
				return
			case payload, ok := <-o.OutputDeviceChannel:
				if !ok {
					return
				}
				o.write(payload)
			}
		}
	}()
}

func (o *AudioOutput) write(payload string) {
	audio, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		o.log.Warn("audio chunk decode failed", zap.Error(err))
		return
	}
	if _, err := o.w.Write(audio); err != nil {
		o.log.Warn("audio write failed", zap.Error(err))
	}
}

// drain writes the chunks already buffered in the channel.
func (o *AudioOutput) drain() {
	for {
		select {
		case payload, ok := <-o.OutputDeviceChannel:
			if !ok {
				return
			}
			o.write(payload)
		default:
			return
		}
	}
}

// Stop writes any buffered chunks, ends the consumer loop and waits for it to
// exit.
func (o *AudioOutput) Stop() {
	o.once.Do(o.cancel)
	<-o.done
}
