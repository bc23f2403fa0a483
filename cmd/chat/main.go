package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"

	"github.com/mrsingh-rishi/riverwood-chat/chat"
	"github.com/mrsingh-rishi/riverwood-chat/config"
	"github.com/mrsingh-rishi/riverwood-chat/logging"
	"github.com/mrsingh-rishi/riverwood-chat/output"
	"github.com/mrsingh-rishi/riverwood-chat/stt"
	"github.com/mrsingh-rishi/riverwood-chat/tts"
	"github.com/mrsingh-rishi/riverwood-chat/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// defaultMicCommand records 16 kHz mono linear16 audio to stdout.
const defaultMicCommand = "arecord -q -f S16_LE -r 16000 -c 1 -t raw"

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newRootCmd(config.LoadClient()).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Client) *cobra.Command {
	var micCommand string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the Riverwood assistant from the terminal",
		Long: `Type a message and press Enter to send it. Type /voice to speak instead
and /quit to leave.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg, micCommand, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "chat backend base URL")
	flags.StringVar(&cfg.Lang, "lang", cfg.Lang, "spoken-language tag for speech in and out")
	flags.StringVar(&cfg.TTSCommand, "tts-command", cfg.TTSCommand, "local speech command, e.g. espeak-ng")
	flags.StringVar(&cfg.AudioOut, "audio-out", cfg.AudioOut, "file that receives ElevenLabs audio")
	flags.StringVar(&cfg.VoiceInput, "voice-input", cfg.VoiceInput, "file or fifo of recognized utterances, one per line")
	flags.StringVar(&micCommand, "mic-command", defaultMicCommand, "command that streams raw microphone audio to stdout")
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "verbose logging")
	return cmd
}

func run(ctx context.Context, cfg config.Client, micCommand string, in io.Reader, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	defer logger.Sync()

	speaker, cleanup, err := buildSpeaker(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	recognizer, closeRecognizer, err := buildRecognizer(cfg, micCommand, logger)
	if err != nil {
		return err
	}
	defer closeRecognizer()

	view := ui.NewTerminal(out)
	client, err := chat.New(view, chat.NewHTTPEndpoint(cfg.Endpoint), speaker, recognizer,
		chat.WithLang(cfg.Lang),
		chat.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer client.Close()

	logger.Debug("chat client ready", zap.String("endpoint", cfg.Endpoint), zap.String("lang", cfg.Lang))
	return view.Run(ctx, in)
}

// buildSpeaker prefers ElevenLabs, then a local speech command, then silence.
func buildSpeaker(cfg config.Client, logger *zap.Logger) (tts.Speaker, func(), error) {
	switch {
	case cfg.ElevenAPIKey != "":
		w := io.Discard
		var file *os.File
		if cfg.AudioOut != "" {
			f, err := os.Create(cfg.AudioOut)
			if err != nil {
				return nil, nil, errors.Wrap(err, "open audio output")
			}
			file, w = f, f
		}
		chunks := make(chan string, 64)
		eleven, err := tts.NewElevenLabsClient(cfg.ElevenAPIKey, cfg.VoiceID, chunks)
		if err != nil {
			return nil, nil, err
		}
		sink, err := output.NewAudioOutput(w, chunks, logger)
		if err != nil {
			return nil, nil, err
		}
		sink.Start()
		return eleven, func() {
			sink.Stop()
			if file != nil {
				file.Close()
			}
		}, nil
	case cfg.TTSCommand != "":
		c, err := tts.NewCommand(cfg.TTSCommand)
		if err != nil {
			return nil, nil, err
		}
		return c, func() {}, nil
	default:
		return tts.NoOp{}, func() {}, nil
	}
}

// buildRecognizer uses Deepgram with a microphone command when a key is set,
// then a file of recognized lines. Without either, /voice reports that voice
// input is not configured.
func buildRecognizer(cfg config.Client, micCommand string, logger *zap.Logger) (stt.Recognizer, func(), error) {
	switch {
	case cfg.DeepgramAPIKey != "":
		fields := strings.Fields(micCommand)
		if len(fields) == 0 {
			return nil, nil, errors.New("mic command is empty")
		}
		source := func(ctx context.Context) (io.ReadCloser, error) {
			mic, err := startMic(ctx, fields)
			if err != nil {
				return nil, err
			}
			return mic, nil
		}
		dg, err := stt.NewDeepgramClient(cfg.DeepgramAPIKey, source, logger)
		if err != nil {
			return nil, nil, err
		}
		return dg, func() {}, nil
	case cfg.VoiceInput != "":
		f, err := os.Open(cfg.VoiceInput)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open voice input")
		}
		return stt.NewLines(f), func() { f.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}

// micStream is the stdout of a running capture process.
type micStream struct {
	io.ReadCloser
	cmd *exec.Cmd
}

func startMic(ctx context.Context, fields []string) (*micStream, error) {
	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "mic stdout")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "start %s", fields[0])
	}
	return &micStream{ReadCloser: stdout, cmd: cmd}, nil
}

// Close stops the capture process and reaps it.
func (m *micStream) Close() error {
	if m.cmd.Process != nil {
		m.cmd.Process.Kill()
	}
	return m.cmd.Wait()
}
