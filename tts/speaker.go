package tts

import (
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// Speaker turns text into audible speech in the given language.
type Speaker interface {
	Speak(ctx context.Context, text, lang string) error
}

// NoOp is a Speaker that says nothing. Used when no speech output is configured.
type NoOp struct{}

func (NoOp) Speak(context.Context, string, string) error { return nil }

// Command speaks through a local program, e.g. "espeak-ng" or "say". The
// language tag is passed with LangFlag when set, and the text is the last argument.
type Command struct {
	Name     string
	Args     []string
	LangFlag string
}

// NewCommand parses a command line like "espeak-ng -s 150".
func NewCommand(line string) (*Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errors.New("speech command is empty")
	}
	c := &Command{Name: fields[0], Args: fields[1:]}
	if strings.HasPrefix(fields[0], "espeak") {
		c.LangFlag = "-v"
	}
	return c, nil
}

func (c *Command) Speak(ctx context.Context, text, lang string) error {
	args := append([]string{}, c.Args...)
	if c.LangFlag != "" && lang != "" {
		args = append(args, c.LangFlag, voiceForLang(lang))
	}
	args = append(args, text)
	out, err := exec.CommandContext(ctx, c.Name, args...).CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "%s: %s", c.Name, strings.TrimSpace(string(out)))
	}
	return nil
}

// voiceForLang maps a BCP 47 tag like "en-IN" to espeak's "en-in" form.
func voiceForLang(lang string) string {
	return strings.ToLower(lang)
}
