package tts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSentences(t *testing.T) {
	assert.Equal(t,
		[]string{"Hello there.", "How are you?", "Fine"},
		SplitSentences("Hello there. How are you? Fine"))
	assert.Empty(t, SplitSentences("   "))
	assert.Equal(t, []string{"Wow!"}, SplitSentences("Wow!"))
}

func TestNewCommand(t *testing.T) {
	c, err := NewCommand("espeak-ng -s 150")
	require.NoError(t, err)
	assert.Equal(t, "espeak-ng", c.Name)
	assert.Equal(t, []string{"-s", "150"}, c.Args)
	assert.Equal(t, "-v", c.LangFlag)

	c, err = NewCommand("say")
	require.NoError(t, err)
	assert.Empty(t, c.LangFlag)

	_, err = NewCommand("  ")
	assert.Error(t, err)
}

func TestCommandMissingBinary(t *testing.T) {
	c := &Command{Name: "riverwood-no-such-speech-binary"}
	assert.Error(t, c.Speak(context.Background(), "hello", "en-IN"))
}

func TestNoOp(t *testing.T) {
	assert.NoError(t, NoOp{}.Speak(context.Background(), "hello", "en-IN"))
}
