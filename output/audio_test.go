package output

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudioOutputWritesDecodedChunks(t *testing.T) {
	var buf bytes.Buffer
	ch := make(chan string, 3)
	out, err := NewAudioOutput(&buf, ch, nil)
	require.NoError(t, err)
	out.Start()

	ch <- base64.StdEncoding.EncodeToString([]byte("abc"))
	ch <- "%%% not base64"
	ch <- base64.StdEncoding.EncodeToString([]byte("def"))
	close(ch)

	out.Stop()
	assert.Equal(t, "abcdef", buf.String())
}

func TestAudioOutputStopWritesBufferedChunks(t *testing.T) {
	var buf bytes.Buffer
	ch := make(chan string, 64)
	for i := 0; i < 64; i++ {
		ch <- base64.StdEncoding.EncodeToString([]byte{byte(i)})
	}

	out, err := NewAudioOutput(&buf, ch, nil)
	require.NoError(t, err)
	out.Start()
	out.Stop()

	require.Equal(t, 64, buf.Len())
	for i, b := range buf.Bytes() {
		assert.Equal(t, byte(i), b)
	}
}

func TestAudioOutputStop(t *testing.T) {
	ch := make(chan string)
	out, err := NewAudioOutput(nil, ch, nil)
	require.NoError(t, err)
	out.Start()
	out.Stop()
	out.Stop()
}

func TestNewAudioOutputRequiresChannel(t *testing.T) {
	_, err := NewAudioOutput(nil, nil, nil)
	assert.Error(t, err)
}
