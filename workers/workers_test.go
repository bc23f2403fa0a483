package workers

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestWorkerRunsInOrder(t *testing.T) {
	var mu sync.Mutex
	var seen []int
	w, err := NewRequestWorker(func(_ context.Context, n int) {
		mu.Lock()
		seen = append(seen, n)
		mu.Unlock()
	})
	require.NoError(t, err)
	w.Start()

	for i := 0; i < 20; i++ {
		assert.True(t, w.Submit(i))
	}
	w.Wait()

	mu.Lock()
	assert.Len(t, seen, 20)
	for i, n := range seen {
		assert.Equal(t, i, n)
	}
	mu.Unlock()

	w.Stop()
	assert.False(t, w.Submit(99))
	w.Stop()
}

func TestRequestWorkerStopDrainsQueue(t *testing.T) {
	var count int
	w, err := NewRequestWorker(func(_ context.Context, _ string) { count++ })
	require.NoError(t, err)

	// queued before the loop starts
	w.Submit("a")
	w.Submit("b")
	w.Start()
	w.Stop()

	assert.Equal(t, 2, count)
}

func TestNewRequestWorkerRequiresHandler(t *testing.T) {
	_, err := NewRequestWorker[int](nil)
	assert.Error(t, err)
}

type recordingSpeaker struct {
	mu    sync.Mutex
	said  []string
	langs []string
	err   error
}

func (s *recordingSpeaker) Speak(_ context.Context, text, lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.said = append(s.said, text)
	s.langs = append(s.langs, lang)
	return s.err
}

func TestSpeechWorkerSpeaksSentences(t *testing.T) {
	sp := &recordingSpeaker{}
	w, err := NewSpeechWorker(sp, "en-IN", nil)
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	w.Say("Hello there. How are you?")
	w.Say("bye")
	w.Wait()

	assert.Equal(t, []string{"Hello there.", "How are you?", "bye"}, sp.said)
	assert.Equal(t, []string{"en-IN", "en-IN", "en-IN"}, sp.langs)
}

func TestSpeechWorkerStopsTextOnError(t *testing.T) {
	sp := &recordingSpeaker{err: errors.New("no audio device")}
	w, err := NewSpeechWorker(sp, "en-IN", nil)
	require.NoError(t, err)
	w.Start()

	w.Say("One. Two.")
	w.Wait()
	w.Stop()

	assert.Equal(t, []string{"One."}, sp.said)
	w.Say("ignored")
}

func TestNewSpeechWorkerRequiresSpeaker(t *testing.T) {
	_, err := NewSpeechWorker(nil, "en-IN", nil)
	assert.Error(t, err)
}

func TestRequestWorkerWaitWhileSubmitting(t *testing.T) {
	var mu sync.Mutex
	handled := 0
	w, err := NewRequestWorker(func(_ context.Context, _ int) {
		mu.Lock()
		handled++
		mu.Unlock()
	})
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			w.Submit(i)
		}(i)
		go func() {
			defer wg.Done()
			w.Wait()
		}()
	}
	wg.Wait()
	w.Wait()

	mu.Lock()
	assert.Equal(t, 10, handled)
	mu.Unlock()
}
