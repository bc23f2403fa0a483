package workers

import (
	"context"
	"sync"

	"github.com/mrsingh-rishi/riverwood-chat/queue"
	"github.com/pkg/errors"
)

// RequestWorker runs queued items through Handle one at a time, in the order
// they were submitted.
type RequestWorker[T any] struct {
	ctx    context.Context
	cancel context.CancelFunc
	Queue  *queue.Queue[T]
	Handle func(ctx context.Context, item T)

	// mu guards pending and stopped; idle is signalled when pending drops to zero.
	mu      sync.Mutex
	idle    *sync.Cond
	pending int
	stopped bool
	done    chan struct{}
}

func NewRequestWorker[T any](handle func(ctx context.Context, item T)) (*RequestWorker[T], error) {
	if handle == nil {
		return nil, errors.New("request handler is required")
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &RequestWorker[T]{
		ctx:    ctx,
		cancel: cancel,
		Queue:  queue.New[T](),
		Handle: handle,
		done:   make(chan struct{}),
	}
	w.idle = sync.NewCond(&w.mu)
	return w, nil
}

// Submit queues item. It returns false once the worker has been stopped.
func (w *RequestWorker[T]) Submit(item T) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return false
	}
	w.pending++
	w.Queue.Enqueue(item)
	return true
}

func (w *RequestWorker[T]) Start() {
	go func() {
		defer close(w.done)
		for {
			w.drain()
			select {
			case <-w.ctx.Done():
				w.drain()
				return
			case <-w.Queue.Ready():
			}
		}
	}()
}

func (w *RequestWorker[T]) drain() {
	for {
		item, ok := w.Queue.Dequeue()
		if !ok {
			return
		}
		w.Handle(context.Background(), item)

		w.mu.Lock()
		w.pending--
		if w.pending == 0 {
			w.idle.Broadcast()
		}
		w.mu.Unlock()
	}
}

// Wait blocks until every item submitted so far has been handled. Items
// submitted while Wait is blocked extend the wait.
func (w *RequestWorker[T]) Wait() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.pending > 0 {
		w.idle.Wait()
	}
}

// Stop refuses new items, finishes the queued ones and exits the loop.
func (w *RequestWorker[T]) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.stopped = true
	w.mu.Unlock()

	w.cancel()
	<-w.done
}
