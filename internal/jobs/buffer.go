package jobs

import "sync"

// lineBuffer carries raw diagnostic chunks from the monitoring goroutine to
// the polling side. Appends never block; Drain hands back everything buffered
// so far in FIFO order and resets the buffer.
type lineBuffer struct {
	mu     sync.Mutex
	chunks []string
}

func (b *lineBuffer) Append(chunk string) {
	if chunk == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chunks = append(b.chunks, chunk)
}

func (b *lineBuffer) Drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.chunks) == 0 {
		return nil
	}
	drained := b.chunks
	b.chunks = nil
	return drained
}
