package runner

import "sync"

// Default cap on captured child output, per unit.
const defaultTailBytes = 5 * 1024 * 1024

// tailBuffer keeps the last N bytes written to it, so a representative
// snippet of a unit's output can be attached to its result without holding
// the whole log in memory.
type tailBuffer struct {
	maxBytes int

	mu       sync.Mutex
	contents []byte
	dropped  bool
}

func newTailBuffer(maxBytes int) *tailBuffer {
	if maxBytes <= 0 {
		maxBytes = defaultTailBytes
	}
	return &tailBuffer{maxBytes: maxBytes}
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.contents = append(b.contents, p...)
	if len(b.contents) > b.maxBytes {
		b.contents = b.contents[len(b.contents)-b.maxBytes:]
		b.dropped = true
	}
	return len(p), nil
}

// Bytes returns the retained tail.
func (b *tailBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.contents
}

// String returns the retained tail, prefixed with a marker when earlier
// output was discarded.
func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dropped {
		return "[...output truncated...]\n" + string(b.contents)
	}
	return string(b.contents)
}
