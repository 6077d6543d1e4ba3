package clipboard

import (
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

// Writer abstracts the system clipboard so tests can capture writes.
type Writer interface {
	Write(text string) error
}

// SystemWriter writes to the operating system clipboard of the machine
// running the back office.
type SystemWriter struct{}

// Write copies text to the system clipboard.
func (SystemWriter) Write(text string) error {
	return clipboard.WriteAll(text)
}

// DefaultAckDelay is how long the "copied" acknowledgement stays visible.
const DefaultAckDelay = 2 * time.Second

// Board couples a clipboard writer with the transient acknowledgement state
// the UI shows after a copy. The flag flips on immediately after a
// successful copy and auto-reverts after a fixed delay; a second copy
// restarts the window.
type Board struct {
	writer Writer
	delay  time.Duration

	mu         sync.Mutex
	copied     bool
	generation uint64
}

// NewBoard builds a Board around the given writer. A non-positive delay
// falls back to DefaultAckDelay.
func NewBoard(writer Writer, delay time.Duration) *Board {
	if delay <= 0 {
		delay = DefaultAckDelay
	}
	return &Board{writer: writer, delay: delay}
}

// Copy writes text to the clipboard and arms the acknowledgement timer.
func (b *Board) Copy(text string) error {
	if err := b.writer.Write(text); err != nil {
		return err
	}

	b.mu.Lock()
	b.copied = true
	b.generation++
	gen := b.generation
	b.mu.Unlock()

	time.AfterFunc(b.delay, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		// A later copy owns the flag now; leave it alone.
		if b.generation == gen {
			b.copied = false
		}
	})

	return nil
}

// Copied reports whether the acknowledgement window is still open.
func (b *Board) Copied() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.copied
}
