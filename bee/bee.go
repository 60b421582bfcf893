// Package bee implements the streaming capture engine (spec.md 4.F): a
// background producer goroutine that pulls packets from a capture.Source,
// parses them into beefi.BfaData, and pushes results onto a bounded,
// drop-oldest queue that the caller drains with a non-blocking Poll.
package bee

import (
	"errors"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nzqo/beefi"
	"github.com/nzqo/beefi/capture"
)

// state is the engine's lifecycle, per spec.md 5: only Running -> Stopping
// -> Stopped transitions are allowed, and they are monotonic.
type state int32

const (
	stateRunning state = iota
	stateStopping
	stateStopped
)

// shutdownTimeout bounds how long Stop waits for the producer goroutine to
// exit before giving up and marking the engine stopped anyway.
const shutdownTimeout = 5 * time.Second

// Config bundles the streaming engine's configuration options (spec.md 6).
type Config struct {
	QueueSize int
	Capture   capture.Config
}

// DefaultConfig matches the defaults listed in spec.md 6.
func DefaultConfig() Config {
	return Config{
		QueueSize: 1000,
		Capture:   capture.DefaultConfig(),
	}
}

// Bee is the streaming capture engine. Construction spawns one background
// producer goroutine bound to source; the caller drains results with Poll
// and releases everything with Stop.
type Bee struct {
	source capture.Source
	queue  *boundedQueue[beefi.BfaData]

	state    atomic.Int32
	done     chan struct{}
	stopOnce sync.Once

	// observability counters, per spec.md 7: the streaming engine never
	// surfaces per-packet parse errors, only counts them.
	parseErrors atomic.Int64
}

// New constructs a Bee bound to source and immediately starts its producer
// goroutine.
func New(source capture.Source, cfg Config) *Bee {
	b := &Bee{
		source: source,
		queue:  newBoundedQueue[beefi.BfaData](cfg.QueueSize),
		done:   make(chan struct{}),
	}
	b.state.Store(int32(stateRunning))

	go b.produce()

	return b
}

// produce is the background producer loop (spec.md 4.F "Producer loop").
func (b *Bee) produce() {
	defer close(b.done)

	for {
		ts, data, err := b.source.Next()
		if err != nil {
			// EndOfStream or IoError: mark the stream closed and exit.
			if !errors.Is(err, io.EOF) {
				log.Printf("beefi: capture source error, stopping: %v", err)
			}
			return
		}

		parsed, err := beefi.ParsePacket(data, ts)
		if err != nil {
			if errors.Is(err, beefi.ErrNotFeedback) {
				continue // silently discard, not an error
			}
			b.parseErrors.Add(1)
			continue
		}

		b.queue.pushDropOldest(parsed)
	}
}

// Poll is a non-blocking dequeue: it returns (zero, false) when the queue
// is empty, including after Stop has drained it.
func (b *Bee) Poll() (beefi.BfaData, bool) {
	return b.queue.tryPop()
}

// Stop is idempotent: it signals the source to close, joins the producer
// goroutine within shutdownTimeout, and marks the engine Stopped. It is
// safe to call Stop multiple times or from multiple goroutines.
func (b *Bee) Stop() {
	b.stopOnce.Do(func() {
		b.state.Store(int32(stateStopping))

		if err := b.source.Close(); err != nil {
			log.Printf("beefi: error closing capture source: %v", err)
		}

		select {
		case <-b.done:
		case <-time.After(shutdownTimeout):
			log.Printf("beefi: producer goroutine did not exit within %s", shutdownTimeout)
		}

		b.state.Store(int32(stateStopped))
	})
}

// State reports the engine's current lifecycle state, mainly for tests and
// diagnostics.
func (b *Bee) State() string {
	switch state(b.state.Load()) {
	case stateRunning:
		return "Running"
	case stateStopping:
		return "Stopping"
	case stateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// QueueLen returns the number of results currently buffered, mainly for
// tests and diagnostics.
func (b *Bee) QueueLen() int {
	return b.queue.len()
}

// DroppedCount returns the running count of drop-oldest evictions.
func (b *Bee) DroppedCount() int {
	return b.queue.droppedCount()
}

// ParseErrorCount returns the running count of non-NotFeedback parse
// failures observed by the producer.
func (b *Bee) ParseErrorCount() int64 {
	return b.parseErrors.Load()
}
