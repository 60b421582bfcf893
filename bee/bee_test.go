package bee

import (
	"io"
	"sync"
	"testing"
	"time"
)

// buildBfiPacket constructs a minimal, valid VHT Compressed Beamforming
// frame (20MHz, SU, Nr=2, Nc=1, codebook=0, all-zero angles) carrying the
// given sounding dialog token, so the engine's producer can successfully
// parse it end to end.
func buildBfiPacket(token int) []byte {
	const (
		rtLen     = 8
		hdrLen    = 24
		mimoLen   = 6
		snrLen    = 2
		anglesLen = 39 // 52 subcarriers * (4+2 bits) / 8
	)
	buf := make([]byte, rtLen+hdrLen+mimoLen+2+snrLen+anglesLen)

	buf[2] = rtLen    // radiotap header length, little-endian
	buf[rtLen] = 0xD0 // management/action frame control

	mimoStart := rtLen + hdrLen + 2
	buf[mimoStart] = 0x08               // nrIndex=1 (Nr=2) at bits 3-5
	buf[mimoStart+5] = byte(token << 2) // token occupies bits 2-7 of byte 5

	buf[rtLen+hdrLen] = 21  // category VHT
	buf[rtLen+hdrLen+1] = 0 // action: compressed beamforming

	return buf
}

// fakeSource is a capture.Source that replays a fixed packet list and then
// blocks until closed, mimicking a live interface with no further traffic.
type fakeSource struct {
	mu      sync.Mutex
	packets [][]byte
	idx     int

	blocked   chan struct{}
	blockOnce sync.Once
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeSource(packets [][]byte) *fakeSource {
	return &fakeSource{
		packets: packets,
		blocked: make(chan struct{}),
		closed:  make(chan struct{}),
	}
}

func (f *fakeSource) Next() (time.Time, []byte, error) {
	f.mu.Lock()
	if f.idx < len(f.packets) {
		p := f.packets[f.idx]
		f.idx++
		f.mu.Unlock()
		return time.Now(), p, nil
	}
	f.mu.Unlock()

	f.blockOnce.Do(func() { close(f.blocked) })
	<-f.closed
	return time.Time{}, nil, io.EOF
}

func (f *fakeSource) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func TestEngineDropOldestPreservesFIFO(t *testing.T) {
	packets := make([][]byte, 10)
	for i := range packets {
		packets[i] = buildBfiPacket(i)
	}
	src := newFakeSource(packets)

	engine := New(src, Config{QueueSize: 4})
	defer engine.Stop()

	select {
	case <-src.blocked:
	case <-time.After(2 * time.Second):
		t.Fatal("producer never drained all packets")
	}

	var tokens []int
	for i := 0; i < 4; i++ {
		frame, ok := engine.Poll()
		if !ok {
			t.Fatalf("poll %d: expected a frame", i)
		}
		tokens = append(tokens, frame.TokenNumber)
	}

	if _, ok := engine.Poll(); ok {
		t.Fatal("expected queue to be empty after draining 4")
	}

	want := []int{6, 7, 8, 9}
	for i, w := range want {
		if tokens[i] != w {
			t.Errorf("token[%d] = %d, want %d", i, tokens[i], w)
		}
	}

	if got := engine.DroppedCount(); got != 6 {
		t.Errorf("DroppedCount() = %d, want 6", got)
	}
}

func TestEngineStopIsIdempotent(t *testing.T) {
	src := newFakeSource(nil)
	engine := New(src, DefaultConfig())

	select {
	case <-src.blocked:
	case <-time.After(2 * time.Second):
		t.Fatal("producer never reached blocking state")
	}

	engine.Stop()
	engine.Stop()

	if got := engine.State(); got != "Stopped" {
		t.Errorf("State() = %q, want Stopped", got)
	}
	if _, ok := engine.Poll(); ok {
		t.Fatal("expected no frames after stop")
	}
}

func TestEngineSkipsNonFeedbackFrames(t *testing.T) {
	garbage := make([]byte, 40)
	garbage[2] = 8 // radiotap length, then a frame control that isn't Action
	src := newFakeSource([][]byte{garbage})

	engine := New(src, DefaultConfig())
	defer engine.Stop()

	select {
	case <-src.blocked:
	case <-time.After(2 * time.Second):
		t.Fatal("producer never drained the packet")
	}

	if got := engine.QueueLen(); got != 0 {
		t.Errorf("QueueLen() = %d, want 0", got)
	}
}
