// Package capture provides the packet-capture collaborator spec.md 4.E
// names: a Source abstraction with a Live (interface) and a File variant,
// both backed by gopacket/pcap.
package capture

import (
	"fmt"
	"io"
	"time"

	"github.com/google/gopacket/pcap"
)

// Source is the contract the streaming engine and batch extractor require
// from a packet source. Next blocks until a packet is available; it
// returns io.EOF once the source is exhausted (file fully read, or Close
// called concurrently), and any other error is an IO failure.
//
// Close is idempotent and unblocks any concurrent Next with io.EOF.
type Source interface {
	Next() (timestamp time.Time, data []byte, err error)
	Close() error
}

// Config bundles the capture knobs spec.md 6 exposes for the Live variant.
// PcapBuffer selects kernel-batched delivery (true) versus immediate
// per-packet delivery (false); SnapLen and BufSize are the usual pcap
// snapshot length and kernel ring buffer size.
type Config struct {
	PcapBuffer bool
	SnapLen    int
	BufSize    int
}

// DefaultConfig matches the defaults listed in spec.md 6.
func DefaultConfig() Config {
	return Config{
		PcapBuffer: false,
		SnapLen:    4096,
		BufSize:    1_000_000,
	}
}

// Live opens a NIC in promiscuous, monitor-capable mode for live capture.
type Live struct {
	handle *pcap.Handle
}

// NewLive opens iface for live capture per cfg. It enables monitor mode and
// promiscuous mode, and honors cfg.PcapBuffer by requesting immediate
// delivery when false (the spec.md 6 default) or leaving kernel batching
// enabled when true.
func NewLive(iface string, cfg Config) (*Live, error) {
	inactive, err := pcap.NewInactiveHandle(iface)
	if err != nil {
		return nil, fmt.Errorf("beefi: opening interface %q: %w", iface, err)
	}
	defer inactive.CleanUp()

	if err := inactive.SetSnapLen(cfg.SnapLen); err != nil {
		return nil, err
	}
	if err := inactive.SetPromisc(true); err != nil {
		return nil, err
	}
	if err := inactive.SetRFMon(true); err != nil {
		// Not every driver supports monitor mode; fall back to promiscuous
		// capture rather than failing outright.
		_ = err
	}
	if err := inactive.SetBufferSize(cfg.BufSize); err != nil {
		return nil, err
	}
	if err := inactive.SetImmediateMode(!cfg.PcapBuffer); err != nil {
		return nil, err
	}
	inactive.SetTimeout(pcap.BlockForever)

	handle, err := inactive.Activate()
	if err != nil {
		return nil, fmt.Errorf("beefi: activating interface %q: %w", iface, err)
	}

	return &Live{handle: handle}, nil
}

// Next blocks for the next packet on the interface.
func (l *Live) Next() (time.Time, []byte, error) {
	data, ci, err := l.handle.ZeroCopyReadPacketData()
	if err != nil {
		if err == pcap.NextErrorNoMorePackets {
			return time.Time{}, nil, io.EOF
		}
		return time.Time{}, nil, err
	}
	// ZeroCopyReadPacketData's buffer is reused on the next call, so copy it
	// out before handing it to the caller.
	cp := make([]byte, len(data))
	copy(cp, data)
	return ci.Timestamp, cp, nil
}

// Close shuts the interface down. Calling Close concurrently with Next
// unblocks Next with io.EOF, per the pcap handle's own documented behaviour.
func (l *Live) Close() error {
	l.handle.Close()
	return nil
}

// File reads frames from a capture file, preserving recorded timestamps.
type File struct {
	handle *pcap.Handle
}

// NewFile opens path for offline replay.
func NewFile(path string) (*File, error) {
	handle, err := pcap.OpenOffline(path)
	if err != nil {
		return nil, fmt.Errorf("beefi: opening capture file %q: %w", path, err)
	}
	return &File{handle: handle}, nil
}

// Next returns the next recorded packet, or io.EOF once the file is
// exhausted.
func (f *File) Next() (time.Time, []byte, error) {
	data, ci, err := f.handle.ZeroCopyReadPacketData()
	if err != nil {
		if err == io.EOF || err == pcap.NextErrorNoMorePackets {
			return time.Time{}, nil, io.EOF
		}
		return time.Time{}, nil, err
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return ci.Timestamp, cp, nil
}

// Close releases the underlying file handle. Idempotent.
func (f *File) Close() error {
	if f.handle == nil {
		return nil
	}
	f.handle.Close()
	f.handle = nil
	return nil
}
