// Package capture is the live packet source leaf. The core consumes only a
// callback-style source; this implementation frames packets off a TCP
// listener (length-prefixed), stamps them with system monotonic
// nanoseconds, and hands them to the runtime's emit callback. Swapping in
// a pcap- or XDP-backed source only requires the same callback shape.
package capture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"net/netip"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vakthund/vakthund/core"
)

// acceptPollInterval bounds how long a blocked Accept/Read waits before
// re-checking the terminate flag.
const acceptPollInterval = 100 * time.Millisecond

// maxFrameSize rejects frames whose declared length is implausible for an
// IoT packet.
const maxFrameSize = 64 * 1024

// Options configures a capture run.
type Options struct {
	// Address the framing listener binds, e.g. "127.0.0.1:7700".
	Address string

	// BufferSize caps the length of a frame accepted on a connection; the
	// cap never exceeds 64 KiB.
	BufferSize int
}

// ReadFrame reads one length-prefixed frame (2-byte big-endian length,
// then payload) from r. Returns io.EOF cleanly at end of stream.
func ReadFrame(r io.Reader, max int) ([]byte, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	n := int(binary.BigEndian.Uint16(hdr[:]))
	if n == 0 || n > max {
		return nil, fmt.Errorf("capture: frame length %d out of range", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Run accepts framed packet streams on opts.Address and emits one Event
// per frame until stopping reports true. Events are stamped with system
// monotonic nanoseconds — never the virtual clock — and tagged with the
// connection's endpoints.
func Run(opts Options, stopping func() bool, emit func(core.Event)) error {
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1 << 20
	}

	ln, err := net.Listen("tcp", opts.Address)
	if err != nil {
		return fmt.Errorf("capture: listening on %s: %w", opts.Address, err)
	}
	defer ln.Close()
	logrus.Infof("Capture listening on %s", ln.Addr())

	start := time.Now()
	for !stopping() {
		if tl, ok := ln.(*net.TCPListener); ok {
			if err := tl.SetDeadline(time.Now().Add(acceptPollInterval)); err != nil {
				return fmt.Errorf("capture: setting accept deadline: %w", err)
			}
		}
		conn, err := ln.Accept()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return fmt.Errorf("capture: accept: %w", err)
		}
		serveConn(conn, opts.BufferSize, start, stopping, emit)
	}
	return nil
}

// serveConn frames events off one connection until EOF or termination.
// Connections are handled serially: the capture loop is the single
// producer of its bus and must not fan out.
func serveConn(conn net.Conn, bufferSize int, start time.Time, stopping func() bool, emit func(core.Event)) {
	defer conn.Close()

	src := addrPortOf(conn.RemoteAddr())
	dst := addrPortOf(conn.LocalAddr())

	for !stopping() {
		if err := conn.SetReadDeadline(time.Now().Add(acceptPollInterval)); err != nil {
			return
		}
		frame, err := ReadFrame(conn, min(bufferSize, maxFrameSize))
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			if !errors.Is(err, io.EOF) {
				logrus.Debugf("Capture stream ended: %v", err)
			}
			return
		}
		// Monotonic nanoseconds since capture start, matching the virtual
		// clock's shape without ever mixing the two time sources.
		ts := uint64(time.Since(start).Nanoseconds())
		emit(core.NewNetworkEvent(ts, frame, src, dst))
	}
}

func addrPortOf(a net.Addr) netip.AddrPort {
	if tcp, ok := a.(*net.TCPAddr); ok {
		return tcp.AddrPort()
	}
	return netip.AddrPort{}
}
