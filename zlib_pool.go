/************************************************************************************
 *
 * corvid, a Go client library for the Discord API
 *
 * SPDX-License-Identifier: BSD-3-Clause
 *
 * Copyright 2025 the corvid authors
 *
 * Licensed under the BSD 3-Clause License.
 * See the LICENSE file for details.
 *
 ************************************************************************************/

package corvid

import (
	"bytes"
	"compress/zlib"
	"io"
	"sync"
)

// zlibSuffix is the zlib flush suffix that Discord sends at the end of
// each complete message within a zlib-stream gateway connection.
var zlibSuffix = []byte{0x00, 0x00, 0xff, 0xff}

// feedReader is a blocking io.Reader fed incrementally by Write. Unlike
// bytes.Buffer it never reports EOF while open: when its internal buffer is
// drained it blocks until more bytes arrive, which is what lets a single
// *zlib.Reader decode Discord's gateway stream across many websocket
// frames without ever being reset or recreated mid-connection.
type feedReader struct {
	mu      sync.Mutex
	cond    *sync.Cond
	buf     bytes.Buffer
	closed  bool
	drained chan struct{} // signaled (non-blocking, cap 1) each time Read finds the buffer empty
}

func newFeedReader() *feedReader {
	f := &feedReader{drained: make(chan struct{}, 1)}
	f.cond = sync.NewCond(&f.mu)
	return f
}

func (f *feedReader) Write(p []byte) {
	f.mu.Lock()
	f.buf.Write(p)
	f.cond.Broadcast()
	f.mu.Unlock()
}

func (f *feedReader) Read(p []byte) (int, error) {
	f.mu.Lock()
	for f.buf.Len() == 0 && !f.closed {
		select {
		case f.drained <- struct{}{}:
		default:
		}
		f.cond.Wait()
	}
	if f.buf.Len() == 0 && f.closed {
		f.mu.Unlock()
		return 0, io.EOF
	}
	n, _ := f.buf.Read(p)
	f.mu.Unlock()
	return n, nil
}

func (f *feedReader) Close() {
	f.mu.Lock()
	f.closed = true
	f.cond.Broadcast()
	f.mu.Unlock()
}

// gatewayInflater decompresses the single continuous zlib stream Discord
// opens for the lifetime of a `compress=zlib-stream` gateway connection.
//
// Discord's connection-level compression is one DEFLATE stream spanning
// every message sent on the socket, not one independent stream per
// message. A correct decompressor must therefore feed all inbound bytes
// through the same *zlib.Reader for the life of the connection and must
// never reset or recreate it until the connection itself is torn down;
// resetting per message (as a naive implementation might) silently
// discards the shared dictionary state and corrupts every message after
// the first.
//
// A gatewayInflater is owned exclusively by one shard's read goroutine.
type gatewayInflater struct {
	pending bytes.Buffer
	src     *feedReader
	out     chan []byte
	errCh   chan error
}

// newGatewayInflater constructs an inflater bound to a fresh connection.
// Call it once per dial; never reuse across reconnects, since Discord also
// restarts the DEFLATE stream on a fresh socket.
func newGatewayInflater() *gatewayInflater {
	g := &gatewayInflater{
		src:   newFeedReader(),
		out:   make(chan []byte, 8),
		errCh: make(chan error, 1),
	}
	go g.drain()
	return g
}

func (g *gatewayInflater) drain() {
	reader, err := zlib.NewReader(g.src)
	if err != nil {
		g.errCh <- err
		return
	}
	scratch := make([]byte, 32*1024)
	for {
		n, err := reader.Read(scratch)
		if n > 0 {
			chunk := append([]byte(nil), scratch[:n]...)
			g.out <- chunk
		}
		if err != nil {
			if err != io.EOF {
				g.errCh <- err
			}
			return
		}
	}
}

// Feed appends newly received websocket payload bytes to the stream. When
// the accumulated bytes since the last boundary end in the Discord flush
// suffix (00 00 FF FF), Feed pushes them into the decompressor and drains
// whatever output is immediately available, returning the decompressed
// message. It returns (nil, nil) when more bytes are needed before a full
// message is available.
func (g *gatewayInflater) Feed(data []byte) ([]byte, error) {
	g.pending.Write(data)

	if !bytes.HasSuffix(g.pending.Bytes(), zlibSuffix) {
		return nil, nil
	}

	g.src.Write(g.pending.Bytes())
	g.pending.Reset()

	// Discard any stale "drained" signal left over from before this Write,
	// then wait for the fresh one. The decode goroutine only calls back into
	// g.src.Read once it has exhausted everything we just wrote, so by the
	// time that signal fires every chunk decoded from this Feed's bytes has
	// already been pushed onto g.out.
	select {
	case <-g.src.drained:
	default:
	}
	select {
	case <-g.src.drained:
	case err := <-g.errCh:
		return nil, err
	}

	var out bytes.Buffer
	for {
		select {
		case chunk := <-g.out:
			out.Write(chunk)
		case err := <-g.errCh:
			return nil, err
		default:
			return out.Bytes(), nil
		}
	}
}

// Close releases the inflater's internal goroutine. Call once when the
// owning connection is torn down.
func (g *gatewayInflater) Close() {
	g.src.Close()
}

// IsZlibCompressed checks if data appears to be zlib-compressed.
// Zlib data starts with a specific header based on compression level.
func IsZlibCompressed(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	return data[0] == 0x78 && (data[1] == 0x01 || data[1] == 0x9c || data[1] == 0xda)
}

// HasZlibSuffix checks if data ends with the Discord zlib flush suffix.
func HasZlibSuffix(data []byte) bool {
	return bytes.HasSuffix(data, zlibSuffix)
}
