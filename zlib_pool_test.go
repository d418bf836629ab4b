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
	"testing"
	"time"
)

func compressAll(t *testing.T, chunks ...string) [][]byte {
	t.Helper()

	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)

	var frames [][]byte
	for _, chunk := range chunks {
		start := buf.Len()
		if _, err := w.Write([]byte(chunk)); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := w.Flush(); err != nil {
			t.Fatalf("flush: %v", err)
		}
		frames = append(frames, append([]byte(nil), buf.Bytes()[start:]...))
	}
	w.Close()

	return frames
}

func TestGatewayInflater_SingleMessage(t *testing.T) {
	frames := compressAll(t, `{"op":10}`)

	g := newGatewayInflater()
	defer g.Close()

	out, err := g.Feed(frames[0])
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if string(out) != `{"op":10}` {
		t.Errorf("expected decompressed payload to match, got %q", out)
	}
}

func TestGatewayInflater_MultipleMessagesSameStream(t *testing.T) {
	frames := compressAll(t, `{"op":10}`, `{"op":1}`, `{"op":11}`)

	g := newGatewayInflater()
	defer g.Close()

	want := []string{`{"op":10}`, `{"op":1}`, `{"op":11}`}
	for i, frame := range frames {
		out, err := g.Feed(frame)
		if err != nil {
			t.Fatalf("Feed message %d: %v", i, err)
		}
		if string(out) != want[i] {
			t.Errorf("message %d: expected %q got %q", i, want[i], out)
		}
	}
}

func TestGatewayInflater_PartialFrameReturnsNil(t *testing.T) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write([]byte(`{"op":10}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	w.Flush()

	full := buf.Bytes()
	if len(full) < 4 {
		t.Fatalf("compressed payload too small for split test")
	}
	split := len(full) - 2

	g := newGatewayInflater()
	defer g.Close()

	out, err := g.Feed(full[:split])
	if err != nil {
		t.Fatalf("Feed (partial): %v", err)
	}
	if out != nil {
		t.Errorf("expected nil output before the zlib flush suffix arrives, got %q", out)
	}

	out, err = g.Feed(full[split:])
	if err != nil {
		t.Fatalf("Feed (remainder): %v", err)
	}
	if string(out) != `{"op":10}` {
		t.Errorf("expected completed payload, got %q", out)
	}
}

func TestFeedReader_BlocksUntilWritten(t *testing.T) {
	f := newFeedReader()

	done := make(chan struct{})
	var n int
	var err error
	buf := make([]byte, 4)

	go func() {
		n, err = f.Read(buf)
		close(done)
	}()

	select {
	case <-done:
		t.Fatalf("Read returned before any data was written")
	case <-time.After(50 * time.Millisecond):
	}

	f.Write([]byte("ping"))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Read did not unblock after Write")
	}

	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if n != 4 || string(buf) != "ping" {
		t.Errorf("expected to read 'ping', got %q (n=%d)", buf[:n], n)
	}
}

func TestFeedReader_EOFOnlyAfterClose(t *testing.T) {
	f := newFeedReader()
	f.Close()

	buf := make([]byte, 4)
	_, err := f.Read(buf)
	if err == nil {
		t.Fatalf("expected EOF after Close, got nil error")
	}
}

func TestHasZlibSuffix(t *testing.T) {
	if !HasZlibSuffix([]byte{1, 2, 0x00, 0x00, 0xff, 0xff}) {
		t.Errorf("expected suffix match")
	}
	if HasZlibSuffix([]byte{1, 2, 3}) {
		t.Errorf("expected no suffix match on short input")
	}
}
