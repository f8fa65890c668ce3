package core

// streaming.go provides the readers LoadTable stacks under encoding/csv.
//
// Collection exports arrive from Excel, web downloads and older tools, so the
// byte stream is cleaned on the fly before parsing:
//
//   - inputReader: skips a UTF-8 BOM and replaces invalid UTF-8 with U+FFFD
//   - countingReader: tracks bytes read for the load log entry
//
// Neither reader buffers more than a single rune beyond bufio's window.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

// utf8BOM is the byte order mark Excel puts in front of "CSV UTF-8" exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// inputReader strips a leading BOM and sanitizes UTF-8 while streaming.
type inputReader struct {
	br         *bufio.Reader
	bomChecked bool

	// Encoded bytes of the last rune that did not fit the caller's buffer
	pending []byte

	// Read error held back until pending output has been returned
	err error
}

func newInputReader(r io.Reader) *inputReader {
	return &inputReader{br: bufio.NewReader(r)}
}

// Read implements io.Reader. Each invalid byte becomes one replacement
// character; valid text passes through unchanged.
func (r *inputReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if !r.bomChecked {
		r.bomChecked = true
		if head, err := r.br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
			_, _ = r.br.Discard(len(utf8BOM))
		}
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]

	var buf [utf8.UTFMax]byte
	for n < len(p) && r.err == nil {
		c, err := r.br.ReadByte()
		if err != nil {
			r.err = err
			break
		}

		// ASCII fast path
		if c < utf8.RuneSelf {
			p[n] = c
			n++
			continue
		}
		_ = r.br.UnreadByte()

		ru, _, err := r.br.ReadRune()
		if err != nil {
			r.err = err
			break
		}
		size := utf8.EncodeRune(buf[:], ru)

		m := copy(p[n:], buf[:size])
		n += m
		if m < size {
			r.pending = append(r.pending[:0], buf[m:size]...)
			return n, nil
		}
	}

	if n == 0 && r.err != nil {
		return 0, r.err
	}
	return n, nil
}

// countingReader counts the bytes passing through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
