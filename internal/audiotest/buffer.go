// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"
)

var errNegativeOffset = errors.New("audiotest: negative offset")

// WriteSeeker is an in-memory io.WriteSeeker. Encoders that patch their
// header on Close need one; bytes.Buffer cannot seek.
type WriteSeeker struct {
	buf []byte
	pos int
}

func (w *WriteSeeker) Write(p []byte) (int, error) {
	if end := w.pos + len(p); end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	n := copy(w.buf[w.pos:], p)
	w.pos += n
	return n, nil
}

func (w *WriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(w.pos) + offset
	case io.SeekEnd:
		abs = int64(len(w.buf)) + offset
	}
	if abs < 0 {
		return 0, errNegativeOffset
	}
	w.pos = int(abs)
	return abs, nil
}

// Bytes returns everything written so far.
func (w *WriteSeeker) Bytes() []byte { return w.buf }

// Len is the written size in bytes.
func (w *WriteSeeker) Len() int { return len(w.buf) }
