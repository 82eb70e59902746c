// SPDX-License-Identifier: EPL-2.0

package gcadpcm

import "sync/atomic"

// Progress counts encoded frames. It is safe for concurrent use by several
// channel encoders, and a nil *Progress ignores every call.
type Progress struct {
	frames atomic.Int64
	total  atomic.Int64
}

// Add records n more processed frames.
func (p *Progress) Add(n int) {
	if p == nil {
		return
	}
	p.frames.Add(int64(n))
}

// AddTotal announces n more frames of expected work.
func (p *Progress) AddTotal(n int) {
	if p == nil {
		return
	}
	p.total.Add(int64(n))
}

// Frames returns the number of frames processed so far.
func (p *Progress) Frames() int64 {
	if p == nil {
		return 0
	}
	return p.frames.Load()
}

// Total returns the number of frames announced with AddTotal.
func (p *Progress) Total() int64 {
	if p == nil {
		return 0
	}
	return p.total.Load()
}
