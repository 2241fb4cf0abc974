package entity

import (
	"sync/atomic"
)

// Barrier counts completion signals and fires exactly once, on the signal
// that reaches the target count.
type Barrier struct {
	target int32
	count  atomic.Int32
}

func NewBarrier(target int) *Barrier {
	return &Barrier{target: int32(target)}
}

// Signal records one completion and reports whether it was the last one.
// Signals beyond the target return false.
func (b *Barrier) Signal() bool {
	return b.count.Add(1) == b.target
}

// Remaining is the number of signals still expected.
func (b *Barrier) Remaining() int {
	if n := b.target - b.count.Load(); n > 0 {
		return int(n)
	}
	return 0
}
