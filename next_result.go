// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

// NextResult is the scoped outcome of a Receiver.Next resolution.
// It either carries a value, or reports that the pipe terminated and
// whether the termination was a cancellation.
//
// Release acknowledges the value and must be called exactly once on
// every result; NextBind does so automatically. Double release is a
// no-op, value access after release panics.
type NextResult[T any] struct {
	center    *center[T]
	cancelled bool
	released  bool
}

// HasValue reports whether the result carries a delivered value.
func (r *NextResult[T]) HasValue() bool {
	return r.center != nil
}

// Value returns a pointer to the delivered value. The pointer is valid
// until Release.
func (r *NextResult[T]) Value() *T {
	if r.released {
		panic("pipe: next result used after release")
	}
	if r.center == nil {
		panic("pipe: next result has no value")
	}
	return &r.center.value
}

// Cancelled reports whether the pipe terminated by error close.
// Meaningful only when HasValue reports false.
func (r *NextResult[T]) Cancelled() bool {
	return r.cancelled
}

// Release acknowledges the value, unblocking the pending push.
// Releasing a result more than once is a no-op.
func (r *NextResult[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	if r.center == nil {
		return
	}
	c := r.center
	r.center = nil
	c.ackNext(nil)
	c.unref()
}
