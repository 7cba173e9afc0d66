// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/kont"
)

// Receiver is the consuming endpoint of a pipe. The zero value behaves
// like a closed receiver: Next resolves to a cancelled result.
type Receiver[T any] struct {
	center *center[T]
}

// Next resolves to the next delivered value, or to a terminal result
// once the pipe closes. The interceptor list runs over the taken value
// before the result is produced; a stage reporting false discards the
// value and cancels the pipe.
//
// The caller must Release the result exactly once. NextBind composes
// the release automatically.
func (r *Receiver[T]) Next() kont.Eff[*NextResult[T]] {
	if r.center == nil {
		return kont.Pure(&NextResult[T]{cancelled: true})
	}
	c := r.center.ref()
	op := &Next[T]{center: c}
	return kont.Bind(kont.Perform(op), func(nv nextValue[T]) kont.Eff[*NextResult[T]] {
		defer c.unref()
		if !nv.ok {
			return kont.Pure(&NextResult[T]{cancelled: c.cancelled()})
		}
		out, kept := c.applyStages(nv.value)
		if !kept {
			c.markCancelled(nil)
			return kont.Pure(&NextResult[T]{cancelled: true})
		}
		c.value = out
		return kont.Pure(&NextResult[T]{center: c.ref()})
	})
}

// AwaitClosed resolves once the pipe is fully terminal: every
// deliverable value has been acknowledged or discarded. Resolves to
// true on cancellation, false on clean close.
func (r *Receiver[T]) AwaitClosed() kont.Eff[bool] {
	if r.center == nil {
		return kont.Pure(false)
	}
	return kont.Perform(&AwaitClosed[T]{center: r.center.ref(), forSender: false})
}

// AwaitEmpty resolves once no undelivered value remains buffered.
func (r *Receiver[T]) AwaitEmpty() kont.Eff[struct{}] {
	if r.center == nil {
		return kont.Pure(struct{}{})
	}
	return kont.Perform(&AwaitEmpty[T]{center: r.center.ref()})
}

// CloseWithError performs an error close from the receiving side,
// discarding any value in flight. Detaches the handle; further calls
// are no-ops.
func (r *Receiver[T]) CloseWithError() {
	if r.center == nil {
		return
	}
	c := r.center
	r.center = nil
	c.markCancelled(nil)
	c.unref()
}

// InterceptAndMap appends f to the interceptor list. f runs on every
// subsequently delivered value after all sender stages and after every
// earlier receiver stage. Returning false discards the value and
// cancels the pipe.
func (r *Receiver[T]) InterceptAndMap(f func(T) (T, bool)) {
	if r.center == nil {
		panic("pipe: interceptor registered on detached receiver")
	}
	r.center.appendStage(stage[T]{run: f})
}

// InterceptAndMapWithHalfClose is InterceptAndMap with a hook that
// runs exactly once when the pipe closes cleanly.
func (r *Receiver[T]) InterceptAndMapWithHalfClose(f func(T) (T, bool), onHalfClose func()) {
	if r.center == nil {
		panic("pipe: interceptor registered on detached receiver")
	}
	r.center.appendStage(stage[T]{run: f, onHalfClose: onHalfClose})
}

// Swap exchanges the underlying pipes of two receiver handles.
func (r *Receiver[T]) Swap(other *Receiver[T]) {
	r.center, other.center = other.center, r.center
}

// NextBind resolves the receiver's next result, passes it to f, and
// guarantees the result is released when f's protocol completes.
func NextBind[T, B any](r *Receiver[T], f func(*NextResult[T]) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(r.Next(), func(nr *NextResult[T]) kont.Eff[B] {
		return kont.Bind(f(nr), func(b B) kont.Eff[B] {
			nr.Release()
			return kont.Pure(b)
		})
	})
}
