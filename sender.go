// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/kont"

	"code.hybscloud.com/pipe/trace"
)

// Sender is the producing endpoint of a pipe. The zero value behaves
// like a closed sender: Push resolves false and close calls are no-ops.
type Sender[T any] struct {
	center *center[T]
}

// Push delivers v to the peer. The returned protocol resolves to true
// once the receiver acknowledges the value, or false if the pipe can
// no longer accept it.
//
// Pushing on a zero or already-closed sender resolves false.
func (s *Sender[T]) Push(v T) kont.Eff[bool] {
	if s.center == nil {
		if trace.Enabled {
			trace.Logger().Debug("pipe: push on detached sender")
		}
		return kont.Pure(false)
	}
	return kont.Perform(&Push[T]{center: s.center.ref(), value: v})
}

// AwaitClosed resolves once the pipe terminates from the sender's
// point of view: true on cancellation, false on clean close.
func (s *Sender[T]) AwaitClosed() kont.Eff[bool] {
	if s.center == nil {
		return kont.Pure(false)
	}
	return kont.Perform(&AwaitClosed[T]{center: s.center.ref(), forSender: true})
}

// Close performs a clean close. A value still in flight remains
// deliverable. Close detaches the handle; further calls are no-ops.
func (s *Sender[T]) Close() {
	if s.center == nil {
		return
	}
	c := s.center
	s.center = nil
	c.markClosed(nil)
	c.unref()
}

// CloseWithError performs an error close, discarding any value in
// flight. Detaches the handle; further calls are no-ops.
func (s *Sender[T]) CloseWithError() {
	if s.center == nil {
		return
	}
	c := s.center
	s.center = nil
	c.markCancelled(nil)
	c.unref()
}

// InterceptAndMap prepends f to the interceptor list. f runs on every
// subsequently delivered value before any earlier sender stage and
// before all receiver stages. Returning false discards the value and
// cancels the pipe.
func (s *Sender[T]) InterceptAndMap(f func(T) (T, bool)) {
	if s.center == nil {
		panic("pipe: interceptor registered on detached sender")
	}
	s.center.prependStage(stage[T]{run: f})
}

// InterceptAndMapWithHalfClose is InterceptAndMap with a hook that
// runs exactly once when the pipe closes cleanly.
func (s *Sender[T]) InterceptAndMapWithHalfClose(f func(T) (T, bool), onHalfClose func()) {
	if s.center == nil {
		panic("pipe: interceptor registered on detached sender")
	}
	s.center.prependStage(stage[T]{run: f, onHalfClose: onHalfClose})
}

// Swap exchanges the underlying pipes of two sender handles.
func (s *Sender[T]) Swap(other *Sender[T]) {
	s.center, other.center = other.center, s.center
}
