// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/kont"
)

// pipeDispatcher is the structural interface for pipe operations.
// DispatchPipe is non-blocking: it returns iox.ErrWouldBlock after
// parking the current waker when the state machine cannot make
// progress yet.
type pipeDispatcher interface {
	DispatchPipe(a *Activity) (kont.Resumed, error)
}

// Push is the effect operation for delivering one value to the peer.
// It resolves in two phases: first the value is placed into the empty
// slot, then the operation waits for the receiver's acknowledgement.
// Resolves to true if the value was accepted before any close.
//
// Push holds a center reference for its lifetime. Drop releases the
// reference when an unresolved Push is abandoned.
type Push[T any] struct {
	kont.Phantom[bool]
	center *center[T]
	value  T
	placed bool
}

// DispatchPipe handles Push on the pipe state machine.
// Non-blocking: returns iox.ErrWouldBlock while the slot is occupied
// (phase one) or the acknowledgement is outstanding (phase two).
func (p *Push[T]) DispatchPipe(a *Activity) (kont.Resumed, error) {
	if p.center == nil {
		return false, nil
	}
	if !p.placed {
		ok, err := p.center.push(a, &p.value)
		if err != nil {
			return nil, err
		}
		if !ok {
			return p.resolve(false), nil
		}
		p.placed = true
	}
	ok, err := p.center.pollAck(a)
	if err != nil {
		return nil, err
	}
	return p.resolve(ok), nil
}

func (p *Push[T]) resolve(ok bool) kont.Resumed {
	p.center.unref()
	p.center = nil
	return ok
}

// Drop releases the center reference held by an unresolved Push.
// Calling Drop after resolution is a no-op.
func (p *Push[T]) Drop() {
	if p.center == nil {
		return
	}
	p.center.unref()
	p.center = nil
}

// nextValue carries the raw outcome of the take phase of Next.
// ok=false means the pipe terminated before delivering a value.
type nextValue[T any] struct {
	value T
	ok    bool
}

// Next is the effect operation for taking the buffered value.
// The operation resolves the take phase only; interception and result
// handle construction happen in the receiver's continuation.
//
// Next borrows the reference owned by the enclosing composition: the
// continuation releases it, so resolution here must not.
type Next[T any] struct {
	kont.Phantom[nextValue[T]]
	center *center[T]
}

// DispatchPipe handles Next on the pipe state machine.
// Non-blocking: returns iox.ErrWouldBlock while no value is
// deliverable and the pipe is not terminal.
func (n *Next[T]) DispatchPipe(a *Activity) (kont.Resumed, error) {
	if n.center == nil {
		return nextValue[T]{}, nil
	}
	v, ok, err := n.center.next(a)
	if err != nil {
		return nil, err
	}
	n.center = nil
	return nextValue[T]{value: v, ok: ok}, nil
}

// Drop releases the borrowed reference when the enclosing composition
// is abandoned before the operation resolves.
func (n *Next[T]) Drop() {
	if n.center == nil {
		return
	}
	n.center.unref()
	n.center = nil
}

// AwaitClosed is the effect operation for observing pipe termination.
// Resolves to true if the pipe was cancelled, false on clean close.
// The two sides observe closing differently: the sender resolves as
// soon as no further pushes can start, while the receiver keeps
// waiting until the final value has been acknowledged.
type AwaitClosed[T any] struct {
	kont.Phantom[bool]
	center    *center[T]
	forSender bool
}

// DispatchPipe handles AwaitClosed on the pipe state machine.
// Non-blocking: returns iox.ErrWouldBlock while the pipe is open.
func (w *AwaitClosed[T]) DispatchPipe(a *Activity) (kont.Resumed, error) {
	if w.center == nil {
		return false, nil
	}
	var cancelled bool
	var err error
	if w.forSender {
		cancelled, err = w.center.pollClosedForSender(a)
	} else {
		cancelled, err = w.center.pollClosedForReceiver(a)
	}
	if err != nil {
		return nil, err
	}
	w.center.unref()
	w.center = nil
	return cancelled, nil
}

// Drop releases the center reference held by an unresolved AwaitClosed.
func (w *AwaitClosed[T]) Drop() {
	if w.center == nil {
		return
	}
	w.center.unref()
	w.center = nil
}

// AwaitEmpty is the effect operation for observing slot drainage.
// Resolves once no undelivered value remains buffered in the pipe.
type AwaitEmpty[T any] struct {
	kont.Phantom[struct{}]
	center *center[T]
}

// DispatchPipe handles AwaitEmpty on the pipe state machine.
// Non-blocking: returns iox.ErrWouldBlock while a value sits in the
// slot untaken.
func (w *AwaitEmpty[T]) DispatchPipe(a *Activity) (kont.Resumed, error) {
	if w.center == nil {
		return struct{}{}, nil
	}
	if err := w.center.pollEmpty(a); err != nil {
		return nil, err
	}
	w.center.unref()
	w.center = nil
	return struct{}{}, nil
}

// Drop releases the center reference held by an unresolved AwaitEmpty.
func (w *AwaitEmpty[T]) Drop() {
	if w.center == nil {
		return
	}
	w.center.unref()
	w.center = nil
}
