// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"fmt"

	"code.hybscloud.com/pipe/trace"
	"github.com/sirupsen/logrus"
)

// valueState is the state of the one-deep value slot shared by a
// sender/receiver pair.
type valueState uint8

const (
	// stateEmpty: no value in the slot, the pipe is open.
	stateEmpty valueState = iota
	// stateReady: a pushed value sits in the slot, not yet taken.
	stateReady
	// stateWaitingForAck: the receiver took the value but has not yet
	// released its result handle.
	stateWaitingForAck
	// stateAcked: the receiver released the handle; the pending push
	// has not yet observed the acknowledgement.
	stateAcked
	// stateClosed: clean close, no value in flight.
	stateClosed
	// stateReadyClosed: closed with a still-deliverable value in the slot.
	stateReadyClosed
	// stateWaitingForAckAndClosed: closed while the receiver holds the
	// final value.
	stateWaitingForAckAndClosed
	// stateCancelled: error close; any in-flight value is discarded.
	stateCancelled
)

func (s valueState) String() string {
	switch s {
	case stateEmpty:
		return "Empty"
	case stateReady:
		return "Ready"
	case stateWaitingForAck:
		return "WaitingForAck"
	case stateAcked:
		return "Acked"
	case stateClosed:
		return "Closed"
	case stateReadyClosed:
		return "ReadyClosed"
	case stateWaitingForAckAndClosed:
		return "WaitingForAckAndClosed"
	case stateCancelled:
		return "Cancelled"
	}
	return fmt.Sprintf("valueState(%d)", uint8(s))
}

// center is the shared state between one Sender and one Receiver.
// Single-threaded cooperative: no locks, no atomics. All mutation
// happens on the activity that owns both handles.
type center[T any] struct {
	value  T
	refs   uint8
	state  valueState
	onEmpty  wakeSet
	onFull   wakeSet
	onClosed wakeSet
	stages []stage[T]
	home   *Arena[T]
	slot   uint32
}

// init prepares a freshly allocated center. The two endpoint handles
// jointly hold the initial two references.
func (c *center[T]) init() {
	c.refs = 2
	c.state = stateEmpty
}

// ref takes an additional reference and returns c for call chaining.
func (c *center[T]) ref() *center[T] {
	c.refs++
	return c
}

// unref drops one reference. On the last drop the center is torn down
// in place and, if arena-resident, its slot is recycled.
func (c *center[T]) unref() {
	if c.refs == 0 {
		panic("pipe: center refcount underflow")
	}
	c.refs--
	if c.refs > 0 {
		return
	}
	var zero T
	c.value = zero
	c.stages = nil
	c.onEmpty.parked = nil
	c.onFull.parked = nil
	c.onClosed.parked = nil
	if c.home != nil {
		// recycle must come last: the slot may be handed out again
		// as soon as it is back on the freelist.
		c.home.recycle(c.slot)
	}
}

// push places *v into the slot if it is empty. Reports delivery
// feasibility: false means the pipe can no longer accept values.
// Pending while an earlier value has not been fully acknowledged.
func (c *center[T]) push(a *Activity, v *T) (bool, error) {
	c.traceOp(a, "Push")
	switch c.state {
	case stateClosed, stateReadyClosed, stateWaitingForAckAndClosed, stateCancelled:
		return false, nil
	case stateReady, stateWaitingForAck, stateAcked:
		return false, c.onEmpty.pending(a)
	case stateEmpty:
		c.state = stateReady
		c.value = *v
		var zero T
		*v = zero
		c.onFull.wake()
		return true, nil
	}
	panic("pipe: push in unexpected state " + c.state.String())
}

// pollAck resolves the second phase of a push: whether the pushed
// value was accepted before any close took effect.
func (c *center[T]) pollAck(a *Activity) (bool, error) {
	c.traceOp(a, "PollAck")
	switch c.state {
	case stateClosed:
		return true, nil
	case stateCancelled:
		return false, nil
	case stateAcked:
		c.state = stateEmpty
		c.onEmpty.wake()
		return true, nil
	}
	return false, c.onEmpty.pending(a)
}

// next takes the buffered value out of the slot if one is deliverable.
// ok=false with nil error means the pipe terminated with no value.
func (c *center[T]) next(a *Activity) (T, bool, error) {
	c.traceOp(a, "Next")
	var zero T
	switch c.state {
	case stateEmpty, stateAcked, stateWaitingForAck, stateWaitingForAckAndClosed:
		return zero, false, c.onFull.pending(a)
	case stateReady:
		c.state = stateWaitingForAck
		v := c.value
		c.value = zero
		return v, true, nil
	case stateReadyClosed:
		c.state = stateWaitingForAckAndClosed
		v := c.value
		c.value = zero
		return v, true, nil
	case stateClosed, stateCancelled:
		return zero, false, nil
	}
	panic("pipe: next in unexpected state " + c.state.String())
}

// ackNext acknowledges the value most recently taken by next.
// Called when the receiver releases its result handle.
func (c *center[T]) ackNext(a *Activity) {
	c.traceOp(a, "AckNext")
	var zero T
	switch c.state {
	case stateReady, stateWaitingForAck:
		c.state = stateAcked
		c.value = zero
		c.onEmpty.wake()
	case stateReadyClosed, stateWaitingForAckAndClosed:
		c.clearStages(true)
		c.state = stateClosed
		c.value = zero
		c.onEmpty.wake()
		c.onFull.wake()
		c.onClosed.wake()
	case stateClosed, stateCancelled:
	default:
		panic("pipe: acknowledgement with no value in flight (state " + c.state.String() + ")")
	}
}

// markClosed performs a clean close from the sender side. A value
// still in flight remains deliverable; closing completes once it is
// acknowledged.
func (c *center[T]) markClosed(a *Activity) {
	c.traceOp(a, "MarkClosed")
	switch c.state {
	case stateEmpty, stateAcked:
		c.clearStages(true)
		c.state = stateClosed
		c.onEmpty.wake()
		c.onFull.wake()
		c.onClosed.wake()
	case stateReady:
		c.state = stateReadyClosed
		c.onClosed.wake()
	case stateWaitingForAck:
		c.state = stateWaitingForAckAndClosed
		c.onClosed.wake()
	}
}

// markCancelled performs an error close from either side. Any value
// in flight is discarded and every waiter wakes.
func (c *center[T]) markCancelled(a *Activity) {
	c.traceOp(a, "MarkCancelled")
	switch c.state {
	case stateClosed, stateCancelled:
		return
	}
	c.clearStages(false)
	c.state = stateCancelled
	var zero T
	c.value = zero
	c.onEmpty.wake()
	c.onFull.wake()
	c.onClosed.wake()
}

// pollClosedForSender resolves once the pipe reaches a terminal state
// from the sender's point of view. true means error close.
func (c *center[T]) pollClosedForSender(a *Activity) (bool, error) {
	c.traceOp(a, "PollClosedForSender")
	switch c.state {
	case stateClosed, stateReadyClosed, stateWaitingForAckAndClosed:
		return false, nil
	case stateCancelled:
		return true, nil
	}
	return false, c.onClosed.pending(a)
}

// pollClosedForReceiver resolves once the pipe is fully terminal.
// The receiver keeps waiting through ReadyClosed and
// WaitingForAckAndClosed because a value is still deliverable.
func (c *center[T]) pollClosedForReceiver(a *Activity) (bool, error) {
	c.traceOp(a, "PollClosedForReceiver")
	switch c.state {
	case stateClosed:
		return false, nil
	case stateCancelled:
		return true, nil
	}
	return false, c.onClosed.pending(a)
}

// pollEmpty resolves once no undelivered value sits in the slot.
func (c *center[T]) pollEmpty(a *Activity) error {
	c.traceOp(a, "PollEmpty")
	switch c.state {
	case stateReady, stateReadyClosed:
		return c.onEmpty.pending(a)
	}
	return nil
}

// cancelled reports whether the pipe terminated with an error close.
func (c *center[T]) cancelled() bool {
	return c.state == stateCancelled
}

// terminal reports whether the pipe reached Closed or Cancelled.
func (c *center[T]) terminal() bool {
	return c.state == stateClosed || c.state == stateCancelled
}

// traceOp emits one debug record per state-machine operation.
// Callers stay allocation-free when tracing is off.
func (c *center[T]) traceOp(a *Activity, op string) {
	if !trace.Enabled {
		return
	}
	trace.Logger().WithFields(logrus.Fields{
		"pipe":      fmt.Sprintf("%p", c),
		"activity":  debugTag(a),
		"op":        op,
		"refs":      c.refs,
		"state":     c.state.String(),
		"on_empty":  c.onEmpty.String(),
		"on_full":   c.onFull.String(),
		"on_closed": c.onClosed.String(),
	}).Debug("pipe state op")
}
