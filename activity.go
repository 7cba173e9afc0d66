// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"fmt"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"code.hybscloud.com/lfq"
	"github.com/rs/xid"
)

// waker is anything that can be rescheduled after a wait-set fires.
type waker interface {
	wake()
}

// wakeSet is a parked-waker registration for one wait condition.
// Distinct operations can wait on the same condition, such as a
// pending acknowledgement and an AwaitEmpty both parked on onEmpty,
// so the set holds every registered waker. Woken operations that are
// still blocked simply re-park.
type wakeSet struct {
	parked []waker
}

// pending parks the current waker and reports the suspension boundary.
// Re-parking an already registered waker is a no-op.
func (w *wakeSet) pending(a *Activity) error {
	if wk := a.currentWaker(); wk != nil {
		for _, p := range w.parked {
			if p == wk {
				return iox.ErrWouldBlock
			}
		}
		w.parked = append(w.parked, wk)
	}
	return iox.ErrWouldBlock
}

// wake clears the set, then reschedules every parked waker. Clearing
// first keeps the set free for re-arming during the wake itself.
func (w *wakeSet) wake() {
	if len(w.parked) == 0 {
		return
	}
	parked := w.parked
	w.parked = nil
	for _, p := range parked {
		p.wake()
	}
}

func (w *wakeSet) String() string {
	if len(w.parked) > 0 {
		return "armed"
	}
	return "idle"
}

// defaultPollerCapacity bounds the ready queue of a fresh activity.
const defaultPollerCapacity = 8

// ActivityOption configures activity construction.
type ActivityOption func(*activityConfig)

type activityConfig struct {
	tag       string
	pollerCap int
}

// WithTag overrides the generated debug tag of the activity.
func WithTag(tag string) ActivityOption {
	return func(cfg *activityConfig) {
		cfg.tag = tag
	}
}

// WithPollerCapacity sets the maximum number of protocols the
// activity can hold runnable at once.
func WithPollerCapacity(n int) ActivityOption {
	return func(cfg *activityConfig) {
		cfg.pollerCap = n
	}
}

// Activity is the cooperative execution context for pipe protocols.
// All pipes touched by an activity's protocols must belong to that
// activity; there is no cross-activity synchronization.
type Activity struct {
	serial  Serial
	tag     string
	pollers []*Poller
	ready   lfq.SPSC[uint32]
	live    int
	current *Poller
	woken   bool
}

// NewActivity creates an activity. The debug tag defaults to a fresh
// xid so concurrent activities are distinguishable in trace output.
func NewActivity(opts ...ActivityOption) *Activity {
	cfg := activityConfig{pollerCap: defaultPollerCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.tag == "" {
		cfg.tag = xid.New().String()
	}
	a := &Activity{serial: nextSerial(), tag: cfg.tag}
	a.ready.Init(cfg.pollerCap)
	return a
}

// DebugTag returns the activity's identity for trace records.
func (a *Activity) DebugTag() string {
	return fmt.Sprintf("ACT[%d:%s]", a.serial, a.tag)
}

func debugTag(a *Activity) string {
	if a == nil {
		return "-"
	}
	return a.DebugTag()
}

// wake records that a manually driven suspension became runnable.
func (a *Activity) wake() {
	a.woken = true
}

// Woken consumes the runnable flag set by a wait-set firing while the
// activity is driven manually with Step and Advance.
func (a *Activity) Woken() bool {
	w := a.woken
	a.woken = false
	return w
}

// currentWaker resolves who should be rescheduled when a wait-set
// fires: the poller being drained, or the activity itself under
// manual driving.
func (a *Activity) currentWaker() waker {
	if a == nil {
		return nil
	}
	if a.current != nil {
		return a.current
	}
	return a
}

// Poller is one spawned protocol registered on an activity.
type Poller struct {
	a       *Activity
	idx     uint32
	name    string
	queued  bool
	done    bool
	advance func() error
}

// Name returns the name given to Spawn.
func (p *Poller) Name() string {
	return p.name
}

// Done reports whether the protocol ran to completion.
func (p *Poller) Done() bool {
	return p.done
}

// wake enqueues the poller on the activity's ready queue. Already
// queued or completed pollers are left alone.
func (p *Poller) wake() {
	if p.done || p.queued {
		return
	}
	p.queued = true
	idx := p.idx
	if err := p.a.ready.Enqueue(&idx); err != nil {
		panic("pipe: " + p.a.DebugTag() + " ready queue overflow; raise WithPollerCapacity")
	}
}

// Spawn registers a Cont-world protocol on the activity. The protocol
// runs when Drain is called; done, if non-nil, receives the result on
// completion. Protocols that complete without suspending invoke done
// before Spawn returns.
func Spawn[R any](a *Activity, name string, protocol kont.Eff[R], done func(R)) *Poller {
	p := &Poller{a: a, idx: uint32(len(a.pollers)), name: name}
	a.pollers = append(a.pollers, p)
	a.live++

	result, susp := kont.StepExpr(Reify(protocol))
	if susp == nil {
		p.done = true
		a.live--
		if done != nil {
			done(result)
		}
		return p
	}
	p.advance = func() error {
		for {
			op, ok := susp.Op().(pipeDispatcher)
			if !ok {
				panic("pipe: unhandled effect in Drain")
			}
			v, err := op.DispatchPipe(a)
			if err != nil {
				return err
			}
			result, susp = susp.Resume(v)
			if susp == nil {
				p.done = true
				a.live--
				if done != nil {
					done(result)
				}
				return nil
			}
		}
	}
	p.wake()
	return p
}

// Drain drives ready pollers until every spawned protocol completes.
// Wake-ups are exact: a poller reruns only after a wait-set it parked
// on fires. An empty ready queue with live pollers remaining is a
// deadlock, since a single activity has no external wake source.
func (a *Activity) Drain() {
	for a.live > 0 {
		idx, err := a.ready.Dequeue()
		if err != nil {
			panic(fmt.Sprintf("pipe: %s deadlock: %d protocol(s) parked with nothing runnable", a.DebugTag(), a.live))
		}
		p := a.pollers[idx]
		p.queued = false
		if p.done {
			continue
		}
		a.current = p
		err = p.advance()
		a.current = nil
		if err != nil && !iox.IsWouldBlock(err) {
			panic("pipe: unexpected dispatch error in Drain: " + err.Error())
		}
	}
	for {
		if _, err := a.ready.Dequeue(); err != nil {
			break
		}
	}
	a.pollers = a.pollers[:0]
}
