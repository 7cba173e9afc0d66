// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/kont"
)

// pipeHandler implements kont.Handler for pipe effects. A suspension
// under Exec is fatal: the protocol being evaluated is the only one on
// the activity, so nothing can ever fire its wait-set.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type pipeHandler[R any] struct {
	a *Activity
}

// Dispatch implements kont.Handler via structural interface assertion.
func (h pipeHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	pop, ok := op.(pipeDispatcher)
	if !ok {
		panic("pipe: unhandled effect in pipeHandler")
	}
	v, err := pop.DispatchPipe(h.a)
	if err != nil {
		panic("pipe: " + debugTag(h.a) + " Exec suspended with no runnable peer; use Run or Spawn/Drain")
	}
	return v, true
}

// Exec runs a Cont-world pipe protocol to completion on the activity.
// The protocol must never suspend: Exec is for compositions whose
// operations all resolve immediately, such as a next on a pipe that
// already holds a value or has terminated, or a push into a pipe that
// no longer accepts values. A push into an open pipe waits for the
// receiver's acknowledgement and therefore suspends. Protocols that
// genuinely interleave with a peer belong in Run or Spawn/Drain.
func Exec[R any](a *Activity, protocol kont.Eff[R]) R {
	h := pipeHandler[R]{a: a}
	return kont.Handle(protocol, h)
}

// ExecExpr runs an Expr-world pipe protocol to completion on the
// activity. Same suspension contract as Exec.
func ExecExpr[R any](a *Activity, protocol kont.Expr[R]) R {
	h := pipeHandler[R]{a: a}
	return kont.HandleExpr(protocol, h)
}
