// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/kont"
)

// Step evaluates a pipe protocol until the first effect suspension.
// Returns (result, nil) on completion, or (zero, suspension) if pending.
func Step[R any](protocol kont.Expr[R]) (R, *kont.Suspension[R]) {
	return kont.StepExpr(protocol)
}

// Advance dispatches the suspended pipe operation on the activity.
// DispatchPipe is non-blocking: it returns iox.ErrWouldBlock when the
// state machine cannot make progress, after parking the activity in
// the relevant wait-set.
//
// On success (nil error), the suspension is consumed and the protocol
// advances to the next effect or completion.
// On iox.ErrWouldBlock, the suspension is unconsumed and may be
// retried once Woken reports the wait-set fired.
func Advance[R any](a *Activity, susp *kont.Suspension[R]) (R, *kont.Suspension[R], error) {
	op, ok := susp.Op().(pipeDispatcher)
	if !ok {
		panic("pipe: unhandled effect in Advance")
	}
	v, err := op.DispatchPipe(a)
	if err != nil {
		var zero R
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}
