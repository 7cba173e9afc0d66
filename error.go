// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/kont"
)

// pipeErrorHandler handles both pipe and error effects.
// Pipe ops follow the Exec suspension contract. Error ops
// short-circuit on Throw.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type pipeErrorHandler[E, A any] struct {
	a      *Activity
	errCtx *kont.ErrorContext[E]
}

// Dispatch implements kont.Handler for the composed Pipe+Error handler.
// Dispatch order: Pipe → Error.
func (h pipeErrorHandler[E, A]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	if pop, ok := op.(pipeDispatcher); ok {
		v, err := pop.DispatchPipe(h.a)
		if err != nil {
			panic("pipe: " + debugTag(h.a) + " ExecError suspended with no runnable peer; use Step with AdvanceError")
		}
		return v, true
	}
	if eop, ok := op.(interface {
		DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
	}); ok {
		v, _ := eop.DispatchError(h.errCtx)
		if h.errCtx.HasErr {
			return kont.Left[E, A](h.errCtx.Err), false
		}
		return v, true
	}
	panic("pipe: unhandled effect in pipeErrorHandler")
}

// ExecError runs a pipe protocol with error handling on the activity.
// Returns Either[E, R]: Right on success, Left on Throw.
// Same suspension contract as Exec.
func ExecError[E, R any](a *Activity, protocol kont.Eff[R]) kont.Either[E, R] {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[E, R]](protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	var errCtx kont.ErrorContext[E]
	h := pipeErrorHandler[E, R]{a: a, errCtx: &errCtx}
	return kont.Handle(wrapped, h)
}

// ExecErrorExpr runs an Expr pipe protocol with error handling on the
// activity. Returns Either[E, R]: Right on success, Left on Throw.
// Same suspension contract as Exec.
func ExecErrorExpr[E, R any](a *Activity, protocol kont.Expr[R]) kont.Either[E, R] {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	var errCtx kont.ErrorContext[E]
	h := pipeErrorHandler[E, R]{a: a, errCtx: &errCtx}
	return kont.HandleExpr(wrapped, h)
}

// StepError evaluates a pipe protocol with error support until the
// first effect suspension. Returns (Either[E, R], nil) on completion
// or error, or (zero, suspension) if pending.
func StepError[E, R any](protocol kont.Expr[R]) (kont.Either[E, R], *kont.Suspension[kont.Either[E, R]]) {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	return kont.StepExpr(wrapped)
}

// AdvanceError dispatches the suspended operation on the activity.
// Pipe ops are non-blocking (iox.ErrWouldBlock). Error ops are eager:
// Throw discards the suspension and returns Left.
func AdvanceError[E, R any](a *Activity, susp *kont.Suspension[kont.Either[E, R]]) (kont.Either[E, R], *kont.Suspension[kont.Either[E, R]], error) {
	// Pipe ops: non-blocking dispatch
	if pop, ok := susp.Op().(pipeDispatcher); ok {
		v, err := pop.DispatchPipe(a)
		if err != nil {
			var zero kont.Either[E, R]
			return zero, susp, err
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	// Error ops: eager dispatch
	if eop, ok := susp.Op().(interface {
		DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
	}); ok {
		var ctx kont.ErrorContext[E]
		v, _ := eop.DispatchError(&ctx)
		if ctx.HasErr {
			susp.Discard()
			return kont.Left[E, R](ctx.Err), nil, nil
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	panic("pipe: unhandled effect in AdvanceError")
}
