// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pipe provides a one-deep value conduit between a producer and a
// consumer via algebraic effects on [code.hybscloud.com/kont].
//
// A pipe is a [Sender]/[Receiver] pair sharing a single value slot. Each
// pushed value must be acknowledged by the receiver before the next push
// can land, so the pair advances in lock-step.
//
// # Architecture
//
//   - State: One shared center per pair holding the slot, an eight-state machine, a reference count, and three multi-waker wait-sets. [New] creates the pair, optionally arena-resident via [WithArena].
//   - Non-blocking: Operations return [code.hybscloud.com/iox.ErrWouldBlock] after parking the current waker when the state machine cannot make progress.
//   - Single-threaded: All handles and protocols of a pipe run on one [Activity]; there are no locks or atomics on pipe state.
//   - Interception: [Sender.InterceptAndMap] and [Receiver.InterceptAndMap] install transform stages that run over every delivered value; a stage can discard the value and cancel the pipe.
//
// # API Topologies
//
//   - Operations: [Push], [Next], [AwaitClosed], [AwaitEmpty]. Closing is synchronous: [Sender.Close], [Sender.CloseWithError], [Receiver.CloseWithError].
//   - Cont-world: [Sender.Push], [Receiver.Next], [NextBind], [PushThen], [PushBind], [CloseDone], [AwaitEmptyThen].
//   - Expr-world: [ExprPushThen], [ExprPushBind]. Bridge via [Reify] and [Reflect].
//   - Recursive: [Loop] and [ExprLoop] for trampoline-based iterative protocols.
//
// # Integration
//
//   - Stepping: [Step] and [Advance] (or [StepError]/[AdvanceError]) evaluate protocols one effect at a time; [Activity.Woken] reports when a parked suspension became runnable.
//   - Scheduling: [Spawn] and [Activity.Drain] interleave any number of protocols on one activity with exact wake-ups; [Run] is the two-protocol convenience.
//   - Direct: [Exec] runs protocols whose operations all resolve immediately.
//
// # Example
//
//	act := pipe.NewActivity()
//	s, r := pipe.New[int]()
//	producer := pipe.PushThen(&s, 42, pipe.CloseDone(&s, struct{}{}))
//	consumer := pipe.NextBind(&r, func(nr *pipe.NextResult[int]) kont.Eff[int] {
//		if !nr.HasValue() {
//			return kont.Pure(-1)
//		}
//		return kont.Pure(*nr.Value())
//	})
//	_, got := pipe.Run(act, producer, consumer)
package pipe
