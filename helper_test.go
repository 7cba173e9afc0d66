// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe_test

import (
	"code.hybscloud.com/kont"
	"code.hybscloud.com/pipe"
)

// execExpr drives a protocol to completion on act via Step+Advance loop.
// Only suitable for protocols whose operations all resolve without a
// peer; a genuinely parked suspension would spin forever here.
// Used by stepping tests to exercise the non-blocking path.
func execExpr[R any](act *pipe.Activity, protocol kont.Expr[R]) R {
	result, susp := pipe.Step[R](protocol)
	for susp != nil {
		result, susp, _ = pipe.Advance(act, susp)
	}
	return result
}

// collectAll drains r until the pipe terminates, returning the
// received values in order. Runs as one protocol under Run or Drain.
func collectAll(r *pipe.Receiver[int]) kont.Eff[[]int] {
	return pipe.Loop(make([]int, 0, 8), func(acc []int) kont.Eff[kont.Either[[]int, []int]] {
		return pipe.NextBind(r, func(nr *pipe.NextResult[int]) kont.Eff[kont.Either[[]int, []int]] {
			if !nr.HasValue() {
				return kont.Pure(kont.Right[[]int](acc))
			}
			return kont.Pure(kont.Left[[]int, []int](append(acc, *nr.Value())))
		})
	})
}

// pushAll pushes each value in order and then cleanly closes s.
// Resolves to the number of values the receiver accepted.
func pushAll(s *pipe.Sender[int], values []int) kont.Eff[int] {
	type st struct {
		i        int
		accepted int
	}
	return pipe.Loop(st{}, func(cur st) kont.Eff[kont.Either[st, int]] {
		if cur.i >= len(values) {
			s.Close()
			return kont.Pure(kont.Right[st](cur.accepted))
		}
		return pipe.PushBind(s, values[cur.i], func(ok bool) kont.Eff[kont.Either[st, int]] {
			next := st{i: cur.i + 1, accepted: cur.accepted}
			if ok {
				next.accepted++
			}
			return kont.Pure(kont.Left[st, int](next))
		})
	})
}
