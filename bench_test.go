// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe_test

import (
	"testing"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/pipe"
)

// BenchmarkPushNext measures a single push/next round-trip.
func BenchmarkPushNext(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		act := pipe.NewActivity()
		s, r := pipe.New[int]()
		producer := pipe.PushThen(&s, 42, pipe.CloseDone(&s, struct{}{}))
		consumer := pipe.NextBind(&r, func(nr *pipe.NextResult[int]) kont.Eff[int] {
			if !nr.HasValue() {
				return kont.Pure(-1)
			}
			return kont.Pure(*nr.Value())
		})
		pipe.Run(act, producer, consumer)
	}
}

// BenchmarkPushNextArena measures the same round-trip with pipe state
// recycled through an arena instead of the heap.
func BenchmarkPushNextArena(b *testing.B) {
	arena := pipe.NewArena[int](8)
	b.ReportAllocs()
	for b.Loop() {
		act := pipe.NewActivity()
		s, r := pipe.New(pipe.WithArena(arena))
		producer := pipe.PushThen(&s, 42, pipe.CloseDone(&s, struct{}{}))
		consumer := pipe.NextBind(&r, func(nr *pipe.NextResult[int]) kont.Eff[int] {
			if !nr.HasValue() {
				return kont.Pure(-1)
			}
			return kont.Pure(*nr.Value())
		})
		pipe.Run(act, producer, consumer)
		r.CloseWithError()
	}
}

// BenchmarkPipeline5 measures a 5-value pipeline through Loop.
func BenchmarkPipeline5(b *testing.B) {
	values := []int{0, 1, 2, 3, 4}
	b.ReportAllocs()
	for b.Loop() {
		act := pipe.NewActivity()
		s, r := pipe.New[int]()
		pipe.Run(act, pushAll(&s, values), collectAll(&r))
	}
}

// BenchmarkInterceptedPushNext measures delivery through a three-stage
// interceptor chain.
func BenchmarkInterceptedPushNext(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		act := pipe.NewActivity()
		s, r := pipe.New[int]()
		s.InterceptAndMap(func(v int) (int, bool) { return v + 1, true })
		s.InterceptAndMap(func(v int) (int, bool) { return v * 2, true })
		r.InterceptAndMap(func(v int) (int, bool) { return v - 3, true })
		producer := pipe.PushThen(&s, 5, pipe.CloseDone(&s, struct{}{}))
		consumer := pipe.NextBind(&r, func(nr *pipe.NextResult[int]) kont.Eff[int] {
			if !nr.HasValue() {
				return kont.Pure(-1)
			}
			return kont.Pure(*nr.Value())
		})
		pipe.Run(act, producer, consumer)
	}
}

// BenchmarkExprPushNext measures the Expr-world round-trip.
func BenchmarkExprPushNext(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		act := pipe.NewActivity()
		s, r := pipe.New[int]()
		producer := pipe.ExprPushThen(&s, 42, kont.ExprReturn(struct{}{}))
		consumer := pipe.Reify(pipe.NextBind(&r, func(nr *pipe.NextResult[int]) kont.Eff[int] {
			if !nr.HasValue() {
				return kont.Pure(-1)
			}
			return kont.Pure(*nr.Value())
		}))
		pipe.RunExpr(act, producer, consumer)
	}
}

// BenchmarkExprLoopPipeline measures the Expr-world recursive pipeline.
func BenchmarkExprLoopPipeline(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		act := pipe.NewActivity()
		s, r := pipe.New[int]()
		producer := pipe.ExprLoop(0, func(i int) kont.Expr[kont.Either[int, struct{}]] {
			if i >= 5 {
				s.Close()
				return kont.ExprReturn(kont.Right[int, struct{}](struct{}{}))
			}
			return pipe.ExprPushThen(&s, i, kont.ExprReturn(kont.Left[int, struct{}](i+1)))
		})
		consumer := pipe.Reify(collectAll(&r))
		pipe.RunExpr(act, producer, consumer)
	}
}

// BenchmarkStepAdvance measures manual driving via Step+Advance.
func BenchmarkStepAdvance(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		act := pipe.NewActivity()
		s, r := pipe.New[int]()
		producer := pipe.Reify(pipe.PushThen(&s, 42, pipe.CloseDone(&s, struct{}{})))
		consumer := pipe.Reify(pipe.NextBind(&r, func(nr *pipe.NextResult[int]) kont.Eff[int] {
			if !nr.HasValue() {
				return kont.Pure(-1)
			}
			return kont.Pure(*nr.Value())
		}))

		_, ps := pipe.Step[struct{}](producer)
		_, cs := pipe.Step[int](consumer)
		for ps != nil || cs != nil {
			if ps != nil {
				_, ps, _ = pipe.Advance(act, ps)
			}
			if cs != nil {
				_, cs, _ = pipe.Advance(act, cs)
			}
		}
	}
}

// BenchmarkErrorPath measures ExecError with error handler dispatch.
func BenchmarkErrorPath(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		act := pipe.NewActivity()
		s, r := pipe.New[string]()
		s.Close()
		protocol := kont.Bind(
			kont.CatchError(
				kont.ThrowError[string, string]("err"),
				func(e string) kont.Eff[string] {
					return kont.Pure("recovered")
				},
			),
			func(msg string) kont.Eff[string] {
				return pipe.NextBind(&r, func(nr *pipe.NextResult[string]) kont.Eff[string] {
					return kont.Pure(msg)
				})
			},
		)
		pipe.ExecError[string](act, protocol)
	}
}

// BenchmarkSpawnDrain measures the scheduler overhead of Spawn+Drain
// for a pair of trivial protocols.
func BenchmarkSpawnDrain(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		act := pipe.NewActivity()
		s, r := pipe.New[int]()
		pipe.Spawn(act, "producer", pipe.PushThen(&s, 1, pipe.CloseDone(&s, struct{}{})), nil)
		pipe.Spawn(act, "consumer", pipe.NextBind(&r, func(nr *pipe.NextResult[int]) kont.Eff[struct{}] {
			return kont.Pure(struct{}{})
		}), nil)
		act.Drain()
	}
}
