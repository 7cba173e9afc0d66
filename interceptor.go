// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

// stage is one entry of a center's ordered interceptor list.
// run transforms the value in flight; returning false discards it and
// cancels the pipe. onHalfClose, when non-nil, runs exactly once on
// the clean-close path.
type stage[T any] struct {
	run         func(T) (T, bool)
	onHalfClose func()
}

// prependStage inserts s at the head of the list. Sender-side stages
// register this way so the most recently added one sees values first.
func (c *center[T]) prependStage(s stage[T]) {
	if c.terminal() {
		panic("pipe: interceptor registered after close")
	}
	c.stages = append(c.stages, stage[T]{})
	copy(c.stages[1:], c.stages)
	c.stages[0] = s
}

// appendStage adds s at the tail of the list. Receiver-side stages
// register this way so they run after every sender-side stage.
func (c *center[T]) appendStage(s stage[T]) {
	if c.terminal() {
		panic("pipe: interceptor registered after close")
	}
	c.stages = append(c.stages, s)
}

// applyStages runs the interceptor list head to tail over v.
// Short-circuits on the first stage that reports false.
func (c *center[T]) applyStages(v T) (T, bool) {
	for i := range c.stages {
		var kept bool
		v, kept = c.stages[i].run(v)
		if !kept {
			var zero T
			return zero, false
		}
	}
	return v, true
}

// clearStages empties the interceptor list. With runHooks set, every
// registered half-close hook fires in list order before the list is
// dropped. The list never survives a terminal transition, so hooks
// cannot fire twice.
func (c *center[T]) clearStages(runHooks bool) {
	if runHooks {
		for i := range c.stages {
			if hook := c.stages[i].onHalfClose; hook != nil {
				hook()
			}
		}
	}
	c.stages = nil
}
