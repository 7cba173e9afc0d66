// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

// Option configures pipe construction.
type Option[T any] func(*pipeConfig[T])

type pipeConfig[T any] struct {
	arena *Arena[T]
}

// WithArena places the pipe's shared state in ar instead of the heap.
// When ar is exhausted, construction falls back to a heap allocation.
func WithArena[T any](ar *Arena[T]) Option[T] {
	return func(cfg *pipeConfig[T]) {
		cfg.arena = ar
	}
}

// New creates a connected Sender/Receiver pair sharing a one-deep
// value slot. The two handles jointly own the shared state; each
// close or detach drops one of the initial two references.
func New[T any](opts ...Option[T]) (Sender[T], Receiver[T]) {
	var cfg pipeConfig[T]
	for _, opt := range opts {
		opt(&cfg)
	}
	var c *center[T]
	if cfg.arena != nil {
		c = cfg.arena.alloc()
	}
	if c == nil {
		c = &center[T]{}
	}
	c.init()
	return Sender[T]{center: c}, Receiver[T]{center: c}
}
