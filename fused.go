// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/kont"
)

// PushThen pushes v and then continues with next, discarding the
// delivery outcome. Fuses Push + Then.
func PushThen[T, B any](s *Sender[T], v T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(s.Push(v), next)
}

// PushBind pushes v and passes the delivery outcome to f.
// Fuses Push + Bind.
func PushBind[T, B any](s *Sender[T], v T, f func(bool) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(s.Push(v), f)
}

// CloseDone cleanly closes the sender and returns a.
// The close happens at protocol-evaluation time, not at composition
// time, so it sequences after earlier pushes in the same protocol.
func CloseDone[T, A any](s *Sender[T], a A) kont.Eff[A] {
	return kont.Bind(kont.Pure(struct{}{}), func(struct{}) kont.Eff[A] {
		s.Close()
		return kont.Pure(a)
	})
}

// AwaitEmptyThen waits for the slot to drain and continues with next.
// Fuses AwaitEmpty + Then.
func AwaitEmptyThen[T, B any](r *Receiver[T], next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(r.AwaitEmpty(), next)
}
