// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/kont"
)

// exprReturnFrame is the pre-allocated terminal frame shared by the
// Expr-world fusions, avoiding repeated boxing of ReturnFrame{}.
var exprReturnFrame kont.Frame = kont.ReturnFrame{}

// identityResume is the identity resume function for EffectFrame construction.
// Named function produces a static function value, consistent with kont convention.
func identityResume(v kont.Erased) kont.Erased { return v }

// ExprPushThen pushes v and then continues with next, discarding the
// delivery outcome. Fuses the Push effect + ExprThen.
func ExprPushThen[T, B any](s *Sender[T], v T, next kont.Expr[B]) kont.Expr[B] {
	if s.center == nil {
		return kont.ExprThen(kont.ExprReturn(false), next)
	}
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = &Push[T]{center: s.center.ref(), value: v}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

func pushBindUnwind[B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(bool) kont.Expr[B])
	result := f(current.(bool))
	return kont.Erased(result.Value), result.Frame
}

// ExprPushBind pushes v and passes the delivery outcome to f.
// Fuses the Push effect + ExprBind.
func ExprPushBind[T, B any](s *Sender[T], v T, f func(bool) kont.Expr[B]) kont.Expr[B] {
	if s.center == nil {
		result := f(false)
		return result
	}
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = pushBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = &Push[T]{center: s.center.ref(), value: v}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}
