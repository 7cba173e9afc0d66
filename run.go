// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/kont"
)

// Run interleaves two Cont-world protocols on one activity and
// returns both results. Scheduling is exact: each side reruns only
// when a wait-set it parked on fires. Does not spawn goroutines or
// create channels.
func Run[A, B any](a *Activity, left kont.Eff[A], right kont.Eff[B]) (A, B) {
	var resultA A
	var resultB B
	Spawn(a, "left", left, func(r A) { resultA = r })
	Spawn(a, "right", right, func(r B) { resultB = r })
	a.Drain()
	return resultA, resultB
}

// RunExpr interleaves two Expr-world protocols on one activity and
// returns both results.
func RunExpr[A, B any](a *Activity, left kont.Expr[A], right kont.Expr[B]) (A, B) {
	return Run(a, Reflect(left), Reflect(right))
}
