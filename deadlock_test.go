// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe_test

import (
	"strings"
	"testing"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/pipe"
)

func TestDrainDeadlockPanics(t *testing.T) {
	act := pipe.NewActivity()
	_, r := pipe.New[int]()

	// A lone consumer on an open pipe can never be woken: there is no
	// producer protocol and no external wake source.
	pipe.Spawn(act, "orphan", r.Next(), nil)

	defer func() {
		rec := recover()
		if rec == nil {
			t.Fatal("expected deadlock panic from Drain")
		}
		msg, ok := rec.(string)
		if !ok || !strings.Contains(msg, "deadlock") {
			t.Fatalf("unexpected panic: %v", rec)
		}
	}()
	act.Drain()
}

func TestExecSuspensionPanics(t *testing.T) {
	act := pipe.NewActivity()
	s, _ := pipe.New[int]()

	defer func() {
		rec := recover()
		if rec == nil {
			t.Fatal("expected panic from Exec on a parked operation")
		}
		msg, ok := rec.(string)
		if !ok || !strings.Contains(msg, "Exec suspended") {
			t.Fatalf("unexpected panic: %v", rec)
		}
	}()
	pipe.Exec(act, s.Push(1))
}

func TestDrainCompletesAfterPanicRecovery(t *testing.T) {
	act := pipe.NewActivity()

	func() {
		_, r := pipe.New[int]()
		pipe.Spawn(act, "orphan", r.Next(), nil)
		defer func() { recover() }()
		act.Drain()
	}()

	// A fresh activity stays usable for later pipes.
	act2 := pipe.NewActivity()
	s, r := pipe.New[int]()
	producer := pipe.PushThen(&s, 1, pipe.CloseDone(&s, struct{}{}))
	consumer := pipe.NextBind(&r, func(nr *pipe.NextResult[int]) kont.Eff[bool] {
		return kont.Pure(nr.HasValue())
	})
	_, delivered := pipe.Run(act2, producer, consumer)
	if !delivered {
		t.Fatal("fresh activity failed to deliver")
	}
}
