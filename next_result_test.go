// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe_test

import (
	"testing"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/pipe"
)

func TestNextResultValueAfterReleasePanics(t *testing.T) {
	act := pipe.NewActivity()
	s, r := pipe.New[int]()

	producer := pipe.PushThen(&s, 8, pipe.CloseDone(&s, struct{}{}))
	// The push completes only once the result is released, so the
	// consumer releases it inside the protocol.
	consumer := kont.Bind(r.Next(), func(nr *pipe.NextResult[int]) kont.Eff[*pipe.NextResult[int]] {
		nr.Release()
		return kont.Pure(nr)
	})
	_, nr := pipe.Run(act, producer, consumer)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic reading a released result")
		}
	}()
	nr.Value()
}

func TestNextResultNoValuePanics(t *testing.T) {
	act := pipe.NewActivity()
	s, r := pipe.New[int]()
	s.Close()

	nr := pipe.Exec(act, r.Next())
	if nr.HasValue() {
		t.Fatal("drained pipe produced a value")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic reading an empty result")
		}
	}()
	nr.Value()
}

func TestNextResultDoubleReleaseNoOp(t *testing.T) {
	act := pipe.NewActivity()
	s, r := pipe.New[int]()

	producer := pipe.PushThen(&s, 8, pipe.CloseDone(&s, struct{}{}))
	// The push completes only once the result is released, so the
	// first release happens inside the protocol.
	consumer := kont.Bind(r.Next(), func(nr *pipe.NextResult[int]) kont.Eff[*pipe.NextResult[int]] {
		nr.Release()
		return kont.Pure(nr)
	})
	_, nr := pipe.Run(act, producer, consumer)
	nr.Release()
}

func TestNextResultCancelledDistinguishesTermination(t *testing.T) {
	act := pipe.NewActivity()

	sClean, rClean := pipe.New[int]()
	sClean.Close()
	clean := pipe.Exec(act, rClean.Next())
	if clean.HasValue() || clean.Cancelled() {
		t.Fatal("clean close must drain without cancellation")
	}
	clean.Release()

	sErr, rErr := pipe.New[int]()
	sErr.CloseWithError()
	errRes := pipe.Exec(act, rErr.Next())
	if errRes.HasValue() || !errRes.Cancelled() {
		t.Fatal("error close must report cancellation")
	}
	errRes.Release()
}

func TestNextResultValueStableUntilRelease(t *testing.T) {
	act := pipe.NewActivity()
	s, r := pipe.New[string]()

	producer := pipe.PushThen(&s, "payload", pipe.CloseDone(&s, struct{}{}))
	// The push completes only once the result is released, so it is
	// placed by hand and the value is taken with Exec.
	_, psusp := pipe.Step[struct{}](pipe.Reify(producer))
	pipe.Advance(act, psusp)
	nr := pipe.Exec(act, r.Next())
	if !nr.HasValue() {
		t.Fatal("value not delivered")
	}

	p := nr.Value()
	if *p != "payload" {
		t.Fatalf("got %q, want %q", *p, "payload")
	}
	// The pointer stays valid across repeated reads before release.
	if q := nr.Value(); q != p {
		t.Fatal("value pointer changed between reads")
	}
	nr.Release()
}
