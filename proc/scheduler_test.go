// MIT License
//
// Copyright (c) 2026 Procyon Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package proc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/procyon-rt/procyon/errors"
	"github.com/procyon-rt/procyon/log"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const waitTimeout = 5 * time.Second

func startTestScheduler(t *testing.T, numWorkers int, opts ...Option) *Scheduler {
	t.Helper()
	opts = append([]Option{WithLogger(log.DiscardLogger)}, opts...)
	s := New(opts...)
	require.NoError(t, s.Start(numWorkers))
	t.Cleanup(func() {
		_ = s.Shutdown(context.Background())
	})
	return s
}

func waitReason(t *testing.T, ch <-chan ExitReason) ExitReason {
	t.Helper()
	select {
	case reason := <-ch:
		return reason
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for exit reason")
		return ExitReason{}
	}
}

func waitBytes(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case b := <-ch:
		return b
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for payload")
		return nil
	}
}

func terminateInto(ch chan<- ExitReason) SpawnOption {
	return SpawnWithTerminate(func(_ PID, reason ExitReason) {
		ch <- reason
	})
}

func TestSchedulerStartIsIdempotent(t *testing.T) {
	s := startTestScheduler(t, 2)
	require.NoError(t, s.Start(8))
	assert.Equal(t, 2, s.Stats().Workers)
	assert.True(t, s.Running())
}

func TestSpawnRequiresStart(t *testing.T) {
	s := New(WithLogger(log.DiscardLogger))
	_, err := s.Spawn(func(*Context, []byte) {}, nil)
	assert.ErrorIs(t, err, errors.ErrSchedulerNotStarted)
}

func TestShutdownRequiresStart(t *testing.T) {
	s := New(WithLogger(log.DiscardLogger))
	assert.ErrorIs(t, s.Shutdown(context.Background()), errors.ErrSchedulerNotStarted)
}

func TestSpawnRunsEntryWithArgs(t *testing.T) {
	s := startTestScheduler(t, 2)

	got := make(chan []byte, 1)
	pid, err := s.Spawn(func(ctx *Context, args []byte) {
		got <- append([]byte(nil), args...)
	}, []byte("bootstrap"))
	require.NoError(t, err)
	require.NotEqual(t, NoPID, pid)

	assert.Equal(t, []byte("bootstrap"), waitBytes(t, got))
}

func TestSendDeliversToBlockedReceiver(t *testing.T) {
	s := startTestScheduler(t, 2)

	got := make(chan []byte, 1)
	pid, err := s.Spawn(func(ctx *Context, _ []byte) {
		msg := ctx.Receive(-1)
		got <- append([]byte(nil), msg.Payload()...)
	}, nil)
	require.NoError(t, err)

	require.NoError(t, s.Send(pid, TagOf("ping"), []byte("payload")))
	assert.Equal(t, []byte("payload"), waitBytes(t, got))
}

func TestPingPongBetweenProcesses(t *testing.T) {
	s := startTestScheduler(t, 4)

	got := make(chan []byte, 1)
	_, err := s.Spawn(func(ctx *Context, _ []byte) {
		self := ctx.Self()
		echo, err := ctx.Spawn(func(cctx *Context, _ []byte) {
			msg := cctx.Receive(-1)
			_ = cctx.Send(self, TagOf("pong"), msg.Payload())
		}, nil)
		if err != nil {
			got <- nil
			return
		}
		_ = ctx.Send(echo, TagOf("ping"), []byte("round trip"))
		msg := ctx.Receive(-1)
		got <- append([]byte(nil), msg.Payload()...)
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []byte("round trip"), waitBytes(t, got))
}

func TestReceiveZeroTimeoutPolls(t *testing.T) {
	s := startTestScheduler(t, 2)

	got := make(chan []byte, 2)
	pid, err := s.Spawn(func(ctx *Context, _ []byte) {
		if msg := ctx.Receive(0); msg == nil {
			got <- nil
		}
		msg := ctx.Receive(-1)
		if ctx.Receive(0) != nil {
			got <- nil
			return
		}
		got <- append([]byte(nil), msg.Payload()...)
	}, nil)
	require.NoError(t, err)

	assert.Nil(t, waitBytes(t, got))
	require.NoError(t, s.Send(pid, 1, []byte("there")))
	assert.Equal(t, []byte("there"), waitBytes(t, got))
}

func TestReceiveTimeoutExpires(t *testing.T) {
	s := startTestScheduler(t, 2)

	done := make(chan []byte, 1)
	_, err := s.Spawn(func(ctx *Context, _ []byte) {
		if msg := ctx.Receive(20 * time.Millisecond); msg != nil {
			done <- msg.Payload()
			return
		}
		done <- nil
	}, nil)
	require.NoError(t, err)

	assert.Nil(t, waitBytes(t, done))
}

func TestReceiveTimeoutBeatenBySender(t *testing.T) {
	s := startTestScheduler(t, 2)

	got := make(chan []byte, 1)
	pid, err := s.Spawn(func(ctx *Context, _ []byte) {
		msg := ctx.Receive(waitTimeout)
		if msg == nil {
			got <- nil
			return
		}
		got <- append([]byte(nil), msg.Payload()...)
	}, nil)
	require.NoError(t, err)

	require.NoError(t, s.Send(pid, 1, []byte("in time")))
	assert.Equal(t, []byte("in time"), waitBytes(t, got))
}

func TestWakeDoesNotCutShortNextTimedReceive(t *testing.T) {
	s := startTestScheduler(t, 2)

	parked := make(chan []byte, 1)
	got := make(chan []byte, 1)
	pid, err := s.Spawn(func(ctx *Context, _ []byte) {
		parked <- nil
		ctx.Receive(100 * time.Millisecond)
		msg := ctx.Receive(waitTimeout)
		if msg == nil {
			got <- nil
			return
		}
		got <- append([]byte(nil), msg.Payload()...)
	}, nil)
	require.NoError(t, err)

	waitBytes(t, parked)
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, s.Wake(pid))

	// past the first receive's deadline: a timer the wake failed to stop
	// would now fire into the second receive and return it empty
	time.Sleep(300 * time.Millisecond)
	require.NoError(t, s.Send(pid, 1, []byte("on time")))
	assert.Equal(t, []byte("on time"), waitBytes(t, got))
}

func TestPreemptionSharesOneWorker(t *testing.T) {
	s := startTestScheduler(t, 1, WithReductionBudget(10))

	done := make(chan []byte, 2)
	spin := func(ctx *Context, _ []byte) {
		for i := 0; i < 500; i++ {
			ctx.ReductionCheck()
		}
		done <- nil
	}
	_, err := s.Spawn(spin, nil)
	require.NoError(t, err)
	_, err = s.Spawn(spin, nil)
	require.NoError(t, err)

	waitBytes(t, done)
	waitBytes(t, done)
	assert.Positive(t, s.Stats().Preemptions)
}

func TestKillUnblocksParkedProcess(t *testing.T) {
	s := startTestScheduler(t, 2)

	exited := make(chan ExitReason, 1)
	pid, err := s.Spawn(func(ctx *Context, _ []byte) {
		ctx.Receive(-1)
	}, nil, terminateInto(exited))
	require.NoError(t, err)

	require.NoError(t, s.Kill(pid, KilledReason()))
	assert.True(t, KilledReason().Equal(waitReason(t, exited)))
}

func TestExitWithCustomReason(t *testing.T) {
	s := startTestScheduler(t, 2)

	exited := make(chan ExitReason, 1)
	_, err := s.Spawn(func(ctx *Context, _ []byte) {
		ctx.Exit(CustomReason("mission complete"))
	}, nil, terminateInto(exited))
	require.NoError(t, err)

	assert.True(t, CustomReason("mission complete").Equal(waitReason(t, exited)))
}

func TestPanicBecomesErrorExit(t *testing.T) {
	s := startTestScheduler(t, 2)

	exited := make(chan ExitReason, 1)
	_, err := s.Spawn(func(ctx *Context, _ []byte) {
		panic("runtime bug")
	}, nil, terminateInto(exited))
	require.NoError(t, err)

	reason := waitReason(t, exited)
	assert.Equal(t, ExitError, reason.Kind)
	assert.Contains(t, reason.Text, "runtime bug")
}

func TestSpawnLinkCrashPropagates(t *testing.T) {
	s := startTestScheduler(t, 2)

	parentExit := make(chan ExitReason, 1)
	childPID := make(chan PID, 1)
	_, err := s.Spawn(func(ctx *Context, _ []byte) {
		child, err := ctx.SpawnLink(func(cctx *Context, _ []byte) {
			cctx.Exit(ErrorReason("child failure"))
		}, nil)
		if err != nil {
			return
		}
		childPID <- child
		ctx.Receive(-1)
	}, nil, terminateInto(parentExit))
	require.NoError(t, err)

	child := <-childPID
	reason := waitReason(t, parentExit)
	require.Equal(t, ExitLinked, reason.Kind)
	assert.Equal(t, child, reason.Origin)
	require.NotNil(t, reason.Inner)
	assert.True(t, ErrorReason("child failure").Equal(*reason.Inner))
}

func TestTrapExitConvertsCrashToMessage(t *testing.T) {
	s := startTestScheduler(t, 2)

	got := make(chan []byte, 1)
	_, err := s.Spawn(func(ctx *Context, _ []byte) {
		if !ctx.TrapExit() {
			got <- nil
			return
		}
		child, err := ctx.SpawnLink(func(cctx *Context, _ []byte) {
			cctx.Exit(ErrorReason("boom"))
		}, nil)
		if err != nil {
			got <- nil
			return
		}
		msg := ctx.Receive(-1)
		if msg.Tag() != TagExitSignal {
			got <- nil
			return
		}
		origin, reason, err := DecodeExitSignal(msg.Payload())
		if err != nil || origin != child || !ErrorReason("boom").Equal(reason) {
			got <- nil
			return
		}
		got <- []byte("trapped")
	}, nil, SpawnWithTrapExit())
	require.NoError(t, err)

	assert.Equal(t, []byte("trapped"), waitBytes(t, got))
}

func TestNormalChildExitDoesNotKillParent(t *testing.T) {
	s := startTestScheduler(t, 2)

	got := make(chan []byte, 1)
	_, err := s.Spawn(func(ctx *Context, _ []byte) {
		child, err := ctx.SpawnLink(func(*Context, []byte) {}, nil)
		if err != nil {
			got <- nil
			return
		}
		msg := ctx.Receive(-1)
		origin, reason, err := DecodeExitSignal(msg.Payload())
		if err != nil || origin != child || !NormalReason().Equal(reason) {
			got <- nil
			return
		}
		got <- []byte("alive")
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []byte("alive"), waitBytes(t, got))
}

func TestMonitorFromProcess(t *testing.T) {
	s := startTestScheduler(t, 2)

	got := make(chan []byte, 1)
	_, err := s.Spawn(func(ctx *Context, _ []byte) {
		child, err := ctx.Spawn(func(cctx *Context, _ []byte) {
			cctx.Exit(ShutdownReason())
		}, nil)
		if err != nil {
			got <- nil
			return
		}
		ref, err := ctx.Monitor(child)
		if err != nil {
			got <- nil
			return
		}
		msg := ctx.Receive(-1)
		gotRef, gotPID, reason, err := DecodeDownSignal(msg.Payload())
		if err != nil || msg.Tag() != TagDownSignal {
			got <- nil
			return
		}
		if gotRef != ref || gotPID != child || !ShutdownReason().Equal(reason) {
			got <- nil
			return
		}
		got <- []byte("down received")
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []byte("down received"), waitBytes(t, got))
}

func TestSpawnWithPriorityAndStats(t *testing.T) {
	s := startTestScheduler(t, 2)

	done := make(chan []byte, 1)
	pid, err := s.Spawn(func(ctx *Context, _ []byte) {
		done <- nil
	}, nil, SpawnWithPriority(PriorityHigh))
	require.NoError(t, err)
	require.NotEqual(t, NoPID, pid)
	waitBytes(t, done)

	stats := s.Stats()
	assert.Positive(t, stats.Spawned)
	assert.Equal(t, 2, stats.Workers)
}

func TestShutdownKillsSurvivors(t *testing.T) {
	s := New(WithLogger(log.DiscardLogger))
	require.NoError(t, s.Start(2))

	exited := make(chan ExitReason, 1)
	_, err := s.Spawn(func(ctx *Context, _ []byte) {
		ctx.Receive(-1)
	}, nil, terminateInto(exited))
	require.NoError(t, err)

	require.NoError(t, s.Shutdown(context.Background()))
	assert.True(t, KilledReason().Equal(waitReason(t, exited)))

	// shutdown is idempotent and the scheduler stays stopped
	require.NoError(t, s.Shutdown(context.Background()))
	_, err = s.Spawn(func(*Context, []byte) {}, nil)
	assert.ErrorIs(t, err, errors.ErrSchedulerStopped)
}

func TestPackageLevelAPI(t *testing.T) {
	s, err := Init(2, WithLogger(log.DiscardLogger))
	require.NoError(t, err)

	again, err := Init(8)
	require.NoError(t, err)
	assert.Same(t, s, again)

	got := make(chan []byte, 1)
	pid, err := Spawn(func(ctx *Context, _ []byte) {
		msg := ctx.Receive(-1)
		got <- append([]byte(nil), msg.Payload()...)
	}, nil)
	require.NoError(t, err)

	require.NoError(t, Send(pid, TagOf("hello"), []byte("via api")))
	assert.Equal(t, []byte("via api"), waitBytes(t, got))

	require.NoError(t, Shutdown(context.Background()))
	_, err = Default()
	assert.ErrorIs(t, err, errors.ErrSchedulerNotStarted)
	assert.ErrorIs(t, Shutdown(context.Background()), errors.ErrSchedulerNotStarted)
}
