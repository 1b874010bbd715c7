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
	"runtime/debug"
	"time"

	"github.com/procyon-rt/procyon/errors"
)

// yieldKind tells the worker how a context gave control back.
type yieldKind int8

const (
	// yieldPreempted: the reduction budget ran out; the process is Ready
	// again and must be re-enqueued.
	yieldPreempted yieldKind = iota
	// yieldBlocked: the process parked in a blocking receive; a sender or a
	// timeout will re-enqueue it.
	yieldBlocked
	// yieldExited: the process terminated and has been finalized.
	yieldExited
)

// unwindSignal is panicked inside the process goroutine when the process was
// terminated from outside (kill or link propagation) and the stack must be
// abandoned. It never escapes the context boundary.
type unwindSignal struct{}

// Context is the execution context of one process: a suspendable, resumable
// goroutine standing in for a stackful coroutine. The scheduler resumes it
// on a worker; the process body gives control back at reduction checkpoints
// and blocking receives.
//
// Everything the running process can do — discover its own identity,
// receive, send, spawn, link, monitor, exit — hangs off this handle. A
// Context must never be retained or used outside its entry function.
type Context struct {
	proc  *Process
	sched *Scheduler
	entry EntryFunc
	args  []byte

	resumeCh chan struct{}  // worker -> process: run until the next suspension point
	yieldCh  chan yieldKind // process -> worker: how the slice ended
	started  bool           // worker-confined; set before the goroutine launches

	budget int32 // remaining reductions; goroutine-local shadow counter
}

func newContext(s *Scheduler, p *Process, entry EntryFunc, args []byte) *Context {
	c := &Context{
		proc:     p,
		sched:    s,
		entry:    entry,
		args:     args,
		resumeCh: make(chan struct{}),
		yieldCh:  make(chan yieldKind),
		budget:   s.reductionBudget,
	}
	p.ctx = c
	return c
}

// resume runs the context until its next suspension point and reports how
// the slice ended. Only the worker that currently owns the process may call
// this.
func (c *Context) resume() yieldKind {
	if !c.started {
		c.started = true
		go c.run()
	} else {
		c.resumeCh <- struct{}{}
	}
	return <-c.yieldCh
}

// run executes the entry function and converts every way it can end — plain
// return, voluntary exit, external kill, panic — into exactly one finalize.
func (c *Context) run() {
	defer func() {
		reason := NormalReason()
		if r := recover(); r != nil {
			if _, unwind := r.(unwindSignal); unwind {
				// reason was already recorded on the process
				reason = c.proc.ExitReason()
			} else {
				err := errors.NewPanicError(r)
				c.sched.logger.Errorf("process %s panicked: %v\n%s", c.proc.pid, err, debug.Stack())
				reason = ErrorReason(err.Error())
			}
		}
		c.sched.finalize(c.proc, reason)
		c.yieldCh <- yieldExited
	}()

	c.entry(c, c.args)
}

// suspend parks the goroutine until the scheduler resumes it.
func (c *Context) suspend(kind yieldKind) {
	c.yieldCh <- kind
	<-c.resumeCh
}

// checkUnwind abandons the stack when the process was terminated from
// outside while it was running or parked.
func (c *Context) checkUnwind() {
	if c.proc.exited() {
		panic(unwindSignal{})
	}
}

// Self returns the id of the running process.
func (c *Context) Self() PID {
	return c.proc.pid
}

// Scheduler returns the scheduler this process runs on.
func (c *Context) Scheduler() *Scheduler {
	return c.sched
}

// ReductionCheck is the cooperative preemption point. Compiled code inserts
// it at loop back-edges and call sites; it burns one reduction and, once the
// budget is exhausted, resets the budget and hands the worker back to the
// scheduler. Preemption only ever happens here and in Receive: a loop with
// no checkpoint monopolizes its worker.
func (c *Context) ReductionCheck() {
	c.budget--
	if c.budget > 0 {
		return
	}
	c.budget = c.sched.reductionBudget

	p := c.proc
	p.mu.Lock()
	if p.state == StateExited {
		p.mu.Unlock()
		panic(unwindSignal{})
	}
	p.state = StateReady
	p.mu.Unlock()

	c.sched.stats.preemptions.Inc()
	c.suspend(yieldPreempted)
	c.checkUnwind()
}

// Receive dequeues the next mailbox message in FIFO order.
//
// Timeout modes:
//   - negative: block until a message arrives
//   - zero:     return immediately, nil when nothing is queued
//   - positive: block up to the given duration, then return nil
func (c *Context) Receive(timeout time.Duration) *Message {
	c.checkUnwind()
	p := c.proc

	if msg := p.mailbox.Dequeue(); msg != nil {
		return msg
	}
	if timeout == 0 {
		return nil
	}

	for {
		// Arm the wait under the process lock so a concurrent send cannot
		// slip between the empty check and the state change: the sender
		// takes the same lock for its push-then-wake sequence.
		p.mu.Lock()
		if msg := p.mailbox.Dequeue(); msg != nil {
			p.mu.Unlock()
			return msg
		}
		if p.state == StateExited {
			p.mu.Unlock()
			panic(unwindSignal{})
		}
		p.state = StateWaiting
		if timeout > 0 {
			p.wakeTimer = time.AfterFunc(timeout, func() {
				c.sched.wakeExpired(p)
			})
		}
		p.mu.Unlock()

		c.suspend(yieldBlocked)

		p.mu.Lock()
		p.stopWakeTimerLocked()
		p.mu.Unlock()
		c.checkUnwind()

		msg := p.mailbox.Dequeue()
		if msg != nil || timeout > 0 {
			// timed waits do a single round: a nil result here means the
			// timer fired before any sender showed up
			return msg
		}
	}
}

// Send deep-copies the payload into the target's heap and appends it to the
// target's mailbox. Never blocks.
func (c *Context) Send(target PID, tag uint64, payload []byte) error {
	return c.sched.Send(target, tag, payload)
}

// Spawn creates a child process running the given entry point. The child is
// placed on the spawning worker's ready queue.
func (c *Context) Spawn(entry EntryFunc, args []byte, opts ...SpawnOption) (PID, error) {
	return c.sched.spawn(entry, args, c.proc.worker, opts...)
}

// SpawnLink is Spawn plus an atomic bidirectional link between the running
// process and the child, established before the child first runs.
func (c *Context) SpawnLink(entry EntryFunc, args []byte, opts ...SpawnOption) (PID, error) {
	opts = append(opts, withLinkTo(c.proc.pid))
	return c.sched.spawn(entry, args, c.proc.worker, opts...)
}

// Link establishes a bidirectional link between the running process and the
// target. Idempotent.
func (c *Context) Link(target PID) error {
	return c.sched.Link(c.proc.pid, target)
}

// Unlink removes the bidirectional link between the running process and the
// target. Idempotent.
func (c *Context) Unlink(target PID) error {
	return c.sched.Unlink(c.proc.pid, target)
}

// Monitor starts monitoring the target and returns a fresh reference. When
// the target exits the running process receives a DOWN message; monitors
// never crash the observer.
func (c *Context) Monitor(target PID) (Ref, error) {
	return c.sched.Monitor(c.proc.pid, target)
}

// Demonitor removes a monitor previously registered by Monitor.
func (c *Context) Demonitor(ref Ref) error {
	return c.sched.Demonitor(ref)
}

// TrapExit reports whether the running process traps exit signals.
func (c *Context) TrapExit() bool {
	return c.proc.TrapExit()
}

// SetTrapExit flips exit trapping for the running process. A trapping
// process receives crash-inducing exit signals as ordinary messages instead
// of dying with its linked peers.
func (c *Context) SetTrapExit(trap bool) {
	c.proc.SetTrapExit(trap)
}

// Exit terminates the running process with the given reason. It does not
// return.
func (c *Context) Exit(reason ExitReason) {
	c.proc.markExited(reason)
	panic(unwindSignal{})
}
