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
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"
)

// EntryFunc is the entry point of a spawned process. Entry points are
// produced by a separate code-generation stage, so the runtime treats them
// as an opaque function plus an opaque argument blob and invokes them
// uniformly. The context handle is the process's view into the runtime:
// receive, send, link, monitor and the reduction checkpoint all hang off it.
type EntryFunc func(ctx *Context, args []byte)

// TerminateFunc is invoked exactly once, after exit propagation and before
// final teardown, when the process it is attached to exits.
type TerminateFunc func(pid PID, reason ExitReason)

// Process is the control block of one actor: identity, lifecycle state,
// scheduling priority, the owned heap and mailbox, the links relation and
// the exit-trapping flag.
//
// Locking: mu guards state, exitReason, heap writes, the wake timer and the
// watchers map. The links set is internally synchronized. The process-table
// lock is never acquired while mu is held.
type Process struct {
	pid      PID
	priority Priority

	mu         sync.Mutex
	state      ProcessState
	exitReason ExitReason
	heap       *Heap
	wakeTimer  *time.Timer     // pending receive timeout, nil outside a timed wait
	watchers   map[Ref]PID     // monitor ref -> observer
	terminate  TerminateFunc

	mailbox   Mailbox
	links     mapset.Set[PID]
	trapExit  *atomic.Bool
	finalized *atomic.Bool // exactly-once teardown guard

	ctx    *Context
	worker int // index of the worker whose ready queue the process favors
}

func newProcess(pid PID, priority Priority, heap *Heap, mailbox Mailbox) *Process {
	return &Process{
		pid:       pid,
		priority:  priority,
		state:     StateReady,
		heap:      heap,
		mailbox:   mailbox,
		watchers:  make(map[Ref]PID),
		links:     mapset.NewSet[PID](),
		trapExit:  atomic.NewBool(false),
		finalized: atomic.NewBool(false),
	}
}

// ID returns the process id.
func (p *Process) ID() PID {
	return p.pid
}

// Priority returns the scheduling tier the process was spawned with.
func (p *Process) Priority() Priority {
	return p.priority
}

// State returns the current lifecycle state.
func (p *Process) State() ProcessState {
	p.mu.Lock()
	s := p.state
	p.mu.Unlock()
	return s
}

// ExitReason returns the reason the process exited with. Only meaningful
// once State reports StateExited.
func (p *Process) ExitReason() ExitReason {
	p.mu.Lock()
	r := p.exitReason
	p.mu.Unlock()
	return r
}

// TrapExit reports whether the process converts crash-inducing exit signals
// into ordinary messages.
func (p *Process) TrapExit() bool {
	return p.trapExit.Load()
}

// SetTrapExit flips the exit-trapping flag.
func (p *Process) SetTrapExit(trap bool) {
	p.trapExit.Store(trap)
}

// Links returns a snapshot of the linked peer ids.
func (p *Process) Links() []PID {
	return p.links.ToSlice()
}

// MailboxLen returns a snapshot of the number of buffered messages.
func (p *Process) MailboxLen() int64 {
	return p.mailbox.Len()
}

// HeapSize returns the number of bytes allocated on the process heap.
func (p *Process) HeapSize() int64 {
	p.mu.Lock()
	n := p.heap.Size()
	p.mu.Unlock()
	return n
}

// exited reports whether the process reached the terminal state.
func (p *Process) exited() bool {
	return p.State() == StateExited
}

// setExitedLocked transitions into the terminal state. Returns false when
// the process had already exited; the terminal state is idempotent and the
// first reason wins. Caller must hold mu.
func (p *Process) setExitedLocked(reason ExitReason) bool {
	if p.state == StateExited {
		return false
	}
	p.state = StateExited
	p.exitReason = reason
	p.stopWakeTimerLocked()
	return true
}

// markExited is setExitedLocked with locking.
func (p *Process) markExited(reason ExitReason) bool {
	p.mu.Lock()
	ok := p.setExitedLocked(reason)
	p.mu.Unlock()
	return ok
}

// stopWakeTimerLocked cancels a pending receive timeout. Caller must hold mu.
func (p *Process) stopWakeTimerLocked() {
	if p.wakeTimer != nil {
		p.wakeTimer.Stop()
		p.wakeTimer = nil
	}
}
