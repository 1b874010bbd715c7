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
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/procyon-rt/procyon/errors"
	"github.com/procyon-rt/procyon/internal/syncmap"
	"github.com/procyon-rt/procyon/log"
)

// Scheduler multiplexes processes over a fixed pool of workers. It owns the
// process table, allocates identities, and is the only component that
// creates, resumes, parks and reaps processes.
//
// Lock ordering: the process table has its own lock and individual
// processes have theirs. Table operations are never performed while holding
// a process lock across a suspension point; process locks are leaf locks.
type Scheduler struct {
	id     string
	logger log.Logger

	reductionBudget int32
	heapChunkSize   int
	shutdownTimeout time.Duration
	mailboxProvider MailboxProvider

	table    *syncmap.SyncMap[PID, *Process]
	monitors *syncmap.SyncMap[Ref, PID] // monitor ref -> monitored pid

	workers []*worker
	eg      *errgroup.Group
	stopCh  chan struct{}

	nextPID    *atomic.Uint64
	nextRef    *atomic.Uint64
	nextWorker *atomic.Uint32
	started    *atomic.Bool
	stopped    *atomic.Bool

	stats schedulerStats
}

// schedulerStats carries the runtime's lightweight observability counters.
type schedulerStats struct {
	spawned     *atomic.Int64
	alive       *atomic.Int64
	steals      *atomic.Int64
	preemptions *atomic.Int64
}

// Stats is a point-in-time snapshot of scheduler counters.
type Stats struct {
	// Spawned is the total number of processes ever spawned.
	Spawned int64
	// Alive is the number of processes currently in the table.
	Alive int64
	// Steals counts ready-queue steals between workers.
	Steals int64
	// Preemptions counts reduction-budget yields.
	Preemptions int64
	// Workers is the size of the worker pool, zero before Start.
	Workers int
}

// New creates a scheduler. It accepts no work until Start is called.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		id:              uuid.NewString(),
		logger:          log.DefaultLogger,
		reductionBudget: DefaultReductionBudget,
		heapChunkSize:   DefaultHeapChunkSize,
		shutdownTimeout: DefaultShutdownTimeout,
		table:           syncmap.New[PID, *Process](),
		monitors:        syncmap.New[Ref, PID](),
		stopCh:          make(chan struct{}),
		nextPID:         atomic.NewUint64(0),
		nextRef:         atomic.NewUint64(0),
		nextWorker:      atomic.NewUint32(0),
		started:         atomic.NewBool(false),
		stopped:         atomic.NewBool(false),
		stats: schedulerStats{
			spawned:     atomic.NewInt64(0),
			alive:       atomic.NewInt64(0),
			steals:      atomic.NewInt64(0),
			preemptions: atomic.NewInt64(0),
		},
	}
	for _, opt := range opts {
		opt.Apply(s)
	}
	return s
}

// Start brings up the worker pool. It is idempotent: a second call is a
// no-op. numWorkers <= 0 selects the CPU core count.
func (s *Scheduler) Start(numWorkers int) error {
	if s.stopped.Load() {
		return errors.ErrSchedulerStopped
	}
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	s.workers = make([]*worker, numWorkers)
	for i := range s.workers {
		s.workers[i] = newWorker(i, s)
	}

	s.eg = new(errgroup.Group)
	for _, w := range s.workers {
		s.eg.Go(w.run)
	}

	s.logger.Infof("scheduler %s started with %d workers", s.id, numWorkers)
	return nil
}

// Running reports whether the scheduler accepts work.
func (s *Scheduler) Running() bool {
	return s.started.Load() && !s.stopped.Load()
}

// ID returns the scheduler instance identity used in logs.
func (s *Scheduler) ID() string {
	return s.id
}

// Logger returns the scheduler logger.
func (s *Scheduler) Logger() log.Logger {
	return s.logger
}

// Stats returns a snapshot of the scheduler counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Spawned:     s.stats.spawned.Load(),
		Alive:       s.stats.alive.Load(),
		Steals:      s.stats.steals.Load(),
		Preemptions: s.stats.preemptions.Load(),
		Workers:     len(s.workers),
	}
}

// Spawn creates a process running the given entry point and makes it
// runnable. Spawns from outside any process are spread over workers
// round-robin; use Context.Spawn from inside a process to favor the
// spawning worker's queue.
func (s *Scheduler) Spawn(entry EntryFunc, args []byte, opts ...SpawnOption) (PID, error) {
	return s.spawn(entry, args, int(s.nextWorker.Inc()), opts...)
}

func (s *Scheduler) spawn(entry EntryFunc, args []byte, workerIdx int, opts ...SpawnOption) (PID, error) {
	if !s.started.Load() {
		return NoPID, errors.ErrSchedulerNotStarted
	}
	if s.stopped.Load() {
		return NoPID, errors.ErrSchedulerStopped
	}

	cfg := spawnConfig{priority: PriorityNormal}
	for _, opt := range opts {
		opt(&cfg)
	}

	mailbox := cfg.mailbox
	if mailbox == nil {
		if s.mailboxProvider != nil {
			mailbox = s.mailboxProvider()
		} else {
			mailbox = NewDefaultMailbox()
		}
	}

	pid := PID(s.nextPID.Inc())
	p := newProcess(pid, cfg.priority, newHeap(s.heapChunkSize), mailbox)
	p.terminate = cfg.terminate
	p.trapExit.Store(cfg.trapExit)
	p.worker = workerIdx % len(s.workers)
	newContext(s, p, entry, args)

	s.table.Set(pid, p)
	if cfg.linkTo != NoPID {
		if err := s.Link(pid, cfg.linkTo); err != nil {
			s.table.Delete(pid)
			return NoPID, err
		}
	}

	s.stats.spawned.Inc()
	s.stats.alive.Inc()
	s.logger.Debugf("spawned process %s on worker %d", pid, p.worker)
	s.enqueue(p)
	return pid, nil
}

// Process looks up a process by id. Exited processes disappear from the
// table once reaped.
func (s *Scheduler) Process(pid PID) (*Process, bool) {
	return s.table.Get(pid)
}

// Send deep-copies the payload into the target's heap and appends it to the
// target's mailbox, waking the target when it is parked in a receive. Never
// blocks the caller. Tags inside the reserved signal range are rejected.
func (s *Scheduler) Send(target PID, tag uint64, payload []byte) error {
	if tag >= reservedTagFloor {
		return errors.ErrReservedTag
	}
	p, ok := s.table.Get(target)
	if !ok {
		return errors.ErrProcessNotFound
	}

	p.mu.Lock()
	if p.state == StateExited {
		p.mu.Unlock()
		return errors.ErrDead
	}
	msg := p.heap.writeMessage(tag, payload)
	if err := p.mailbox.Enqueue(msg); err != nil {
		p.mu.Unlock()
		return err
	}
	// push and wake form one critical section: a sender that observes
	// Waiting is the one that re-enqueues the target, so no message can
	// land in a mailbox whose owner stays parked
	wake := p.state == StateWaiting
	if wake {
		p.state = StateReady
		p.stopWakeTimerLocked()
	}
	p.mu.Unlock()

	if wake {
		s.enqueue(p)
	}
	return nil
}

// deliverSignal is Send for runtime control signals: it bypasses tag
// validation and silently drops signals to exited processes. A full bounded
// mailbox rejects signals like any other message; the drop is logged, and
// the trade-off is documented on BoundedMailbox.
func (s *Scheduler) deliverSignal(p *Process, tag uint64, payload []byte) {
	p.mu.Lock()
	if p.state == StateExited {
		p.mu.Unlock()
		return
	}
	msg := p.heap.writeMessage(tag, payload)
	if err := p.mailbox.Enqueue(msg); err != nil {
		p.mu.Unlock()
		s.logger.Warnf("dropping signal %#x for process %s: %v", tag, p.pid, err)
		return
	}
	wake := p.state == StateWaiting
	if wake {
		p.state = StateReady
		p.stopWakeTimerLocked()
	}
	p.mu.Unlock()

	if wake {
		s.enqueue(p)
	}
}

// Wake transitions a Waiting process back to Ready and re-enqueues it.
// Processes in any other state are left alone.
func (s *Scheduler) Wake(pid PID) error {
	p, ok := s.table.Get(pid)
	if !ok {
		return errors.ErrProcessNotFound
	}
	s.wakeExpired(p)
	return nil
}

// wakeExpired wakes a parked process; it is a no-op unless the process is
// still Waiting. Shared between the receive-timeout callback and Wake, so a
// still-pending timer must be stopped or it would cut short the process's
// next timed receive.
func (s *Scheduler) wakeExpired(p *Process) {
	p.mu.Lock()
	if p.state != StateWaiting {
		p.mu.Unlock()
		return
	}
	p.state = StateReady
	p.stopWakeTimerLocked()
	p.mu.Unlock()
	s.enqueue(p)
}

// Kill forces the target into the terminal state with the given reason.
// Killing an already-exited process is a no-op.
func (s *Scheduler) Kill(pid PID, reason ExitReason) error {
	p, ok := s.table.Get(pid)
	if !ok {
		return errors.ErrProcessNotFound
	}

	p.mu.Lock()
	prior := p.state
	terminated := p.setExitedLocked(reason)
	p.mu.Unlock()

	if !terminated {
		return nil
	}
	if prior == StateWaiting {
		// hand the corpse to a worker so the parked goroutine unwinds
		s.enqueue(p)
	}
	return nil
}

// SetTerminateCallback attaches a cleanup callback invoked exactly once,
// after exit propagation and before teardown, when the process exits.
func (s *Scheduler) SetTerminateCallback(pid PID, fn TerminateFunc) error {
	p, ok := s.table.Get(pid)
	if !ok {
		return errors.ErrProcessNotFound
	}
	p.mu.Lock()
	p.terminate = fn
	p.mu.Unlock()
	return nil
}

// enqueue places a runnable process on its favored worker's queue. Before
// Start and after Shutdown this is a no-op; state transitions still happen
// so exits remain observable.
func (s *Scheduler) enqueue(p *Process) {
	if len(s.workers) == 0 || s.stopped.Load() {
		return
	}
	s.workers[p.worker%len(s.workers)].push(p)
}

// finalize runs the one-and-only teardown of a process: link propagation,
// DOWN notifications, the terminate callback, resource release and reaping.
func (s *Scheduler) finalize(p *Process, reason ExitReason) {
	if !p.finalized.CompareAndSwap(false, true) {
		return
	}
	p.markExited(reason) // no-op when the state is already terminal
	reason = p.ExitReason()

	s.logger.Debugf("process %s exited: %s", p.pid, reason)
	s.propagateExit(p, reason)
	s.notifyWatchers(p, reason)

	p.mu.Lock()
	terminate := p.terminate
	p.mu.Unlock()
	if terminate != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Errorf("terminate callback of process %s panicked: %v", p.pid, r)
				}
			}()
			terminate(p.pid, reason)
		}()
	}

	p.mu.Lock()
	p.heap.release()
	p.mu.Unlock()
	p.mailbox.Dispose()
	s.table.Delete(p.pid)
	s.stats.alive.Dec()
}

// Shutdown stops the scheduler: intake is closed, workers drain their
// current slice and stop, and every surviving process is killed with the
// Killed reason and finalized. The context bounds the wait for workers; a
// context without a deadline gets the configured shutdown timeout.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	if !s.started.Load() {
		return errors.ErrSchedulerNotStarted
	}
	if !s.stopped.CompareAndSwap(false, true) {
		return nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
	}

	close(s.stopCh)

	done := make(chan error, 1)
	go func() { done <- s.eg.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	// workers are quiescent: every surviving context is parked at a
	// suspension point and can be unwound directly
	for _, pid := range s.table.Keys() {
		p, ok := s.table.Get(pid)
		if !ok {
			continue
		}
		p.markExited(KilledReason())
		if p.ctx.started {
			p.ctx.resumeCh <- struct{}{}
			<-p.ctx.yieldCh
		} else {
			s.finalize(p, KilledReason())
		}
	}

	s.logger.Infof("scheduler %s stopped", s.id)
	return nil
}
