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
	"math/rand/v2"
	"time"

	"github.com/procyon-rt/procyon/internal/deque"
)

// worker drives one scheduling lane: it owns a per-priority set of ready
// deques, drains them front-to-back, and steals from the back of other
// workers' deques when its own lane runs dry.
type worker struct {
	idx    int
	sched  *Scheduler
	queues [numPriorities]*deque.Deque[*Process]
	notify chan struct{}
}

func newWorker(idx int, s *Scheduler) *worker {
	w := &worker{
		idx:    idx,
		sched:  s,
		notify: make(chan struct{}, 1),
	}
	for i := range w.queues {
		w.queues[i] = deque.New[*Process]()
	}
	return w
}

// push makes the process runnable on this worker's lane and pokes the worker
// in case it is parked.
func (w *worker) push(p *Process) {
	w.queues[p.priority].PushBack(p)
	select {
	case w.notify <- struct{}{}:
	default:
	}
}

// run is the worker loop. It exits when the scheduler's stop channel closes.
func (w *worker) run() error {
	s := w.sched
	idle := time.NewTimer(stealInterval)
	defer idle.Stop()

	for {
		select {
		case <-s.stopCh:
			return nil
		default:
		}

		p := w.popLocal()
		if p == nil {
			p = w.steal()
		}
		if p == nil {
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(stealInterval)
			select {
			case <-s.stopCh:
				return nil
			case <-w.notify:
			case <-idle.C:
			}
			continue
		}

		w.execute(p)
	}
}

// popLocal drains the worker's own lane, highest priority tier first.
func (w *worker) popLocal() *Process {
	for pr := PriorityHigh; pr >= PriorityLow; pr-- {
		if p, ok := w.queues[pr].PopFront(); ok {
			return p
		}
	}
	return nil
}

// steal takes work from the back of another worker's deque. Victims are
// probed in ring order from a random starting point to spread contention.
func (w *worker) steal() *Process {
	s := w.sched
	n := len(s.workers)
	if n < 2 {
		return nil
	}
	start := rand.IntN(n)
	for i := 0; i < n; i++ {
		victim := s.workers[(start+i)%n]
		if victim == w {
			continue
		}
		for pr := PriorityHigh; pr >= PriorityLow; pr-- {
			if p, ok := victim.queues[pr].PopBack(); ok {
				s.stats.steals.Inc()
				return p
			}
		}
	}
	return nil
}

// execute resumes the process for one slice and routes it based on how the
// slice ended.
func (w *worker) execute(p *Process) {
	s := w.sched

	p.mu.Lock()
	if p.state == StateExited {
		p.mu.Unlock()
		// terminated while queued: unwind the parked goroutine, or finalize
		// directly when it never ran
		if p.ctx.started {
			p.ctx.resume()
		} else {
			s.finalize(p, p.ExitReason())
		}
		return
	}
	p.state = StateRunning
	p.worker = w.idx
	p.mu.Unlock()

	switch p.ctx.resume() {
	case yieldPreempted:
		w.push(p)
	case yieldBlocked, yieldExited:
		// blocked processes are re-enqueued by the sender or timeout that
		// wakes them; exited processes were finalized inside the context
	}
}
