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

import "github.com/procyon-rt/procyon/errors"

// Link establishes a symmetric link between two live processes. Linking a
// process to itself is a no-op, and linking twice is the same as linking
// once.
func (s *Scheduler) Link(a, b PID) error {
	if a == b {
		return nil
	}
	pa, ok := s.table.Get(a)
	if !ok {
		return errors.ErrProcessNotFound
	}
	pb, ok := s.table.Get(b)
	if !ok {
		return errors.ErrProcessNotFound
	}
	if pa.exited() || pb.exited() {
		return errors.ErrDead
	}

	pa.links.Add(b)
	pb.links.Add(a)

	// a peer that exited between the liveness check and the edge insertion
	// has already run its propagation pass and missed the fresh edge
	if pb.exited() || pa.exited() {
		pa.links.Remove(b)
		pb.links.Remove(a)
		return errors.ErrDead
	}
	return nil
}

// Unlink removes the symmetric link between two processes. Removing a link
// that does not exist, or that points at a dead process, succeeds silently.
func (s *Scheduler) Unlink(a, b PID) error {
	if pa, ok := s.table.Get(a); ok {
		pa.links.Remove(b)
	}
	if pb, ok := s.table.Get(b); ok {
		pb.links.Remove(a)
	}
	return nil
}

// propagateExit walks the exiting process's links and delivers the exit to
// every peer: trapping peers (and peers of clean exits) get an exit-signal
// message, everything else is crashed with a Linked reason. Both directions
// of each edge are removed so the relation never holds dead processes.
func (s *Scheduler) propagateExit(p *Process, reason ExitReason) {
	peers := p.links.ToSlice()
	if len(peers) == 0 {
		return
	}

	crashes := reason.Crashes()
	for _, peer := range peers {
		p.links.Remove(peer)
		q, ok := s.table.Get(peer)
		if !ok {
			continue
		}
		q.links.Remove(p.pid)
		if q.exited() {
			continue
		}
		if !crashes || q.TrapExit() {
			s.deliverSignal(q, TagExitSignal, EncodeExitSignal(p.pid, reason))
			continue
		}
		s.crashPeer(q, LinkedReason(p.pid, reason))
	}
}

// crashPeer terminates a linked peer. The cascade is transitive: the peer's
// own finalize will run propagateExit with the wrapped Linked reason.
func (s *Scheduler) crashPeer(q *Process, reason ExitReason) {
	q.mu.Lock()
	prior := q.state
	terminated := q.setExitedLocked(reason)
	q.mu.Unlock()

	if !terminated {
		return
	}
	if prior == StateWaiting {
		// re-enqueue so a worker unwinds the parked goroutine
		s.enqueue(q)
	}
}
