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

// Monitor registers the observer as a unidirectional watcher of the target
// and returns a fresh monitor reference. Each call mints a distinct
// reference, so monitoring the same target twice yields two DOWN messages.
// Monitoring a target that is already gone delivers the DOWN immediately
// with the Noconnection reason standing in for the unknown exit.
func (s *Scheduler) Monitor(observer, target PID) (Ref, error) {
	obs, ok := s.table.Get(observer)
	if !ok {
		return 0, errors.ErrProcessNotFound
	}

	ref := Ref(s.nextRef.Inc())
	tp, ok := s.table.Get(target)
	if !ok {
		s.deliverSignal(obs, TagDownSignal, EncodeDownSignal(ref, target, NoconnectionReason()))
		return ref, nil
	}

	tp.mu.Lock()
	if tp.state == StateExited {
		reason := tp.exitReason
		tp.mu.Unlock()
		s.deliverSignal(obs, TagDownSignal, EncodeDownSignal(ref, target, reason))
		return ref, nil
	}
	tp.watchers[ref] = observer
	tp.mu.Unlock()

	s.monitors.Set(ref, target)
	return ref, nil
}

// Demonitor removes a monitor. Pending DOWN messages already in the
// observer's mailbox are not recalled.
func (s *Scheduler) Demonitor(ref Ref) error {
	target, ok := s.monitors.Get(ref)
	if !ok {
		return errors.ErrMonitorNotFound
	}
	s.monitors.Delete(ref)

	tp, ok := s.table.Get(target)
	if !ok {
		return nil
	}
	tp.mu.Lock()
	delete(tp.watchers, ref)
	tp.mu.Unlock()
	return nil
}

// notifyWatchers delivers one DOWN message per registered monitor of the
// exiting process and retires the references.
func (s *Scheduler) notifyWatchers(p *Process, reason ExitReason) {
	p.mu.Lock()
	if len(p.watchers) == 0 {
		p.mu.Unlock()
		return
	}
	watchers := make(map[Ref]PID, len(p.watchers))
	for ref, observer := range p.watchers {
		watchers[ref] = observer
	}
	p.watchers = make(map[Ref]PID)
	p.mu.Unlock()

	for ref, observer := range watchers {
		s.monitors.Delete(ref)
		obs, ok := s.table.Get(observer)
		if !ok {
			continue
		}
		s.deliverSignal(obs, TagDownSignal, EncodeDownSignal(ref, p.pid, reason))
	}
}
