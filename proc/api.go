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
	"sync"

	"github.com/procyon-rt/procyon/errors"
)

// The package-level API fronts a single shared scheduler for hosts that run
// one runtime per program. Embedders that need several isolated runtimes
// create Scheduler values directly.

var (
	defaultMu        sync.Mutex
	defaultScheduler *Scheduler
)

// Init starts the shared scheduler. The first call wins; later calls return
// the already-running instance.
func Init(numWorkers int, opts ...Option) (*Scheduler, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultScheduler != nil {
		return defaultScheduler, nil
	}
	s := New(opts...)
	if err := s.Start(numWorkers); err != nil {
		return nil, err
	}
	defaultScheduler = s
	return s, nil
}

// Default returns the shared scheduler started by Init.
func Default() (*Scheduler, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultScheduler == nil {
		return nil, errors.ErrSchedulerNotStarted
	}
	return defaultScheduler, nil
}

// Spawn creates a process on the shared scheduler.
func Spawn(entry EntryFunc, args []byte, opts ...SpawnOption) (PID, error) {
	s, err := Default()
	if err != nil {
		return NoPID, err
	}
	return s.Spawn(entry, args, opts...)
}

// Send delivers a message through the shared scheduler.
func Send(target PID, tag uint64, payload []byte) error {
	s, err := Default()
	if err != nil {
		return err
	}
	return s.Send(target, tag, payload)
}

// Link links two processes on the shared scheduler.
func Link(a, b PID) error {
	s, err := Default()
	if err != nil {
		return err
	}
	return s.Link(a, b)
}

// Unlink unlinks two processes on the shared scheduler.
func Unlink(a, b PID) error {
	s, err := Default()
	if err != nil {
		return err
	}
	return s.Unlink(a, b)
}

// Monitor registers a monitor on the shared scheduler.
func Monitor(observer, target PID) (Ref, error) {
	s, err := Default()
	if err != nil {
		return 0, err
	}
	return s.Monitor(observer, target)
}

// Demonitor removes a monitor on the shared scheduler.
func Demonitor(ref Ref) error {
	s, err := Default()
	if err != nil {
		return err
	}
	return s.Demonitor(ref)
}

// Kill terminates a process on the shared scheduler.
func Kill(pid PID, reason ExitReason) error {
	s, err := Default()
	if err != nil {
		return err
	}
	return s.Kill(pid, reason)
}

// Wake re-enqueues a parked process on the shared scheduler.
func Wake(pid PID) error {
	s, err := Default()
	if err != nil {
		return err
	}
	return s.Wake(pid)
}

// GetProcess looks up a process on the shared scheduler.
func GetProcess(pid PID) (*Process, error) {
	s, err := Default()
	if err != nil {
		return nil, err
	}
	p, ok := s.Process(pid)
	if !ok {
		return nil, errors.ErrProcessNotFound
	}
	return p, nil
}

// SetTerminateCallback attaches a terminate callback on the shared
// scheduler.
func SetTerminateCallback(pid PID, fn TerminateFunc) error {
	s, err := Default()
	if err != nil {
		return err
	}
	return s.SetTerminateCallback(pid, fn)
}

// Shutdown stops the shared scheduler and clears it, so a later Init can
// start a fresh one.
func Shutdown(ctx context.Context) error {
	defaultMu.Lock()
	s := defaultScheduler
	defaultScheduler = nil
	defaultMu.Unlock()
	if s == nil {
		return errors.ErrSchedulerNotStarted
	}
	return s.Shutdown(ctx)
}
