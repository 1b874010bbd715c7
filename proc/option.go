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
	"time"

	"github.com/procyon-rt/procyon/log"
)

// Option configures the scheduler at construction time.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(*Scheduler)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Scheduler)

// Apply applies the options to the scheduler.
func (f OptionFunc) Apply(s *Scheduler) {
	f(s)
}

// WithLogger sets the scheduler logger.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(s *Scheduler) {
		s.logger = logger
	})
}

// WithReductionBudget sets how many reductions a process may burn before a
// checkpoint forces it to yield. Values below one are ignored.
func WithReductionBudget(budget int32) Option {
	return OptionFunc(func(s *Scheduler) {
		if budget > 0 {
			s.reductionBudget = budget
		}
	})
}

// WithHeapChunkSize sets the slab size of per-process heap arenas. Values
// below one are ignored.
func WithHeapChunkSize(size int) Option {
	return OptionFunc(func(s *Scheduler) {
		if size > 0 {
			s.heapChunkSize = size
		}
	})
}

// WithMailboxProvider sets the factory used for mailboxes of processes that
// do not carry their own.
func WithMailboxProvider(provider MailboxProvider) Option {
	return OptionFunc(func(s *Scheduler) {
		s.mailboxProvider = provider
	})
}

// WithShutdownTimeout bounds how long Shutdown waits for workers when the
// caller's context has no deadline.
func WithShutdownTimeout(timeout time.Duration) Option {
	return OptionFunc(func(s *Scheduler) {
		if timeout > 0 {
			s.shutdownTimeout = timeout
		}
	})
}

// spawnConfig collects the per-process knobs.
type spawnConfig struct {
	priority  Priority
	mailbox   Mailbox
	terminate TerminateFunc
	trapExit  bool
	linkTo    PID
}

// SpawnOption configures a single spawn.
type SpawnOption func(*spawnConfig)

// SpawnWithPriority selects the scheduling tier of the new process.
func SpawnWithPriority(priority Priority) SpawnOption {
	return func(cfg *spawnConfig) {
		if priority >= PriorityLow && priority <= PriorityHigh {
			cfg.priority = priority
		}
	}
}

// SpawnWithMailbox gives the new process a specific mailbox instead of the
// scheduler-provided default.
func SpawnWithMailbox(mailbox Mailbox) SpawnOption {
	return func(cfg *spawnConfig) {
		cfg.mailbox = mailbox
	}
}

// SpawnWithTerminate attaches a cleanup callback invoked once when the
// process exits.
func SpawnWithTerminate(fn TerminateFunc) SpawnOption {
	return func(cfg *spawnConfig) {
		cfg.terminate = fn
	}
}

// SpawnWithTrapExit spawns the process with exit trapping already on, so no
// signal can slip in between spawn and the first SetTrapExit.
func SpawnWithTrapExit() SpawnOption {
	return func(cfg *spawnConfig) {
		cfg.trapExit = true
	}
}

// SpawnWithLink links the new process to the given one before it first
// runs.
func SpawnWithLink(pid PID) SpawnOption {
	return withLinkTo(pid)
}

func withLinkTo(pid PID) SpawnOption {
	return func(cfg *spawnConfig) {
		cfg.linkTo = pid
	}
}
