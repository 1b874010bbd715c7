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

// Package errors defines the sentinel errors surfaced by the runtime.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrSchedulerNotStarted is returned when attempting to use the scheduler
	// before it has been initialized.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrSchedulerStopped is returned when the scheduler is shutting down and
	// no longer accepts work.
	ErrSchedulerStopped = errors.New("scheduler is stopped")

	// ErrProcessNotFound is returned when the given process id is not present
	// in the process table.
	ErrProcessNotFound = errors.New("process not found")

	// ErrDead indicates that the target process has already exited.
	ErrDead = errors.New("process is not alive")

	// ErrMonitorNotFound is returned when demonitoring an unknown reference.
	ErrMonitorNotFound = errors.New("monitor reference not found")

	// ErrShortSignal is returned when decoding a truncated exit or DOWN
	// signal payload.
	ErrShortSignal = errors.New("signal payload is truncated")

	// ErrBadSignal is returned when a signal payload carries an unknown
	// reason tag or trailing garbage.
	ErrBadSignal = errors.New("malformed signal payload")

	// ErrReservedTag is returned when sending a message whose type tag falls
	// inside the range reserved for runtime control signals.
	ErrReservedTag = errors.New("message tag is reserved for runtime signals")

	// ErrMailboxFull is returned by bounded mailboxes that cannot accept more
	// messages.
	ErrMailboxFull = errors.New("mailbox is full")
)

// PanicError wraps a value recovered from a panicking process body so the
// original cause survives the conversion into an exit reason.
type PanicError struct {
	cause error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates a PanicError from the recovered value.
func NewPanicError(recovered any) *PanicError {
	if err, ok := recovered.(error); ok {
		return &PanicError{cause: err}
	}
	return &PanicError{cause: fmt.Errorf("%v", recovered)}
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *PanicError) Unwrap() error {
	return e.cause
}
