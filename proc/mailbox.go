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

// Mailbox is the message queue attached to one process.
//
// Concurrency and ordering
//   - Implementations MUST be safe for multiple concurrent producers calling
//     Enqueue. The runtime drains from a single goroutine, so Dequeue only
//     ever has one caller.
//   - FIFO ordering relative to arrival is required: a mailbox never loses
//     or reorders messages.
//
// Non-blocking behavior
//   - Enqueue SHOULD be non-blocking. Bounded implementations MUST return an
//     error when full instead of blocking indefinitely.
//   - Dequeue MUST be non-blocking and return nil when the mailbox is empty;
//     blocking-receive semantics live in the execution context, not here.
type Mailbox interface {
	// Enqueue appends a message at the tail of the mailbox.
	Enqueue(msg *Message) error
	// Dequeue removes and returns the head message, or nil when empty.
	Dequeue() *Message
	// IsEmpty reports whether the mailbox currently has no messages.
	IsEmpty() bool
	// Len returns a snapshot of the number of queued messages.
	Len() int64
	// Dispose releases resources held by the mailbox. The mailbox must not
	// be used after Dispose returns.
	Dispose()
}

// MailboxProvider builds the mailbox for a newly spawned process.
type MailboxProvider func() Mailbox
