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
	"github.com/procyon-rt/procyon/internal/queue"
)

// DefaultMailbox is the unbounded lock-free MPSC mailbox every process gets
// unless a custom provider is configured. Enqueue never blocks and never
// fails; FIFO order across all producers is preserved.
type DefaultMailbox struct {
	underlying *queue.MPSC[*Message]
}

// enforce compilation error
var _ Mailbox = (*DefaultMailbox)(nil)

// NewDefaultMailbox creates an empty unbounded mailbox.
func NewDefaultMailbox() *DefaultMailbox {
	return &DefaultMailbox{
		underlying: queue.NewMPSC[*Message](),
	}
}

// Enqueue appends a message at the tail. Never blocks; always returns nil.
func (m *DefaultMailbox) Enqueue(msg *Message) error {
	m.underlying.Push(msg)
	return nil
}

// Dequeue removes and returns the head message, or nil when the mailbox is
// empty. Must only be called by the owning process.
func (m *DefaultMailbox) Dequeue() *Message {
	msg, ok := m.underlying.Pop()
	if !ok {
		return nil
	}
	return msg
}

// IsEmpty reports whether the mailbox has no messages.
func (m *DefaultMailbox) IsEmpty() bool {
	return m.underlying.IsEmpty()
}

// Len returns a snapshot of the number of queued messages.
func (m *DefaultMailbox) Len() int64 {
	return m.underlying.Len()
}

// Dispose is a no-op for the unbounded mailbox.
func (m *DefaultMailbox) Dispose() {}
