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
	gods "github.com/Workiva/go-datastructures/queue"

	"github.com/procyon-rt/procyon/errors"
)

// BoundedMailbox is a fixed-capacity MPSC mailbox backed by a ring buffer.
// Enqueue rejects messages once the buffer is full, which gives callers a
// backpressure signal the unbounded default never produces. FIFO ordering
// is preserved.
//
// The capacity limit applies to runtime control signals too: exit-signal
// and DOWN deliveries to a full bounded mailbox are dropped (with a warning
// log), so a process that traps exits or holds monitors should use the
// unbounded default mailbox, or size the bound with headroom for them.
type BoundedMailbox struct {
	underlying *gods.RingBuffer
}

// enforce compilation error
var _ Mailbox = (*BoundedMailbox)(nil)

// NewBoundedMailbox creates a bounded mailbox with the given capacity.
// Capacity must be a positive integer.
func NewBoundedMailbox(capacity int) *BoundedMailbox {
	return &BoundedMailbox{
		underlying: gods.NewRingBuffer(uint64(capacity)),
	}
}

// Enqueue inserts a message into the mailbox. Returns ErrMailboxFull when
// the buffer has no free slot and an error when the mailbox was disposed.
func (m *BoundedMailbox) Enqueue(msg *Message) error {
	ok, err := m.underlying.Offer(msg)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrMailboxFull
	}
	return nil
}

// Dequeue removes and returns the head message, or nil when the mailbox is
// empty or disposed.
func (m *BoundedMailbox) Dequeue() *Message {
	if m.underlying.Len() > 0 {
		item, err := m.underlying.Poll(1)
		if err != nil {
			return nil
		}
		if msg, ok := item.(*Message); ok {
			return msg
		}
	}
	return nil
}

// IsEmpty reports whether the mailbox has no messages.
func (m *BoundedMailbox) IsEmpty() bool {
	return m.underlying.Len() == 0
}

// Len returns the current number of queued messages.
func (m *BoundedMailbox) Len() int64 {
	return int64(m.underlying.Len())
}

// Dispose releases the ring buffer and unblocks internal waiters.
func (m *BoundedMailbox) Dispose() {
	m.underlying.Dispose()
}
