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

// Package queue provides the lock-free queues used by the runtime hot paths.
package queue

import (
	"sync/atomic"
)

// mpscNode is a single link in the MPSC chain.
type mpscNode[T any] struct {
	next atomic.Pointer[mpscNode[T]]
	data T
}

// MPSC is a multi-producer single-consumer FIFO queue. Producers append by
// atomically swapping the tail and linking through the previous node; the
// single consumer walks the head pointer without locks.
// reference: https://concurrencyfreaks.blogspot.com/2014/04/multi-producer-single-consumer-queue.html
//
// Push is safe for any number of concurrent callers. Pop and IsEmpty must
// only be called from the single consumer goroutine.
type MPSC[T any] struct {
	head   atomic.Pointer[mpscNode[T]] // consumer side
	_      [64]byte                    // keep producers and consumer on separate cache lines
	tail   atomic.Pointer[mpscNode[T]] // producer side
	_      [64]byte
	length atomic.Int64
}

// NewMPSC creates an empty queue seeded with a dummy node so that producers
// always have a previous node to link through.
func NewMPSC[T any]() *MPSC[T] {
	dummy := new(mpscNode[T])
	q := &MPSC[T]{}
	q.head.Store(dummy)
	q.tail.Store(dummy)
	return q
}

// Push appends a value at the tail of the queue. It never blocks.
func (q *MPSC[T]) Push(value T) {
	n := &mpscNode[T]{data: value}
	prev := q.tail.Swap(n)
	prev.next.Store(n)
	q.length.Add(1)
}

// Pop removes and returns the value at the head of the queue.
// The second return value is false when the queue is empty.
func (q *MPSC[T]) Pop() (T, bool) {
	var zero T
	head := q.head.Load()
	next := head.next.Load()
	if next == nil {
		return zero, false
	}

	q.head.Store(next)
	value := next.data
	next.data = zero
	q.length.Add(-1)
	return value, true
}

// Len returns the number of queued values. The count may briefly run ahead
// of what Pop can observe while a producer sits between its tail swap and
// the link store.
func (q *MPSC[T]) Len() int64 {
	return q.length.Load()
}

// IsEmpty reports whether the queue has no values visible to the consumer.
func (q *MPSC[T]) IsEmpty() bool {
	return q.head.Load().next.Load() == nil
}
