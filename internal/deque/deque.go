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

// Package deque provides the double-ended ready queue used by scheduler
// workers. The owner drains the front in FIFO order while idle workers steal
// from the back, which keeps the two parties off each other's end of the
// ring under load.
package deque

import "sync"

// Deque is a growable ring buffer guarded by a mutex. All operations are
// safe for concurrent use.
type Deque[T any] struct {
	mu    sync.Mutex
	items []T
	head  int
	size  int
}

const minCapacity = 16

// New creates an empty deque.
func New[T any]() *Deque[T] {
	return &Deque[T]{
		items: make([]T, minCapacity),
	}
}

// PushBack appends a value at the back of the deque.
func (d *Deque[T]) PushBack(v T) {
	d.mu.Lock()
	if d.size == len(d.items) {
		d.grow()
	}
	d.items[(d.head+d.size)%len(d.items)] = v
	d.size++
	d.mu.Unlock()
}

// PushFront prepends a value at the front of the deque.
func (d *Deque[T]) PushFront(v T) {
	d.mu.Lock()
	if d.size == len(d.items) {
		d.grow()
	}
	d.head = (d.head - 1 + len(d.items)) % len(d.items)
	d.items[d.head] = v
	d.size++
	d.mu.Unlock()
}

// PopFront removes and returns the value at the front of the deque. The
// owning worker drains from this end.
func (d *Deque[T]) PopFront() (T, bool) {
	var zero T
	d.mu.Lock()
	if d.size == 0 {
		d.mu.Unlock()
		return zero, false
	}
	v := d.items[d.head]
	d.items[d.head] = zero
	d.head = (d.head + 1) % len(d.items)
	d.size--
	d.mu.Unlock()
	return v, true
}

// PopBack removes and returns the value at the back of the deque. Stealing
// workers take from this end.
func (d *Deque[T]) PopBack() (T, bool) {
	var zero T
	d.mu.Lock()
	if d.size == 0 {
		d.mu.Unlock()
		return zero, false
	}
	idx := (d.head + d.size - 1) % len(d.items)
	v := d.items[idx]
	d.items[idx] = zero
	d.size--
	d.mu.Unlock()
	return v, true
}

// Len returns the number of queued values.
func (d *Deque[T]) Len() int {
	d.mu.Lock()
	n := d.size
	d.mu.Unlock()
	return n
}

// grow doubles the ring capacity. Caller must hold the mutex.
func (d *Deque[T]) grow() {
	bigger := make([]T, len(d.items)*2)
	n := copy(bigger, d.items[d.head:])
	copy(bigger[n:], d.items[:d.head])
	d.items = bigger
	d.head = 0
}
