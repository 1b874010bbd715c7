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

import "encoding/binary"

// Heap is the arena allocator owned by exactly one process. Every inbound
// message is deep-copied into the owning process's heap, so no two processes
// ever alias each other's memory.
//
// The arena grows by whole chunks and never moves data that has already been
// handed out, which lets the single consumer read message payloads while
// senders keep allocating. Mutating calls are synchronized externally by the
// owning process's lock.
type Heap struct {
	chunkSize int
	chunks    [][]byte
	off       int   // write offset into the last chunk
	allocated int64 // total bytes handed out
}

func newHeap(chunkSize int) *Heap {
	if chunkSize <= 0 {
		chunkSize = DefaultHeapChunkSize
	}
	return &Heap{chunkSize: chunkSize}
}

// alloc reserves n bytes inside the arena and returns the backing slice.
// Requests larger than the chunk size get a dedicated chunk.
func (h *Heap) alloc(n int) []byte {
	h.allocated += int64(n)
	if n >= h.chunkSize {
		chunk := make([]byte, n)
		// dedicated chunk; keep the current bump chunk as the last entry
		if len(h.chunks) == 0 {
			h.chunks = append(h.chunks, chunk)
			h.off = n
			return chunk
		}
		last := len(h.chunks) - 1
		h.chunks = append(h.chunks[:last], chunk, h.chunks[last])
		return chunk
	}
	if len(h.chunks) == 0 || h.off+n > len(h.chunks[len(h.chunks)-1]) {
		h.chunks = append(h.chunks, make([]byte, h.chunkSize))
		h.off = 0
	}
	chunk := h.chunks[len(h.chunks)-1]
	out := chunk[h.off : h.off+n : h.off+n]
	h.off += n
	return out
}

// writeMessage deep-copies the given payload into the arena and returns the
// buffered message view, laid out as [tag:8][len:8][payload].
func (h *Heap) writeMessage(tag uint64, payload []byte) *Message {
	raw := h.alloc(messageHeaderSize + len(payload))
	binary.BigEndian.PutUint64(raw[:8], tag)
	binary.BigEndian.PutUint64(raw[8:16], uint64(len(payload)))
	copy(raw[messageHeaderSize:], payload)
	return &Message{raw: raw}
}

// Size returns the total number of bytes handed out so far.
func (h *Heap) Size() int64 {
	return h.allocated
}

// release drops all chunks. The heap must not be used afterwards; messages
// already copied into other heaps are unaffected.
func (h *Heap) release() {
	h.chunks = nil
	h.off = 0
}
