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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procyon-rt/procyon/errors"
)

func TestDefaultMailboxFIFO(t *testing.T) {
	h := newHeap(DefaultHeapChunkSize)
	mb := NewDefaultMailbox()
	require.True(t, mb.IsEmpty())

	for i := 0; i < 100; i++ {
		require.NoError(t, mb.Enqueue(h.writeMessage(uint64(i), nil)))
	}
	assert.EqualValues(t, 100, mb.Len())

	for i := 0; i < 100; i++ {
		msg := mb.Dequeue()
		require.NotNil(t, msg)
		assert.EqualValues(t, i, msg.Tag())
	}
	assert.True(t, mb.IsEmpty())
	assert.Nil(t, mb.Dequeue())
}

func TestDefaultMailboxConcurrentProducers(t *testing.T) {
	const producers = 8
	const perProducer = 500

	mb := NewDefaultMailbox()
	var wg sync.WaitGroup
	wg.Add(producers)
	for i := 0; i < producers; i++ {
		go func(producer int) {
			defer wg.Done()
			h := newHeap(DefaultHeapChunkSize)
			for j := 0; j < perProducer; j++ {
				base := uint64(producer)*perProducer + uint64(j)
				_ = mb.Enqueue(h.writeMessage(base, nil))
			}
		}(i)
	}
	wg.Wait()

	// every message arrives exactly once and per-producer order holds
	lastSeen := make(map[uint64]uint64, producers)
	count := 0
	for {
		msg := mb.Dequeue()
		if msg == nil {
			break
		}
		count++
		producer := msg.Tag() / perProducer
		seq := msg.Tag() % perProducer
		if prev, ok := lastSeen[producer]; ok {
			assert.Greater(t, seq, prev)
		}
		lastSeen[producer] = seq
	}
	assert.Equal(t, producers*perProducer, count)
}

func TestBoundedMailboxBackpressure(t *testing.T) {
	h := newHeap(DefaultHeapChunkSize)
	mb := NewBoundedMailbox(4)

	for i := 0; i < 4; i++ {
		require.NoError(t, mb.Enqueue(h.writeMessage(uint64(i), nil)))
	}
	err := mb.Enqueue(h.writeMessage(99, nil))
	assert.ErrorIs(t, err, errors.ErrMailboxFull)

	msg := mb.Dequeue()
	require.NotNil(t, msg)
	assert.EqualValues(t, 0, msg.Tag())
	require.NoError(t, mb.Enqueue(h.writeMessage(4, nil)))

	for want := uint64(1); want <= 4; want++ {
		msg := mb.Dequeue()
		require.NotNil(t, msg)
		assert.Equal(t, want, msg.Tag())
	}
	assert.True(t, mb.IsEmpty())
	mb.Dispose()
}

func TestFullBoundedMailboxDropsSignalsWithoutCrashing(t *testing.T) {
	s := newTestScheduler()
	pa := addProcess(s, 1)
	pb := newProcess(2, PriorityNormal, newHeap(s.heapChunkSize), NewBoundedMailbox(1))
	pb.SetTrapExit(true)
	s.table.Set(2, pb)
	require.NoError(t, s.Link(1, 2))
	require.NoError(t, s.Send(2, 7, []byte("filler")))

	pa.markExited(ErrorReason("boom"))
	s.finalize(pa, ErrorReason("boom"))

	// the signal could not fit; the trapping peer stays alive and keeps
	// its buffered message
	assert.NotEqual(t, StateExited, pb.State())
	msg := pb.mailbox.Dequeue()
	require.NotNil(t, msg)
	assert.EqualValues(t, 7, msg.Tag())
	assert.Nil(t, pb.mailbox.Dequeue())
}
