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

package deque

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDequeOwnerOrder(t *testing.T) {
	d := New[int]()
	_, ok := d.PopFront()
	require.False(t, ok)

	for i := 0; i < 10; i++ {
		d.PushBack(i)
	}
	assert.Equal(t, 10, d.Len())

	for i := 0; i < 10; i++ {
		v, ok := d.PopFront()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	assert.Zero(t, d.Len())
}

func TestDequeThiefTakesFromBack(t *testing.T) {
	d := New[int]()
	for i := 0; i < 5; i++ {
		d.PushBack(i)
	}

	v, ok := d.PopBack()
	require.True(t, ok)
	assert.Equal(t, 4, v)

	v, ok = d.PopFront()
	require.True(t, ok)
	assert.Equal(t, 0, v)
	assert.Equal(t, 3, d.Len())
}

func TestDequePushFront(t *testing.T) {
	d := New[string]()
	d.PushBack("b")
	d.PushFront("a")
	d.PushBack("c")

	v, _ := d.PopFront()
	assert.Equal(t, "a", v)
	v, _ = d.PopFront()
	assert.Equal(t, "b", v)
	v, _ = d.PopFront()
	assert.Equal(t, "c", v)
}

func TestDequeGrowsPastInitialCapacity(t *testing.T) {
	d := New[int]()
	const n = 1000
	for i := 0; i < n; i++ {
		d.PushBack(i)
	}
	require.Equal(t, n, d.Len())
	for i := 0; i < n; i++ {
		v, ok := d.PopFront()
		require.True(t, ok)
		require.Equal(t, i, v)
	}
}

func TestDequeConcurrentOwnerAndThieves(t *testing.T) {
	d := New[int]()
	const n = 10000
	for i := 0; i < n; i++ {
		d.PushBack(i)
	}

	var mu sync.Mutex
	taken := make(map[int]bool, n)
	record := func(v int) {
		mu.Lock()
		taken[v] = true
		mu.Unlock()
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for {
			v, ok := d.PopFront()
			if !ok {
				return
			}
			record(v)
		}
	}()
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			for {
				v, ok := d.PopBack()
				if !ok {
					return
				}
				record(v)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, taken, n)
	assert.Zero(t, d.Len())
}
