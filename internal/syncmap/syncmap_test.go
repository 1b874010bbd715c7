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

package syncmap

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncMapBasicOperations(t *testing.T) {
	m := New[uint64, string]()
	assert.Zero(t, m.Len())

	m.Set(1, "one")
	m.Set(2, "two")
	m.Set(1, "uno")

	v, ok := m.Get(1)
	require.True(t, ok)
	assert.Equal(t, "uno", v)
	assert.Equal(t, 2, m.Len())

	m.Delete(1)
	_, ok = m.Get(1)
	assert.False(t, ok)
	m.Delete(99)
	assert.Equal(t, 1, m.Len())
}

func TestSyncMapKeysAndRange(t *testing.T) {
	m := New[int, int]()
	for i := 0; i < 5; i++ {
		m.Set(i, i*i)
	}

	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, m.Keys())

	sum := 0
	m.Range(func(k, v int) {
		sum += v
	})
	assert.Equal(t, 0+1+4+9+16, sum)
}

func TestSyncMapConcurrentAccess(t *testing.T) {
	m := New[int, int]()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := g*200 + i
				m.Set(key, key)
				if v, ok := m.Get(key); ok {
					assert.Equal(t, key, v)
				}
			}
		}(g)
	}
	wg.Wait()
	assert.Equal(t, 8*200, m.Len())
}
