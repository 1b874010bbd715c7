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

import "time"

const (
	// DefaultReductionBudget is how many reductions a process burns before a
	// checkpoint forces a yield. A tuning constant, not a correctness
	// invariant.
	DefaultReductionBudget int32 = 4000

	// DefaultHeapChunkSize is the slab size of per-process heap arenas.
	DefaultHeapChunkSize = 64 << 10

	// DefaultShutdownTimeout bounds how long Shutdown waits for workers to
	// drain when the caller's context carries no deadline.
	DefaultShutdownTimeout = 30 * time.Second

	// stealInterval is how often an idle worker re-attempts stealing when no
	// wake-up notification arrives.
	stealInterval = time.Millisecond
)
