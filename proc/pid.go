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

import "fmt"

// PID identifies a process. PIDs are allocated from a monotonically
// increasing counter and are never reused while the scheduler is alive.
// The zero value is never a valid process id.
type PID uint64

// NoPID is the invalid process id.
const NoPID PID = 0

// String implements fmt.Stringer.
func (p PID) String() string {
	return fmt.Sprintf("<%d>", uint64(p))
}

// Ref identifies a monitor registration. Refs are allocated from their own
// monotonically increasing counter and are never reused. The zero value is
// never a valid reference.
type Ref uint64

// Priority selects which ready-queue tier a process is placed in. It only
// affects dispatch order; a higher-priority process never revokes a running
// process's slice.
type Priority int32

const (
	// PriorityLow is dispatched after all other tiers.
	PriorityLow Priority = iota
	// PriorityNormal is the default tier.
	PriorityNormal
	// PriorityHigh is dispatched before all other tiers.
	PriorityHigh

	numPriorities = 3
)

// String implements fmt.Stringer.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	default:
		return "invalid"
	}
}
