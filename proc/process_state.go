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

// ProcessState models the process lifecycle:
//
//	Ready   -> Running   (picked up by a worker)
//	Running -> Ready     (reduction budget exhausted)
//	Running -> Waiting   (blocking receive on an empty mailbox)
//	Waiting -> Ready     (message arrival or receive timeout)
//	Running -> Exited    (completion, fault, kill or link propagation)
//
// Exited is terminal: no transition ever leaves it.
type ProcessState int32

const (
	// StateReady means the process is runnable and sits in a ready queue.
	StateReady ProcessState = iota
	// StateRunning means a worker is currently executing the process.
	StateRunning
	// StateWaiting means the process is parked in a blocking receive.
	StateWaiting
	// StateExited is the terminal state.
	StateExited
)

// String implements fmt.Stringer.
func (s ProcessState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateWaiting:
		return "waiting"
	case StateExited:
		return "exited"
	default:
		return "invalid"
	}
}
