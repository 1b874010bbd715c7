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
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

const (
	// messageHeaderSize is the fixed prefix of every buffered message:
	// an 8-byte type tag followed by an 8-byte payload length.
	messageHeaderSize = 16

	// reservedTagFloor marks the start of the tag range reserved for
	// runtime control signals. TagOf never produces tags in this range.
	reservedTagFloor uint64 = 0xFFFFFFFFFFFFFF00

	// TagExitSignal is the reserved tag of encoded exit signals delivered
	// to trapping or peacefully notified link peers.
	TagExitSignal uint64 = 0xFFFFFFFFFFFFFFFE

	// TagDownSignal is the reserved tag of encoded DOWN notifications
	// delivered to monitoring observers.
	TagDownSignal uint64 = 0xFFFFFFFFFFFFFFFD
)

// Message is a view over one buffered mailbox entry stored inside the
// receiving process's heap, laid out as [tag:8][len:8][payload].
type Message struct {
	raw []byte
}

// Tag returns the 64-bit type discriminant of the message.
func (m *Message) Tag() uint64 {
	return binary.BigEndian.Uint64(m.raw[:8])
}

// Payload returns the message bytes. The slice aliases the receiver's heap
// and stays valid until the receiving process exits.
func (m *Message) Payload() []byte {
	n := binary.BigEndian.Uint64(m.raw[8:16])
	return m.raw[messageHeaderSize : messageHeaderSize+n]
}

// Size returns the payload length in bytes.
func (m *Message) Size() int {
	return int(binary.BigEndian.Uint64(m.raw[8:16]))
}

// IsSignal reports whether the message carries a runtime control signal
// rather than an ordinary application payload.
func (m *Message) IsSignal() bool {
	return m.Tag() >= reservedTagFloor
}

// TagOf derives a stable 64-bit message type tag from a symbolic name. The
// top bit is cleared so derived tags can never collide with the reserved
// signal range.
func TagOf(name string) uint64 {
	return xxh3.HashString(name) &^ (1 << 63)
}
