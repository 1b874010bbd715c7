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
	"bytes"
	"encoding/binary"

	"github.com/procyon-rt/procyon/errors"
	"github.com/procyon-rt/procyon/internal/bufferpool"
)

// Exit and DOWN signals travel through the generic mailbox channel, so their
// payloads are self-describing. All integers are big-endian.
//
// Exit signal: [origin pid:8][reason]
// DOWN signal: [monitor ref:8][monitored pid:8][reason]
//
// Reason: [kind:1][kind-specific payload]
//
//	0 normal        (no payload)
//	1 error         [text len:8][utf-8 text]
//	2 killed        (no payload)
//	3 linked        [origin pid:8][nested reason]
//	4 shutdown      (no payload)
//	5 custom        [text len:8][utf-8 text]
//	6 noconnection  (no payload)
//
// Decoding is the exact inverse and rejects truncated input.

// EncodeExitSignal encodes the exit of origin with the given reason.
func EncodeExitSignal(origin PID, reason ExitReason) []byte {
	buf := bufferpool.Pool.Get()
	defer bufferpool.Pool.Put(buf)

	writeUint64(buf, uint64(origin))
	writeReason(buf, reason)

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}

// DecodeExitSignal decodes a payload produced by EncodeExitSignal.
func DecodeExitSignal(b []byte) (PID, ExitReason, error) {
	if len(b) < 8 {
		return NoPID, ExitReason{}, errors.ErrShortSignal
	}
	origin := PID(binary.BigEndian.Uint64(b[:8]))
	reason, rest, err := readReason(b[8:])
	if err != nil {
		return NoPID, ExitReason{}, err
	}
	if len(rest) != 0 {
		return NoPID, ExitReason{}, errors.ErrBadSignal
	}
	return origin, reason, nil
}

// EncodeDownSignal encodes the DOWN notification sent to the observer that
// registered the given monitor reference.
func EncodeDownSignal(ref Ref, target PID, reason ExitReason) []byte {
	buf := bufferpool.Pool.Get()
	defer bufferpool.Pool.Put(buf)

	writeUint64(buf, uint64(ref))
	writeUint64(buf, uint64(target))
	writeReason(buf, reason)

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}

// DecodeDownSignal decodes a payload produced by EncodeDownSignal.
func DecodeDownSignal(b []byte) (Ref, PID, ExitReason, error) {
	if len(b) < 16 {
		return 0, NoPID, ExitReason{}, errors.ErrShortSignal
	}
	ref := Ref(binary.BigEndian.Uint64(b[:8]))
	target := PID(binary.BigEndian.Uint64(b[8:16]))
	reason, rest, err := readReason(b[16:])
	if err != nil {
		return 0, NoPID, ExitReason{}, err
	}
	if len(rest) != 0 {
		return 0, NoPID, ExitReason{}, errors.ErrBadSignal
	}
	return ref, target, reason, nil
}

func writeReason(buf *bytes.Buffer, r ExitReason) {
	buf.WriteByte(byte(r.Kind))
	switch r.Kind {
	case ExitError, ExitCustom:
		writeUint64(buf, uint64(len(r.Text)))
		buf.WriteString(r.Text)
	case ExitLinked:
		writeUint64(buf, uint64(r.Origin))
		inner := NormalReason()
		if r.Inner != nil {
			inner = *r.Inner
		}
		writeReason(buf, inner)
	}
}

// readReason consumes one encoded reason and returns the remaining bytes.
func readReason(b []byte) (ExitReason, []byte, error) {
	if len(b) < 1 {
		return ExitReason{}, nil, errors.ErrShortSignal
	}
	kind := ExitKind(b[0])
	b = b[1:]

	switch kind {
	case ExitNormal, ExitKilled, ExitShutdown, ExitNoconnection:
		return ExitReason{Kind: kind}, b, nil

	case ExitError, ExitCustom:
		if len(b) < 8 {
			return ExitReason{}, nil, errors.ErrShortSignal
		}
		n := binary.BigEndian.Uint64(b[:8])
		b = b[8:]
		if uint64(len(b)) < n {
			return ExitReason{}, nil, errors.ErrShortSignal
		}
		return ExitReason{Kind: kind, Text: string(b[:n])}, b[n:], nil

	case ExitLinked:
		if len(b) < 8 {
			return ExitReason{}, nil, errors.ErrShortSignal
		}
		origin := PID(binary.BigEndian.Uint64(b[:8]))
		inner, rest, err := readReason(b[8:])
		if err != nil {
			return ExitReason{}, nil, err
		}
		return LinkedReason(origin, inner), rest, nil

	default:
		return ExitReason{}, nil, errors.ErrBadSignal
	}
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var scratch [8]byte
	binary.BigEndian.PutUint64(scratch[:], v)
	buf.Write(scratch[:])
}
