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

// ExitKind discriminates the closed set of exit reasons. The numeric values
// double as the wire tags of the signal codec and must not be reordered.
type ExitKind uint8

const (
	// ExitNormal is a successful termination. Never crashes a linked peer.
	ExitNormal ExitKind = iota
	// ExitError is an application-level failure with a free-form message.
	ExitError
	// ExitKilled is a forced termination.
	ExitKilled
	// ExitLinked is a failure inherited transitively from a linked peer,
	// wrapping the original reason.
	ExitLinked
	// ExitShutdown is a requested termination. Never crashes a linked peer.
	ExitShutdown
	// ExitCustom is an application-defined reason with a free-form message.
	ExitCustom
	// ExitNoconnection signals connectivity loss. Reserved for distributed
	// extensions layered on top of this runtime.
	ExitNoconnection
)

// ExitReason describes why a process terminated. Linked reasons nest
// recursively so the original fault survives any number of link hops.
type ExitReason struct {
	Kind   ExitKind
	Text   string      // set for ExitError and ExitCustom
	Origin PID         // set for ExitLinked
	Inner  *ExitReason // set for ExitLinked
}

// NormalReason returns the successful-termination reason.
func NormalReason() ExitReason {
	return ExitReason{Kind: ExitNormal}
}

// ShutdownReason returns the requested-termination reason.
func ShutdownReason() ExitReason {
	return ExitReason{Kind: ExitShutdown}
}

// KilledReason returns the forced-termination reason.
func KilledReason() ExitReason {
	return ExitReason{Kind: ExitKilled}
}

// NoconnectionReason returns the connectivity-loss reason.
func NoconnectionReason() ExitReason {
	return ExitReason{Kind: ExitNoconnection}
}

// ErrorReason returns an application failure reason carrying the given text.
func ErrorReason(text string) ExitReason {
	return ExitReason{Kind: ExitError, Text: text}
}

// ErrorReasonf returns an application failure reason with a formatted text.
func ErrorReasonf(format string, args ...any) ExitReason {
	return ExitReason{Kind: ExitError, Text: fmt.Sprintf(format, args...)}
}

// CustomReason returns an application-defined reason carrying the given text.
func CustomReason(text string) ExitReason {
	return ExitReason{Kind: ExitCustom, Text: text}
}

// LinkedReason wraps the reason a linked peer died with so the ultimate
// cause is preserved across link hops.
func LinkedReason(origin PID, inner ExitReason) ExitReason {
	cp := inner
	return ExitReason{Kind: ExitLinked, Origin: origin, Inner: &cp}
}

// Crashes reports whether propagating this reason over a link kills a peer
// that does not trap exits. Normal, Shutdown and Noconnection exits are
// always delivered as messages instead.
func (r ExitReason) Crashes() bool {
	switch r.Kind {
	case ExitError, ExitKilled, ExitCustom, ExitLinked:
		return true
	default:
		return false
	}
}

// Equal reports whether two reasons are structurally identical, following
// nested Linked reasons all the way down.
func (r ExitReason) Equal(other ExitReason) bool {
	if r.Kind != other.Kind || r.Text != other.Text || r.Origin != other.Origin {
		return false
	}
	if (r.Inner == nil) != (other.Inner == nil) {
		return false
	}
	if r.Inner != nil {
		return r.Inner.Equal(*other.Inner)
	}
	return true
}

// String implements fmt.Stringer.
func (r ExitReason) String() string {
	switch r.Kind {
	case ExitNormal:
		return "normal"
	case ExitShutdown:
		return "shutdown"
	case ExitKilled:
		return "killed"
	case ExitNoconnection:
		return "noconnection"
	case ExitError:
		return fmt.Sprintf("error(%s)", r.Text)
	case ExitCustom:
		return fmt.Sprintf("custom(%s)", r.Text)
	case ExitLinked:
		return fmt.Sprintf("linked(%s, %s)", r.Origin, r.Inner)
	default:
		return fmt.Sprintf("unknown(%d)", r.Kind)
	}
}
