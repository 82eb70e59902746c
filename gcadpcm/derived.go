// SPDX-License-Identifier: EPL-2.0

package gcadpcm

// Origin records where a derived channel artifact came from.
type Origin uint8

const (
	// Unknown means the artifact is absent.
	Unknown Origin = iota
	// Provided means the caller supplied the value, for example read back
	// from an existing container.
	Provided
	// SelfComputed means the value was derived from the encoded audio.
	SelfComputed
)

func (o Origin) String() string {
	switch o {
	case Provided:
		return "provided"
	case SelfComputed:
		return "self-computed"
	default:
		return "unknown"
	}
}

// Derived is a value tagged with its Origin. The zero value is Unknown.
type Derived[T any] struct {
	Origin Origin
	Value  T
}

// Known reports whether the value is present.
func (d Derived[T]) Known() bool { return d.Origin != Unknown }

// SelfComputed reports whether the value was derived from the audio itself.
func (d Derived[T]) SelfComputed() bool { return d.Origin == SelfComputed }

// satisfies reports whether d can be used for a build that wants a value
// matching matches, optionally requiring that it was self computed.
func (d Derived[T]) satisfies(requireSelf bool, matches func(T) bool) bool {
	if !d.Known() || !matches(d.Value) {
		return false
	}
	return !requireSelf || d.Origin == SelfComputed
}

// reconcile picks the artifact a build should use without computing one.
// A previous build's value wins, then a value supplied for this build; the
// second result is false when neither qualifies and the caller must derive
// the artifact from the audio.
func reconcile[T any](requireSelf bool, previous, current Derived[T], matches func(T) bool) (Derived[T], bool) {
	if previous.satisfies(requireSelf, matches) {
		return previous, true
	}
	if current.satisfies(requireSelf, matches) {
		return current, true
	}
	return Derived[T]{}, false
}
