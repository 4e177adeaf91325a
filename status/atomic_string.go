package status

import "sync/atomic"

// MaxStringLen caps stored strings so reports stay one short line
const MaxStringLen = 20

// AtomicString is a lock-free string cell; the zero value holds ""
type AtomicString struct {
	ptr atomic.Pointer[string]
}

// Store replaces the value, truncated to MaxStringLen bytes
func (s *AtomicString) Store(val string) {
	if len(val) > MaxStringLen {
		val = val[:MaxStringLen]
	}
	s.ptr.Store(&val)
}

// Load returns the current value
func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
