package staticfile

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
)

// Phase tracks how far static resolution has progressed for one request.
type Phase int

const (
	// PhaseUnresolved means resolution has not run yet.
	PhaseUnresolved Phase = iota
	// PhaseStatic means a file was resolved; the request is committed to
	// static delivery and never falls back to normal dispatch.
	PhaseStatic
	// PhaseNotFound means a forced directory rule matched but no file
	// exists under any include path entry; the response is a 404.
	PhaseNotFound
	// PhaseNotStatic means the request flows through normal routing.
	PhaseNotStatic
)

const contextKeyState = "_staticserve_state"

// RequestState carries all per-request resolution state. A fresh value is
// allocated for every request and attached to the Fiber context, so
// concurrent requests never share mutable fields.
type RequestState struct {
	Phase       Phase
	Resolved    *ResolvedFile
	Passthrough bool
	RequestID   string

	debug bool
	trace []string
}

// NewRequestState returns a state value; trace collection is active only
// when debug is set.
func NewRequestState(debug bool) *RequestState {
	return &RequestState{debug: debug}
}

// Tracef appends a human-readable trace line. Without the debug flag this
// is a no-op and the trace buffer is never allocated.
func (st *RequestState) Tracef(format string, args ...interface{}) {
	if st == nil || !st.debug {
		return
	}
	st.trace = append(st.trace, fmt.Sprintf(format, args...))
}

// TraceEntries returns the collected trace lines in append order.
func (st *RequestState) TraceEntries() []string {
	if st == nil {
		return nil
	}
	return st.trace
}

// DebugEnabled reports whether trace collection is active.
func (st *RequestState) DebugEnabled() bool {
	return st != nil && st.debug
}

// Attach stores the state on the Fiber context for later phases.
func Attach(c fiber.Ctx, st *RequestState) {
	c.Locals(contextKeyState, st)
}

// StateFor returns the state attached by the request middleware, or nil.
func StateFor(c fiber.Ctx) *RequestState {
	if value := c.Locals(contextKeyState); value != nil {
		if st, ok := value.(*RequestState); ok {
			return st
		}
	}
	return nil
}
