// Package staticfile implements the static resource resolution pipeline:
// deciding whether a request path is static (forced directory rules or a
// trailing-extension heuristic), walking the ordered include path to find a
// concrete file, resolving its MIME type against configured overrides and
// the system MIME database, and answering conditional GETs with 304 short
// circuits. All per-request state travels in an explicit RequestState value
// attached to the Fiber context; the pipeline itself is read-only after
// construction and safe for concurrent requests. The server package wires
// the three lifecycle phases (PreRoute, Dispatch, Finalize) around the host
// application's own handlers.
package staticfile
