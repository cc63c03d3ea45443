// Package server hosts the Fiber HTTP service and the request middleware
// chain that threads per-request static resolution state through the three
// lifecycle phases. NewApp attaches recovery and request-ID middlewares,
// allocates a fresh RequestState per request, and runs PreRoute, the host's
// pre-routing stages, Dispatch, and Finalize in order around the application
// dispatch handler. Diagnostics paths under /-/ bypass the static pipeline.
// Keep exports narrow and accept explicit dependencies.
package server
