package staticfile

import (
	"fmt"
	"path"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/static-serve/static-serve/internal/config"
	"github.com/static-serve/static-serve/internal/passthrough"
)

// Outcome tells the caller whether a lifecycle stage finished its phase or
// the remaining chain should continue.
type Outcome int

const (
	// Continue hands control to the next stage in the chain.
	Continue Outcome = iota
	// Handled short-circuits the remaining stages of the current phase.
	Handled
)

// Stage is one host pre-routing step (session, auth, ...). Stages run in
// order after PreRoute unless static resolution already decided the request.
type Stage func(c fiber.Ctx, st *RequestState) (Outcome, error)

// Pipeline orchestrates static resolution across the three request lifecycle
// phases. It is immutable after construction and shared across requests.
type Pipeline struct {
	cfg      *config.Config
	logger   *logrus.Logger
	mime     *MimeResolver
	searcher *Searcher
	engine   passthrough.Engine

	ignoreExtensions map[string]struct{}
	ignoreDirs       map[string]struct{}
}

// NewPipeline builds the pipeline from loaded configuration. Unregistered
// provider references and unknown passthrough engines fail here, before the
// server starts listening.
func NewPipeline(cfg *config.Config, logger *logrus.Logger) (*Pipeline, error) {
	searcher, err := NewSearcher(cfg, logger)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:              cfg,
		logger:           logger,
		mime:             NewMimeResolver(cfg.Static.MimeTypes),
		searcher:         searcher,
		ignoreExtensions: stringSet(cfg.Static.IgnoreExtensions),
		ignoreDirs:       stringSet(cfg.Static.IgnoreDirs),
	}

	if cfg.Static.UsePassthrough {
		engine, ok := passthrough.Lookup(cfg.Static.PassthroughEngine)
		if !ok {
			return nil, fmt.Errorf("unknown passthrough engine %q", cfg.Static.PassthroughEngine)
		}
		p.engine = engine
	}

	return p, nil
}

// NewState allocates the per-request state for one inbound request.
func (p *Pipeline) NewState() *RequestState {
	return NewRequestState(p.cfg.Static.Debug)
}

// Engine returns the resolved passthrough engine, or nil when disabled.
func (p *Pipeline) Engine() passthrough.Engine {
	return p.engine
}

// RequestPath returns the cleaned, slash-rooted request path. Cleaning
// collapses dot segments so include path joins cannot escape their roots.
func RequestPath(c fiber.Ctx) string {
	return path.Clean("/" + string(c.Request().URI().Path()))
}

// PreRoute decides whether the request is static before the host's own
// pre-routing stages run. Returning Handled skips those stages: either a
// file is resolved (committed to static delivery) or a forced directory rule
// missed (404). An extension-heuristic miss falls through silently so dotted
// route segments still reach the application.
func (p *Pipeline) PreRoute(c fiber.Ctx, st *RequestState) (Outcome, error) {
	reqPath := RequestPath(c)
	rel := strings.TrimPrefix(reqPath, "/")

	for _, rule := range p.cfg.Static.Dirs {
		if !rule.Matches(reqPath) {
			continue
		}
		st.Tracef("%q matched directory rule %q", reqPath, rule.Raw)
		if resolved, ok := p.searcher.Locate(c, rel, st); ok {
			st.Phase = PhaseStatic
			st.Resolved = resolved
			return Handled, nil
		}
		st.Phase = PhaseNotFound
		st.Tracef("%q missing under every include path entry, responding 404", reqPath)
		c.Status(fiber.StatusNotFound)
		return Handled, nil
	}

	if ext := pathExtension(reqPath); ext != "" && !p.heuristicIgnored(rel, ext, st) {
		if resolved, ok := p.searcher.Locate(c, rel, st); ok {
			st.Phase = PhaseStatic
			st.Resolved = resolved
			return Handled, nil
		}
	}

	st.Phase = PhaseNotStatic
	return Continue, nil
}

// Dispatch serves the resolved file or defers to the host dispatch handler.
// A non-200 status means an earlier stage already answered the request, so
// both static delivery and normal dispatch are skipped.
func (p *Pipeline) Dispatch(c fiber.Ctx, st *RequestState, next fiber.Handler) error {
	if c.Response().StatusCode() != fiber.StatusOK {
		return nil
	}
	if st != nil && st.Phase == PhaseStatic {
		return p.deliver(c, st)
	}
	if next != nil {
		return next(c)
	}
	return nil
}

// Finalize flushes the debug trace, emits the native decline signal for
// delegated requests, and strips content headers from no-body statuses.
func (p *Pipeline) Finalize(c fiber.Ctx, st *RequestState) error {
	p.flushTrace(c, st)

	if st != nil && st.Passthrough && p.engine != nil && st.Resolved != nil {
		p.engine.Decline(c, st.Resolved.Path)
		c.Response().ResetBody()
		return nil
	}

	status := c.Response().StatusCode()
	if status/100 == 1 ||
		status == fiber.StatusNonAuthoritativeInformation ||
		status == fiber.StatusNoContent ||
		status == fiber.StatusNotModified {
		stripContentHeaders(c)
		c.Response().ResetBody()
	}
	return nil
}

func (p *Pipeline) flushTrace(c fiber.Ctx, st *RequestState) {
	if st == nil || !st.DebugEnabled() {
		return
	}
	entries := st.TraceEntries()
	if len(entries) == 0 {
		return
	}
	fields := logrus.Fields{
		"action":     "static_trace",
		"request_id": st.RequestID,
		"path":       RequestPath(c),
	}
	for _, line := range entries {
		p.logger.WithFields(fields).Debug(line)
	}
}

// heuristicIgnored applies IgnoreExtensions/IgnoreDirs to the extension
// heuristic only; forced directory rules are never subject to them.
func (p *Pipeline) heuristicIgnored(rel, ext string, st *RequestState) bool {
	if _, ok := p.ignoreExtensions[strings.ToLower(ext)]; ok {
		st.Tracef("extension %q is ignored for heuristic lookup", ext)
		return true
	}
	if first, _, found := strings.Cut(rel, "/"); found {
		if _, ok := p.ignoreDirs[strings.ToLower(first)]; ok {
			st.Tracef("directory %q is ignored for heuristic lookup", first)
			return true
		}
	}
	return false
}

// pathExtension returns the trailing extension of the last path segment,
// without the dot, or "" when the segment has none.
func pathExtension(p string) string {
	return strings.TrimPrefix(path.Ext(p), ".")
}

func stripContentHeaders(c fiber.Ctx) {
	c.Response().Header.Del(fiber.HeaderContentType)
	c.Response().Header.Del(fiber.HeaderContentLength)
	// fasthttp would otherwise inject its default Content-Type at write time.
	c.Response().Header.SetNoDefaultContentType(true)
}

func stringSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if trimmed := strings.ToLower(strings.TrimSpace(v)); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return set
}
