package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/static-serve/static-serve/internal/staticfile"
)

// AppOptions controls how the Fiber application behaves on a specific port.
type AppOptions struct {
	Logger *logrus.Logger

	// Pipeline performs static resolution across the lifecycle phases.
	Pipeline *staticfile.Pipeline

	// PreRouting stages run after PreRoute for requests that were not
	// resolved statically, in order, with short-circuit semantics.
	PreRouting []staticfile.Stage

	// Dispatch is the application's own request handler. When nil a
	// not-found responder is used.
	Dispatch fiber.Handler

	ListenPort int
}

const contextKeyRequestID = "_staticserve_request_id"

// NewApp builds a Fiber application with the static resolution pipeline
// wrapped around the application dispatch handler.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Pipeline == nil {
		return nil, errors.New("static pipeline is required")
	}
	if opts.ListenPort <= 0 {
		return nil, fmt.Errorf("invalid listen port: %d", opts.ListenPort)
	}

	dispatch := opts.Dispatch
	if dispatch == nil {
		dispatch = renderNotFound
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
	})

	app.Use(recover.New())
	app.Use(requestContextMiddleware(opts))

	app.All("/*", func(c fiber.Ctx) error {
		if isDiagnosticsPath(string(c.Request().URI().Path())) {
			return c.Next()
		}

		st := staticfile.StateFor(c)
		err := runLifecycle(c, st, opts, dispatch)
		// Finalize must run even when a stage or dispatch failed, so the
		// debug trace is flushed and no-body statuses lose their content
		// headers on error paths too.
		if finalizeErr := opts.Pipeline.Finalize(c, st); err == nil {
			err = finalizeErr
		}
		return err
	})

	return app, nil
}

// runLifecycle executes PreRoute, the host pre-routing stages and Dispatch.
// Finalization is the caller's responsibility so it also covers error
// returns from any of these phases.
func runLifecycle(c fiber.Ctx, st *staticfile.RequestState, opts AppOptions, dispatch fiber.Handler) error {
	outcome, err := opts.Pipeline.PreRoute(c, st)
	if err != nil {
		return err
	}
	if outcome == staticfile.Continue {
		for _, stage := range opts.PreRouting {
			stageOutcome, stageErr := stage(c, st)
			if stageErr != nil {
				return stageErr
			}
			if stageOutcome == staticfile.Handled {
				break
			}
		}
	}
	return opts.Pipeline.Dispatch(c, st, dispatch)
}

// requestContextMiddleware generates the request ID and attaches a fresh
// per-request resolution state before any lifecycle phase runs.
func requestContextMiddleware(opts AppOptions) fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)

		st := opts.Pipeline.NewState()
		st.RequestID = reqID
		staticfile.Attach(c, st)

		return c.Next()
	}
}

func renderNotFound(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "not_found",
	})
}

// RequestID returns the request identifier stored by the router middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}

func isDiagnosticsPath(path string) bool {
	return strings.HasPrefix(path, "/-/")
}
