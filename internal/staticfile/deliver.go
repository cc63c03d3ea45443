package staticfile

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/static-serve/static-serve/internal/logging"
)

// deliver sends the resolved file: native delegation when the passthrough
// gate holds, a 304 short circuit on a matching If-Modified-Since, otherwise
// the whole file body with type/length/mtime headers. Stat or read failures
// after resolution are fatal to the request; there is no fallback to normal
// routing once a file has been resolved.
func (p *Pipeline) deliver(c fiber.Ctx, st *RequestState) error {
	resolved := st.Resolved

	if p.cfg.Static.UsePassthrough && p.engine != nil && p.engine.Detected() &&
		!p.cfg.HasMimeOverrides() && resolved.FromRoot {
		engineRoot := filepath.Clean(p.engine.DocumentRoot())
		if engineRoot == filepath.Clean(p.cfg.Global.Root) {
			st.Passthrough = true
			st.Tracef("delegating %s to %s engine", resolved.Path, p.engine.Key())
			return nil
		}
		p.logger.WithFields(logrus.Fields{
			"action":          "passthrough_root_mismatch",
			"engine":          p.engine.Key(),
			"engine_root":     engineRoot,
			"configured_root": p.cfg.Global.Root,
		}).Warn("engine document root differs from configured root, serving directly")
	}

	contentType := p.mime.Resolve(pathExtension(resolved.Path), st)

	info, err := os.Stat(resolved.Path)
	if err != nil {
		p.logger.WithError(err).
			WithFields(logging.ServeFields(st.RequestID, RequestPath(c), resolved.Path, fiber.StatusInternalServerError)).
			Error("stat_failed")
		return fiber.NewError(fiber.StatusInternalServerError, "unable to stat resolved file")
	}

	// HTTP dates carry second precision, so the comparison does too.
	modTime := info.ModTime().UTC().Truncate(time.Second)
	if since := c.Get(fiber.HeaderIfModifiedSince); since != "" {
		if parsed, parseErr := http.ParseTime(since); parseErr == nil && parsed.Equal(modTime) {
			st.Tracef("%s unchanged since %s, responding 304", resolved.Path, since)
			c.Status(fiber.StatusNotModified)
			stripContentHeaders(c)
			return nil
		}
	}

	body, err := os.ReadFile(resolved.Path)
	if err != nil {
		p.logger.WithError(err).
			WithFields(logging.ServeFields(st.RequestID, RequestPath(c), resolved.Path, fiber.StatusInternalServerError)).
			Error("read_failed")
		return fiber.NewError(fiber.StatusInternalServerError, "unable to read resolved file")
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderLastModified, modTime.Format(http.TimeFormat))
	c.Response().Header.SetContentLength(len(body))
	st.Tracef("serving %s as %s (%d bytes)", resolved.Path, contentType, len(body))
	p.logger.WithFields(logging.ServeFields(st.RequestID, RequestPath(c), resolved.Path, fiber.StatusOK)).
		Info("static_serve")
	return c.Send(body)
}

// ServeFile commits the current request to a caller-chosen file, bypassing
// directory rules and include path search. Application handlers use it to
// deliver a known file with the same conditional and MIME handling as
// resolved requests. Delegation never applies to forced files.
func (p *Pipeline) ServeFile(c fiber.Ctx, st *RequestState, filePath string) error {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "unable to resolve file path")
	}
	st.Phase = PhaseStatic
	st.Resolved = &ResolvedFile{Path: abs, Dir: filepath.Dir(abs)}
	st.Tracef("forced static file %s", abs)
	return p.deliver(c, st)
}
