// Package passthrough models the optional "decline to native server"
// capability. When the process runs behind a fronting web server that can
// deliver files itself (Apache mod_xsendfile, nginx X-Accel-Redirect), a
// request resolved under the shared document root is declined with an
// engine-specific header instead of a body, and the fronting server takes
// over delivery.
package passthrough

import (
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v3"
)

// signalHeader tags declined responses with the engine that should pick
// them up, so operators can tell delegated responses apart in access logs.
const signalHeader = "X-Static-Serve-Engine"

// Engine describes a fronting native server able to take over file delivery.
type Engine interface {
	// Key returns the engine identifier used in configuration.
	Key() string

	// Detected reports whether the process is actually embedded behind
	// this engine. Undetected engines never receive declines.
	Detected() bool

	// DocumentRoot returns the engine's own document root. Delegation is
	// only safe when it matches the configured application root.
	DocumentRoot() string

	// Decline emits the engine-specific signal for absPath. The response
	// carries headers only; the engine produces the body.
	Decline(c fiber.Ctx, absPath string)
}

var registry sync.Map

// ErrDuplicateEngine indicates an engine key is already registered.
var ErrDuplicateEngine = errors.New("engine already registered")

// Register stores an engine under its key.
func Register(engine Engine) error {
	key := normalizeKey(engine.Key())
	if key == "" {
		return errors.New("engine key required")
	}
	if _, loaded := registry.LoadOrStore(key, engine); loaded {
		return ErrDuplicateEngine
	}
	return nil
}

// MustRegister panics on registration failure.
func MustRegister(engine Engine) {
	if err := Register(engine); err != nil {
		panic(err)
	}
}

// Lookup retrieves the engine registered under key.
func Lookup(key string) (Engine, bool) {
	normalized := normalizeKey(key)
	if normalized == "" {
		return nil, false
	}
	if value, ok := registry.Load(normalized); ok {
		if engine, ok := value.(Engine); ok {
			return engine, true
		}
	}
	return nil, false
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// headerEngine delegates by setting a single sendfile-style header. The
// document root comes from an environment variable exported by the fronting
// server's process manager, which doubles as the detection signal.
type headerEngine struct {
	key     string
	header  string
	rootEnv string
	version string
}

func (e *headerEngine) Key() string { return e.key }

func (e *headerEngine) Detected() bool {
	return os.Getenv(e.rootEnv) != ""
}

func (e *headerEngine) DocumentRoot() string {
	return os.Getenv(e.rootEnv)
}

func (e *headerEngine) Decline(c fiber.Ctx, absPath string) {
	c.Set(e.header, absPath)
	c.Set(signalHeader, e.key+"/"+e.version)
}

func init() {
	MustRegister(&headerEngine{
		key:     "apache",
		header:  "X-Sendfile",
		rootEnv: "STATIC_SERVE_APACHE_ROOT",
		version: "2",
	})
	MustRegister(&headerEngine{
		key:     "nginx",
		header:  "X-Accel-Redirect",
		rootEnv: "STATIC_SERVE_NGINX_ROOT",
		version: "1",
	})
}
