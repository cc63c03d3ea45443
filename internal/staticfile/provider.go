package staticfile

import (
	"errors"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v3"
)

// DirectoryProvider produces extra include path entries for the current
// request. Returned strings are regular include path entries, so a provider
// may yield literal directories or further @name references. Errors are
// recoverable: the searcher logs them and moves on to the next entry.
type DirectoryProvider func(c fiber.Ctx) ([]string, error)

var providers sync.Map

// ErrDuplicateProvider indicates a provider name is already registered.
var ErrDuplicateProvider = errors.New("provider already registered")

// RegisterProvider stores a directory provider under the given name.
// Configuration references it as "@name" inside Static.IncludePath.
func RegisterProvider(name string, provider DirectoryProvider) error {
	key := normalizeProviderName(name)
	if key == "" {
		return errors.New("provider name required")
	}
	if provider == nil {
		return errors.New("provider func required")
	}
	if _, loaded := providers.LoadOrStore(key, provider); loaded {
		return ErrDuplicateProvider
	}
	return nil
}

// MustRegisterProvider panics on registration failure.
func MustRegisterProvider(name string, provider DirectoryProvider) {
	if err := RegisterProvider(name, provider); err != nil {
		panic(err)
	}
}

// FetchProvider retrieves the provider registered under name.
func FetchProvider(name string) (DirectoryProvider, bool) {
	key := normalizeProviderName(name)
	if key == "" {
		return nil, false
	}
	if value, ok := providers.Load(key); ok {
		if provider, ok := value.(DirectoryProvider); ok {
			return provider, true
		}
	}
	return nil, false
}

// ProviderStatus returns "registered" or "missing" for diagnostics output.
func ProviderStatus(name string) string {
	if _, ok := FetchProvider(name); ok {
		return "registered"
	}
	return "missing"
}

func normalizeProviderName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
