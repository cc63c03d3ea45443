package staticfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/static-serve/static-serve/internal/config"
)

// ResolvedFile identifies a concrete file located for the current request.
// Existence was confirmed at resolution time; the file system is not locked,
// so delivery must still treat a later stat failure as fatal to the request.
type ResolvedFile struct {
	// Path is the absolute file path.
	Path string
	// Dir is the include path entry the file was found under, with the
	// trailing separator stripped.
	Dir string
	// FromRoot reports whether Dir is the configured application root,
	// which is a precondition for native passthrough delegation.
	FromRoot bool
}

// popBudget bounds the total number of queue pops per search, so providers
// that keep re-queueing themselves terminate as "not found" instead of
// looping forever.
const popBudget = 64

type searchEntry struct {
	dir      string
	provider DirectoryProvider
	name     string
}

// Searcher walks the ordered include path to find the first existing file
// for a request path. It is read-only after construction.
type Searcher struct {
	entries []searchEntry
	root    string
	logger  *logrus.Logger
}

// NewSearcher resolves the configured include path into search entries.
// A reference to an unregistered provider is a setup error.
func NewSearcher(cfg *config.Config, logger *logrus.Logger) (*Searcher, error) {
	entries := make([]searchEntry, 0, len(cfg.Static.IncludePath))
	for _, entry := range cfg.Static.IncludePath {
		if entry.IsProvider() {
			provider, ok := FetchProvider(entry.Provider)
			if !ok {
				return nil, fmt.Errorf("include path references unregistered provider %q", entry.Provider)
			}
			entries = append(entries, searchEntry{provider: provider, name: entry.Provider})
			continue
		}
		entries = append(entries, searchEntry{dir: entry.Dir})
	}
	return &Searcher{
		entries: entries,
		root:    filepath.Clean(cfg.Global.Root),
		logger:  logger,
	}, nil
}

// Locate pops include path entries front to back until a regular file named
// reqPath (slash-separated, no leading slash) is found. Provider entries
// expand onto the front of the queue so generated directories are searched
// immediately, in produced order. Every pop consumes budget, including
// empty entries that are then skipped.
func (s *Searcher) Locate(c fiber.Ctx, reqPath string, st *RequestState) (*ResolvedFile, bool) {
	queue := make([]searchEntry, len(s.entries))
	copy(queue, s.entries)

	for budget := popBudget; budget > 0 && len(queue) > 0; budget-- {
		entry := queue[0]
		queue = queue[1:]

		if entry.provider != nil {
			produced, err := entry.provider(c)
			if err != nil {
				s.logger.WithError(err).WithFields(logrus.Fields{
					"action":   "include_path_provider",
					"provider": entry.name,
				}).Warn("provider_failed")
				st.Tracef("include path provider %q failed: %v", entry.name, err)
				continue
			}
			queue = append(s.expand(produced, st), queue...)
			continue
		}

		dir := entry.dir
		if len(dir) > 1 {
			// the filesystem root "/" stays intact
			dir = strings.TrimSuffix(dir, "/")
		}
		if dir == "" {
			continue
		}

		candidate := filepath.Join(dir, filepath.FromSlash(reqPath))
		info, err := os.Stat(candidate)
		if err != nil || !info.Mode().IsRegular() {
			st.Tracef("no file for %q under %s", reqPath, dir)
			continue
		}

		abs, err := filepath.Abs(candidate)
		if err != nil {
			abs = candidate
		}
		st.Tracef("resolved %q to %s", reqPath, abs)
		return &ResolvedFile{
			Path:     abs,
			Dir:      dir,
			FromRoot: filepath.Clean(dir) == s.root,
		}, true
	}

	return nil, false
}

// expand converts provider output into queue entries. Provider output may
// itself reference providers; an unregistered reference at this point is a
// runtime condition, logged and skipped rather than fatal.
func (s *Searcher) expand(produced []string, st *RequestState) []searchEntry {
	expanded := make([]searchEntry, 0, len(produced))
	for _, raw := range produced {
		entry := config.ParseIncludeEntry(raw)
		if entry.IsProvider() {
			provider, ok := FetchProvider(entry.Provider)
			if !ok {
				s.logger.WithFields(logrus.Fields{
					"action":   "include_path_provider",
					"provider": entry.Provider,
				}).Warn("provider_missing")
				st.Tracef("produced provider %q is not registered, skipping", entry.Provider)
				continue
			}
			expanded = append(expanded, searchEntry{provider: provider, name: entry.Provider})
			continue
		}
		expanded = append(expanded, searchEntry{dir: entry.Dir})
	}
	return expanded
}
