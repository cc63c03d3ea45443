package staticfile

import (
	"mime"
	"strings"
)

// FallbackType is served when neither the override table nor the system
// MIME database knows the extension, and for paths without an extension.
const FallbackType = "text/plain"

// MimeResolver maps file extensions to MIME types. Configured overrides win
// over the system database; an unknown extension is not an error, it simply
// resolves to FallbackType.
type MimeResolver struct {
	overrides map[string]string
}

// NewMimeResolver wraps the configured extension→type override table.
func NewMimeResolver(overrides map[string]string) *MimeResolver {
	return &MimeResolver{overrides: overrides}
}

// Resolve returns the MIME type for a bare extension (no leading dot).
// Override lookup is exact, with the key case as configured.
func (m *MimeResolver) Resolve(ext string, st *RequestState) string {
	if mimeType, ok := m.overrides[ext]; ok {
		st.Tracef("content type %q for extension %q from configured overrides", mimeType, ext)
		return mimeType
	}
	if ext != "" {
		if mimeType := canonicalType(mime.TypeByExtension("." + ext)); mimeType != "" {
			st.Tracef("content type %q for extension %q from mime database", mimeType, ext)
			return mimeType
		}
	}
	st.Tracef("no content type for extension %q, using %s", ext, FallbackType)
	return FallbackType
}

// canonicalType strips media type parameters such as "; charset=utf-8".
func canonicalType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.TrimSpace(mimeType)
}
