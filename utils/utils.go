package utils

import (
	"net/url"
	"path"
	"strings"
)

// RemoveTrailingSlash removes trailing slash, if any
func RemoveTrailingSlash(p string) string {
	return strings.TrimRight(p, "/")
}

// RemoveLeadingSlash removes leading slash, if any
func RemoveLeadingSlash(p string) string {
	return strings.TrimLeft(p, "/")
}

// EnsureTrailingSlash only ever uses / since it's used for object keys and web
// URIs, never a Windows OS path.
func EnsureTrailingSlash(dir string) string {
	if strings.HasSuffix(dir, "/") {
		return dir
	}
	return dir + "/"
}

// EnsureLeadingSlash is like EnsureTrailingSlash except that it adds the
// leading slash if needed.
func EnsureLeadingSlash(dir string) string {
	if strings.HasPrefix(dir, "/") {
		return dir
	}
	return "/" + dir
}

// Scheme returns the uri scheme of a virtual path, or "" when the path does
// not carry a scheme:// marker.
func Scheme(p string) string {
	i := strings.Index(p, "://")
	if i < 0 {
		return ""
	}
	return p[:i]
}

// StripScheme removes only the leading scheme:// marker from a virtual path,
// yielding the relative path. Paths without a marker pass through unchanged.
func StripScheme(p string) string {
	i := strings.Index(p, "://")
	if i < 0 {
		return p
	}
	return p[i+len("://"):]
}

// ApplyPrefix maps a relative path to an object key under the configured key
// prefix. It is pure string joining; callers must pass raw relative paths
// since an already-prefixed key is not guarded against double application.
func ApplyPrefix(relativePath, prefix string) string {
	relativePath = RemoveLeadingSlash(relativePath)
	if prefix == "" {
		return relativePath
	}
	return RemoveTrailingSlash(prefix) + "/" + relativePath
}

// Basename returns the final path segment of a virtual path, for use as a
// display filename.
func Basename(p string) string {
	return path.Base(StripScheme(p))
}

// EncodeURI ensures a generated external URL is properly percent-encoded.
func EncodeURI(scheme, hostport, p string) string {
	u := &url.URL{
		Scheme: scheme,
		Host:   hostport,
		Path:   p,
	}

	return u.String()
}

// Ptr returns a pointer to the given value.
func Ptr[T any](value T) *T {
	return &value
}
