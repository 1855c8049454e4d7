package vfs

// Error is a type that allows for error constants below
type Error string

// Error returns a string representation of the error
func (e Error) Error() string { return string(e) }

const (
	// ErrNotFound - object does not exist at the given key
	ErrNotFound = Error("object does not exist")

	// ErrEmptyPath - a virtual path must contain a non-empty relative path
	ErrEmptyPath = Error("path is empty")

	// ErrNoBackend - no filesystem is registered for the requested scheme
	ErrNoBackend = Error("no backend registered for scheme")
)
