// Package vfs provides a filesystem-like interface over key-addressed object
// stores, plus the types shared by backends: adapters, metadata records, and
// signed direct-upload policies.
package vfs

import (
	"context"
	"io"
	"time"
)

// Metadata types.
const (
	TypeFile = "file"
	TypeDir  = "dir"
)

// Visibility values mirror the host application's public/private flag.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Metadata describes an object (or synthesized directory) at a virtual path.
type Metadata struct {
	Type       string    `json:"type"`
	Path       string    `json:"path"`
	Size       int64     `json:"size,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Visibility string    `json:"visibility"`
	MimeType   string    `json:"mimetype,omitempty"`
	ETag       string    `json:"etag,omitempty"`
}

// WriteOptions carries per-write settings. Zero values mean "infer": an empty
// ContentType is guessed from the path extension (or sniffed from a seekable
// body), a zero ContentLength is probed from the body, and an empty ACL
// defaults to private.
type WriteOptions struct {
	ACL           string
	ContentType   string
	ContentLength int64
	Visibility    string
}

// Adapter is the filesystem-like contract a backend exposes to the host
// application. Paths are virtual paths of the form scheme://relative/path.
//
// Exists never fails; a transport failure is reported as absence. Metadata
// never returns ErrNotFound for a missing object; it synthesizes directory
// metadata instead, since hosts expect every path to resolve to something.
type Adapter interface {
	Exists(ctx context.Context, path string) bool
	Metadata(ctx context.Context, path string) (*Metadata, error)
	Write(ctx context.Context, path string, body io.Reader, opts WriteOptions) (*Metadata, error)
	Read(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// FileSystem represents a configured store with any authentication accounted
// for, registered under a URI scheme.
type FileSystem interface {
	// Name returns the human-readable name of the FileSystem ie: AWS S3
	Name() string

	// Scheme is the uri scheme registered for the FileSystem: s3, private, etc.
	Scheme() string

	// Adapter returns the filesystem adapter for the store. On error, nil is
	// returned for the adapter.
	Adapter() (Adapter, error)
}

// NamingPolicy is the host's collision-avoidance naming capability: given a
// requested destination it returns a destination guaranteed not to clash with
// an existing object (rename-on-conflict semantics).
type NamingPolicy interface {
	ResolveDestination(ctx context.Context, destination string) (string, error)
}

// SignRequest describes one pending direct upload: where the client wants the
// object to land and what it claims about the payload. Fields holds any
// additional form fields the client wants included with the browser POST.
type SignRequest struct {
	Destination string
	Filename    string
	ContentType string
	ACL         string
	Fields      map[string]string
	Expires     time.Duration
}

// FormAttributes are the <form> attributes for a browser direct upload.
type FormAttributes struct {
	Action  string `json:"action"`
	Method  string `json:"method"`
	Enctype string `json:"enctype"`
}

// SignedPost is a signed upload authorization: the form attributes and hidden
// inputs the browser submits, the policy conditions applied, and the resolved
// virtual destination the upload will land at.
type SignedPost struct {
	Attributes FormAttributes    `json:"attributes"`
	Inputs     map[string]string `json:"inputs"`
	Options    []any             `json:"options"`
	URL        string            `json:"url"`
}

// Signer is implemented by filesystems that support signed browser uploads.
type Signer interface {
	Sign(ctx context.Context, req SignRequest) (*SignedPost, error)
}

// Ensurer is implemented by filesystems that can verify their own
// provisioning. Failures are reported as findings, never as errors, since
// partial diagnostics are more useful than aborting configuration checks.
type Ensurer interface {
	Ensure(ctx context.Context) []Finding
}

// Finding severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Finding is one provisioning diagnostic.
type Finding struct {
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Message  string `json:"message"`
}

// Clock abstracts "now" so adapters and handlers stay testable without a
// framework context.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the server's system time.
type SystemClock struct{}

// Now returns time.Now.
func (SystemClock) Now() time.Time { return time.Now() }
