package s3

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/cmstack/s3vfs"
)

// Adapter wraps a CoreAdapter and patches exactly three operations for host
// compatibility: Exists gains the directory-by-convention fallbacks, Metadata
// synthesizes directory metadata for missing objects, and Write fills in ACL,
// content type, and content length when not supplied. Everything else
// delegates unchanged.
type Adapter struct {
	core  *CoreAdapter
	clock vfs.Clock
}

// NewAdapter returns the host-facing adapter over core. A nil clock defaults
// to the system clock.
func NewAdapter(core *CoreAdapter, clock vfs.Clock) *Adapter {
	if clock == nil {
		clock = vfs.SystemClock{}
	}
	return &Adapter{core: core, clock: clock}
}

// Exists returns true if an object exists at the exact key, or at key+"/"
// (directory marker convention), or if any key lives under that prefix.
// Exists never fails: transport failures are reported as absence.
func (a *Adapter) Exists(ctx context.Context, p string) bool {
	key, err := a.core.Key(p)
	if err != nil {
		return false
	}
	if a.core.headOK(ctx, key) {
		return true
	}
	if a.core.headOK(ctx, key+"/") {
		return true
	}
	return a.core.directoryExists(ctx, key)
}

// Metadata returns the object's metadata. A missing object is not an error:
// the path is reinterpreted as an implicit directory and metadata is
// synthesized for it, since host callers expect every path to resolve to
// something. Transport failures still propagate.
func (a *Adapter) Metadata(ctx context.Context, p string) (*vfs.Metadata, error) {
	md, err := a.core.Metadata(ctx, p)
	if err != nil {
		if errors.Is(err, vfs.ErrNotFound) {
			return &vfs.Metadata{
				Type:       vfs.TypeDir,
				Path:       p,
				Timestamp:  a.clock.Now(),
				Visibility: vfs.VisibilityPublic,
			}, nil
		}
		return nil, err
	}
	return md, nil
}

// Write uploads body to the path's key, filling in what the caller left
// unspecified: the ACL defaults to private, the content type is guessed from
// the path extension (or sniffed when the body is seekable), and the content
// length is probed from the body. A stream body is handed to the transport
// as-is, never materialized in memory.
func (a *Adapter) Write(ctx context.Context, p string, body io.Reader, opts vfs.WriteOptions) (*vfs.Metadata, error) {
	if opts.ACL == "" {
		opts.ACL = "private"
		if opts.Visibility == vfs.VisibilityPublic {
			opts.ACL = "public-read"
		}
	}

	if opts.ContentType == "" {
		opts.ContentType = detectContentType(p, body)
	}

	if opts.ContentLength == 0 {
		if size, ok := probeSize(body); ok {
			opts.ContentLength = size
		}
	}

	md, err := a.core.Write(ctx, p, body, opts)
	if err != nil {
		return nil, err
	}
	md.Timestamp = a.clock.Now()
	return md, nil
}

// Read delegates to the core adapter.
func (a *Adapter) Read(ctx context.Context, p string) (io.ReadCloser, error) {
	return a.core.Read(ctx, p)
}

// Delete delegates to the core adapter.
func (a *Adapter) Delete(ctx context.Context, p string) error {
	return a.core.Delete(ctx, p)
}

// List delegates to the core adapter.
func (a *Adapter) List(ctx context.Context, prefix string) ([]string, error) {
	return a.core.List(ctx, prefix)
}

// detectContentType guesses a content type from the path extension, falling
// back to sniffing the body's leading bytes when it can be rewound.
func detectContentType(p string, body io.Reader) string {
	if ct := mime.TypeByExtension(path.Ext(p)); ct != "" {
		return ct
	}

	if rs, ok := body.(io.ReadSeeker); ok {
		buf := make([]byte, 512)
		n, err := rs.Read(buf)
		if _, serr := rs.Seek(int64(-n), io.SeekCurrent); serr == nil && (err == nil || err == io.EOF) && n > 0 {
			return http.DetectContentType(buf[:n])
		}
	}

	return "application/octet-stream"
}

// probeSize determines the remaining byte count of body without consuming it.
// Buffered payloads report their length directly; seekable streams are
// measured by seeking to the end and back.
func probeSize(body io.Reader) (int64, bool) {
	if l, ok := body.(interface{ Len() int }); ok {
		return int64(l.Len()), true
	}

	if s, ok := body.(io.Seeker); ok {
		cur, err := s.Seek(0, io.SeekCurrent)
		if err != nil {
			return 0, false
		}
		end, err := s.Seek(0, io.SeekEnd)
		if err != nil {
			return 0, false
		}
		if _, err := s.Seek(cur, io.SeekStart); err != nil {
			return 0, false
		}
		return end - cur, true
	}

	return 0, false
}
