// Package naming implements the host naming policy: rename-on-conflict
// destination resolution against a registered filesystem.
package naming

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/cmstack/s3vfs"
	"github.com/cmstack/s3vfs/backend"
	"github.com/cmstack/s3vfs/utils"
)

// maxProbes bounds the rename loop so a pathological prefix cannot turn one
// sign request into an unbounded number of existence checks.
const maxProbes = 128

// Resolver resolves a requested destination to one guaranteed not to clash
// with an existing object, by appending "_0", "_1", … before the extension
// until a free name is found.
type Resolver struct {
	lookup func(scheme string) vfs.FileSystem
}

// NewResolver returns a Resolver probing filesystems from the backend
// registry. A nil lookup defaults to backend.Backend.
func NewResolver(lookup func(scheme string) vfs.FileSystem) *Resolver {
	if lookup == nil {
		lookup = backend.Backend
	}
	return &Resolver{lookup: lookup}
}

// ResolveDestination implements vfs.NamingPolicy.
func (r *Resolver) ResolveDestination(ctx context.Context, destination string) (string, error) {
	scheme := utils.Scheme(destination)
	fs := r.lookup(scheme)
	if fs == nil {
		return "", fmt.Errorf("%w: %q", vfs.ErrNoBackend, scheme)
	}

	adapter, err := fs.Adapter()
	if err != nil {
		return "", err
	}

	if !adapter.Exists(ctx, destination) {
		return destination, nil
	}

	rel := utils.StripScheme(destination)
	dir := path.Dir(rel)
	base := path.Base(rel)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for i := 0; i < maxProbes; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if dir != "." {
			candidate = dir + "/" + candidate
		}
		candidate = scheme + "://" + candidate
		if !adapter.Exists(ctx, candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no non-conflicting destination found for %q", destination)
}
