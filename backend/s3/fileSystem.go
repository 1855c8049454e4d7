package s3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/cmstack/s3vfs"
)

// Scheme defines the default filesystem scheme.
const Scheme = "s3"

const name = "AWS S3"

// FileSystem implements vfs.FileSystem for one configured S3 store. Multiple
// instances may be registered under different schemes, each with its own
// bucket, prefix, and credentials.
type FileSystem struct {
	scheme    string
	config    Config
	options   Options
	client    Client
	presigner Presigner
	naming    vfs.NamingPolicy
	clock     vfs.Clock
}

// NewFileSystem initializer for FileSystem struct accepts the store Config
// and returns a FileSystem registered under the default scheme.
func NewFileSystem(config Config) *FileSystem {
	return &FileSystem{scheme: Scheme, config: config}
}

// Name returns "AWS S3"
func (fs *FileSystem) Name() string {
	return name
}

// Scheme returns the uri scheme the filesystem is addressed by, ie: s3://
func (fs *FileSystem) Scheme() string {
	return fs.scheme
}

// Config returns the store configuration.
func (fs *FileSystem) Config() Config {
	return fs.config
}

// WithScheme overrides the registration scheme and returns the filesystem (chainable)
func (fs *FileSystem) WithScheme(scheme string) *FileSystem {
	fs.scheme = scheme
	return fs
}

// WithOptions sets client options and returns the filesystem (chainable)
func (fs *FileSystem) WithOptions(opts Options) *FileSystem {
	fs.options = opts
	// ensure a new client is created using the new options when Client() is called
	fs.client = nil
	fs.presigner = nil
	return fs
}

// WithClient passes in an s3 client and returns the filesystem (chainable)
func (fs *FileSystem) WithClient(client Client) *FileSystem {
	fs.client = client
	if c, ok := client.(*s3.Client); ok {
		fs.presigner = s3.NewPresignClient(c)
	}
	return fs
}

// WithPresigner passes in a policy presigner and returns the filesystem (chainable)
func (fs *FileSystem) WithPresigner(presigner Presigner) *FileSystem {
	fs.presigner = presigner
	return fs
}

// WithNamingPolicy sets the host naming policy consulted by Sign (chainable)
func (fs *FileSystem) WithNamingPolicy(naming vfs.NamingPolicy) *FileSystem {
	fs.naming = naming
	return fs
}

// WithClock sets the clock used for synthesized timestamps (chainable)
func (fs *FileSystem) WithClock(clock vfs.Clock) *FileSystem {
	fs.clock = clock
	return fs
}

// Client returns the underlying aws s3 client, creating it (lazily) if
// necessary from the filesystem's options.
func (fs *FileSystem) Client() (Client, error) {
	if fs.client == nil {
		client, err := getClient(fs.options)
		if err != nil {
			return nil, fmt.Errorf("unable to create client: %w", err)
		}
		fs.client = client
		fs.presigner = s3.NewPresignClient(client)
	}
	return fs.client, nil
}

// Adapter returns the host-facing filesystem adapter for the store.
func (fs *FileSystem) Adapter() (vfs.Adapter, error) {
	client, err := fs.Client()
	if err != nil {
		return nil, err
	}
	return NewAdapter(NewCoreAdapter(client, fs.config), fs.clock), nil
}

// Sign builds a signed upload policy via the filesystem's Signer, making
// *FileSystem satisfy vfs.Signer.
func (fs *FileSystem) Sign(ctx context.Context, req vfs.SignRequest) (*vfs.SignedPost, error) {
	signer, err := fs.Signer()
	if err != nil {
		return nil, err
	}
	return signer.Sign(ctx, req)
}

// ExternalURL returns the percent-encoded public URL for a virtual path.
func (fs *FileSystem) ExternalURL(path string) string {
	return fs.config.ExternalURL(path)
}

// Signer returns the upload policy signer for the store. A naming policy must
// have been supplied via WithNamingPolicy.
func (fs *FileSystem) Signer() (*Signer, error) {
	if _, err := fs.Client(); err != nil {
		return nil, err
	}
	if fs.presigner == nil {
		return nil, fmt.Errorf("no presigner available; use WithPresigner with a non-sdk client")
	}
	if fs.naming == nil {
		return nil, fmt.Errorf("no naming policy configured")
	}
	return NewSigner(fs.presigner, fs.config, fs.naming), nil
}
