package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/cmstack/s3vfs"
	"github.com/cmstack/s3vfs/utils"
)

// CoreAdapter implements raw object-store semantics: existence is an exact
// key head, metadata of a missing object is vfs.ErrNotFound, and uploads are
// written with whatever options the caller supplies. The host-facing Adapter
// wraps it to patch those behaviors.
type CoreAdapter struct {
	client Client
	config Config
}

// NewCoreAdapter returns a CoreAdapter for the given client and store config.
func NewCoreAdapter(client Client, config Config) *CoreAdapter {
	return &CoreAdapter{client: client, config: config}
}

// Key resolves a virtual path to its store-native object key by stripping the
// scheme and applying the configured key prefix.
func (a *CoreAdapter) Key(path string) (string, error) {
	rel := utils.RemoveLeadingSlash(utils.StripScheme(path))
	if rel == "" {
		return "", vfs.ErrEmptyPath
	}
	return utils.ApplyPrefix(rel, a.config.Prefix), nil
}

// Exists reports whether an object exists at the exact key.
func (a *CoreAdapter) Exists(ctx context.Context, path string) bool {
	key, err := a.Key(path)
	if err != nil {
		return false
	}
	return a.headOK(ctx, key)
}

// Metadata returns the object's metadata, or vfs.ErrNotFound when no object
// exists at the key. Transport failures propagate unchanged.
func (a *CoreAdapter) Metadata(ctx context.Context, path string) (*vfs.Metadata, error) {
	key, err := a.Key(path)
	if err != nil {
		return nil, err
	}

	out, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, vfs.ErrNotFound
		}
		return nil, err
	}

	md := &vfs.Metadata{
		Type:       vfs.TypeFile,
		Path:       path,
		Visibility: a.visibility(),
	}
	if out.ContentLength != nil {
		md.Size = *out.ContentLength
	}
	if out.LastModified != nil {
		md.Timestamp = *out.LastModified
	}
	if out.ContentType != nil {
		md.MimeType = *out.ContentType
	}
	if out.ETag != nil {
		md.ETag = strings.Trim(*out.ETag, `"`)
	}
	return md, nil
}

// Write uploads body to the path's key with the supplied options, applied
// as-is. Failures from the transport propagate verbatim; retry policy, if
// any, belongs to the client's Retryer.
func (a *CoreAdapter) Write(ctx context.Context, path string, body io.Reader, opts vfs.WriteOptions) (*vfs.Metadata, error) {
	key, err := a.Key(path)
	if err != nil {
		return nil, err
	}

	in := &s3.PutObjectInput{
		Bucket: aws.String(a.config.Bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if opts.ACL != "" {
		in.ACL = types.ObjectCannedACL(opts.ACL)
	}
	if opts.ContentType != "" {
		in.ContentType = aws.String(opts.ContentType)
	}
	if opts.ContentLength > 0 {
		in.ContentLength = aws.Int64(opts.ContentLength)
	}

	if _, err := a.client.PutObject(ctx, in); err != nil {
		return nil, err
	}

	visibility := opts.Visibility
	if visibility == "" {
		visibility = a.visibility()
	}

	return &vfs.Metadata{
		Type:       vfs.TypeFile,
		Path:       path,
		Size:       opts.ContentLength,
		Visibility: visibility,
		MimeType:   opts.ContentType,
	}, nil
}

// Read returns the object's content stream.
func (a *CoreAdapter) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	key, err := a.Key(path)
	if err != nil {
		return nil, err
	}

	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, vfs.ErrNotFound
		}
		return nil, err
	}
	return out.Body, nil
}

// Delete removes the object at the path's key.
func (a *CoreAdapter) Delete(ctx context.Context, path string) error {
	key, err := a.Key(path)
	if err != nil {
		return err
	}

	_, err = a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.config.Bucket),
		Key:    aws.String(key),
	})
	return err
}

// List returns the object keys under the path's key prefix, relative to that
// prefix. This makes a call to the s3 API for every 1000 keys returned.
func (a *CoreAdapter) List(ctx context.Context, path string) ([]string, error) {
	key, err := a.Key(path)
	if err != nil {
		return nil, err
	}
	prefix := utils.EnsureTrailingSlash(key)

	var keys []string
	in := &s3.ListObjectsV2Input{
		Bucket: aws.String(a.config.Bucket),
		Prefix: aws.String(prefix),
	}
	for {
		out, err := a.client.ListObjectsV2(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("list error: %w", err)
		}
		for _, object := range out.Contents {
			if object.Key == nil || *object.Key == prefix {
				continue
			}
			keys = append(keys, strings.TrimPrefix(*object.Key, prefix))
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		in.ContinuationToken = out.NextContinuationToken
	}
	return keys, nil
}

func (a *CoreAdapter) visibility() string {
	if a.config.Public {
		return vfs.VisibilityPublic
	}
	return vfs.VisibilityPrivate
}

// directoryExists reports whether any key lives under key's prefix, the
// directory-by-convention check for stores with no native directories.
func (a *CoreAdapter) directoryExists(ctx context.Context, key string) bool {
	out, err := a.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(a.config.Bucket),
		Prefix:  aws.String(utils.EnsureTrailingSlash(key)),
		MaxKeys: aws.Int32(1),
	})
	return err == nil && len(out.Contents) > 0
}

func (a *CoreAdapter) headOK(ctx context.Context, key string) bool {
	_, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.config.Bucket),
		Key:    aws.String(key),
	})
	return err == nil
}

// isNotFound reports whether err represents a missing object or bucket.
func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	var noSuchBucket *types.NoSuchBucket
	return errors.As(err, &notFound) || errors.As(err, &noSuchKey) || errors.As(err, &noSuchBucket)
}
