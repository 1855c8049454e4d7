package s3

import (
	"context"
	"maps"
	"mime"
	"net/http"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/cmstack/s3vfs"
	"github.com/cmstack/s3vfs/utils"
)

// DefaultSignExpiry is the forward offset applied to upload policies when the
// request does not specify one.
const DefaultSignExpiry = 5 * time.Hour

// transport-only fields carry routing hints for this service and must never
// reach the signing primitive; only fields meaningful to the store's upload
// API may be signed.
var transportFields = map[string]bool{
	"destination": true,
	"filename":    true,
}

// Signer builds constrained, time-bound upload policies for browser direct
// uploads. Signing is read-only: no object is created at signing time, and no
// record of issued policies is kept. A policy permits upload only to the
// resolved key, only with the declared ACL, only with a content type matching
// the declared prefix, and only before expiry.
type Signer struct {
	presigner Presigner
	config    Config
	naming    vfs.NamingPolicy
}

// NewSigner returns a Signer for the given presigner and store config.
// The naming policy supplies collision-avoided destinations; the signer only
// delegates and consumes the result.
func NewSigner(presigner Presigner, config Config, naming vfs.NamingPolicy) *Signer {
	return &Signer{presigner: presigner, config: config, naming: naming}
}

// Sign resolves the upload destination and returns the signed browser form.
func (s *Signer) Sign(ctx context.Context, req vfs.SignRequest) (*vfs.SignedPost, error) {
	if req.Filename == "" {
		return nil, vfs.ErrEmptyPath
	}

	destination, err := s.naming.ResolveDestination(ctx, utils.RemoveTrailingSlash(req.Destination)+"/"+req.Filename)
	if err != nil {
		return nil, err
	}

	key := utils.ApplyPrefix(utils.RemoveLeadingSlash(utils.StripScheme(destination)), s.config.Prefix)

	acl := req.ACL
	if acl == "" {
		acl = "private"
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(req.Filename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// The key and Content-Type constraints are prefix matches bound to the
	// full resolved values, so the client can upload to no other key and can
	// not spoof a content type outside the declared prefix.
	conditions := []any{
		map[string]string{"acl": acl},
		map[string]string{"bucket": s.config.Bucket},
		[]string{"starts-with", "$key", key},
		[]string{"starts-with", "$Content-Type", contentType},
	}

	extra := make(map[string]string, len(req.Fields))
	for name, value := range req.Fields {
		if transportFields[name] {
			continue
		}
		extra[name] = value
		conditions = append(conditions, map[string]string{name: value})
	}

	expires := req.Expires
	if expires <= 0 {
		expires = DefaultSignExpiry
	}

	post, err := s.presigner.PresignPostObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignPostOptions) {
		o.Expires = expires
		o.Conditions = conditions
	})
	if err != nil {
		return nil, err
	}

	inputs := make(map[string]string, len(post.Values)+len(extra)+2)
	maps.Copy(inputs, post.Values)
	maps.Copy(inputs, extra)
	inputs["acl"] = acl
	inputs["Content-Type"] = contentType

	return &vfs.SignedPost{
		Attributes: vfs.FormAttributes{
			Action:  post.URL,
			Method:  http.MethodPost,
			Enctype: "multipart/form-data",
		},
		Inputs:  inputs,
		Options: conditions,
		URL:     destination,
	}, nil
}
