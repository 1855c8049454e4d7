package s3

import (
	"net/http"

	"github.com/cmstack/s3vfs/utils"
)

// Config is the store configuration for one registered filesystem. It is
// constructed once from host configuration and immutable for the adapter's
// lifetime.
type Config struct {
	// Bucket is the bucket all keys for this filesystem live in.
	Bucket string `json:"bucket"`

	// Prefix is the key prefix applied to every virtual path, providing
	// namespace isolation within the bucket.
	Prefix string `json:"prefix,omitempty"`

	// Public marks objects written through this filesystem world-readable.
	Public bool `json:"public,omitempty"`

	// Region is required when Endpoint is empty. With a custom Endpoint the
	// region is advisory only.
	Region string `json:"region,omitempty"`

	// Endpoint, when set, points at a fully custom (non-AWS) store.
	Endpoint string `json:"endpoint,omitempty"`

	// CNAME overrides the public URL host.
	CNAME string `json:"cname,omitempty"`

	// CNAMEIsBucket controls whether CNAME stands in for the bucket. Unset
	// means true: a bare cname is assumed to already route to the bucket.
	// When explicitly false the bucket name is appended as a path segment
	// after the cname.
	CNAMEIsBucket *bool `json:"cname_is_bucket,omitempty"`

	// Protocol is the scheme of generated external URLs. Derived from the
	// ambient request at construction time when not explicitly set.
	Protocol string `json:"protocol,omitempty"`
}

// MergeRequest derives construction-time settings from the ambient inbound
// request: when Protocol is unset it takes the scheme the request arrived on.
// Merging happens at construction time only; the config is immutable after.
//
// This is host-facing API for embedders that build store configs while
// serving a request. The standalone daemon constructs its stores at startup,
// with no ambient request, and leaves Protocol to configuration.
func (c Config) MergeRequest(r *http.Request) Config {
	if c.Protocol != "" || r == nil {
		return c
	}
	c.Protocol = "http"
	if r.TLS != nil || r.URL.Scheme == "https" {
		c.Protocol = "https"
	}
	return c
}

// host returns the hostname external URLs are served from and whether the
// bucket must appear as a leading path segment.
func (c Config) host() (host string, pathStyle bool) {
	switch {
	case c.CNAME != "" && (c.CNAMEIsBucket == nil || *c.CNAMEIsBucket):
		return c.CNAME, false
	case c.CNAME != "":
		return c.CNAME, true
	default:
		// standard regional object-store domain
		if c.Region != "" && c.Region != "us-east-1" {
			return "s3." + c.Region + ".amazonaws.com", true
		}
		return "s3.amazonaws.com", true
	}
}

// ExternalURL returns the percent-encoded public URL for a virtual path.
func (c Config) ExternalURL(path string) string {
	key := utils.ApplyPrefix(utils.StripScheme(path), c.Prefix)

	protocol := c.Protocol
	if protocol == "" {
		protocol = "http"
	}

	host, pathStyle := c.host()
	if pathStyle {
		key = c.Bucket + "/" + key
	}

	return utils.EncodeURI(protocol, host, utils.EnsureLeadingSlash(key))
}
