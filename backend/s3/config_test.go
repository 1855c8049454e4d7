package s3

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/cmstack/s3vfs/utils"
)

type configSuite struct {
	suite.Suite
}

func (s *configSuite) TestExternalURLWithCname() {
	// a bare cname without cname_is_bucket serves host-style URLs: the
	// bucket never appears as a path segment
	cfg := Config{
		Bucket: "example-bucket",
		Prefix: "test prefix",
		CNAME:  "example.com",
		Public: true,
	}
	s.Equal("http://example.com/test%20prefix/foo%201.html", cfg.ExternalURL("s3://foo 1.html"))

	cfg.Prefix = ""
	s.Equal("http://example.com/foo%201.html", cfg.ExternalURL("s3://foo 1.html"))
}

func (s *configSuite) TestExternalURLCnameIsBucket() {
	cfg := Config{Bucket: "b", CNAME: "cdn.example.com", CNAMEIsBucket: utils.Ptr(true)}
	s.Equal("http://cdn.example.com/a%20b.html", cfg.ExternalURL("s3://a b.html"))
}

func (s *configSuite) TestExternalURLCnameWithBucketSegment() {
	// only an explicit false puts the bucket on the path
	cfg := Config{
		Bucket:        "my-bucket",
		CNAME:         "storage.example.com",
		CNAMEIsBucket: utils.Ptr(false),
		Public:        true,
	}
	s.Equal("http://storage.example.com/my-bucket/foo%201.html", cfg.ExternalURL("s3://foo 1.html"))
}

func (s *configSuite) TestExternalURLDefaultHost() {
	cfg := Config{Bucket: "my-bucket", Public: true}
	s.Equal("http://s3.amazonaws.com/my-bucket/foo.html", cfg.ExternalURL("s3://foo.html"))
}

func (s *configSuite) TestExternalURLRegionalHost() {
	cfg := Config{Bucket: "my-bucket", Region: "eu-west-1"}
	s.Equal("http://s3.eu-west-1.amazonaws.com/my-bucket/foo.html", cfg.ExternalURL("s3://foo.html"))
}

func (s *configSuite) TestExternalURLProtocol() {
	cfg := Config{Bucket: "b", CNAME: "cdn.example.com", Protocol: "https"}
	s.Equal("https://cdn.example.com/foo.html", cfg.ExternalURL("s3://foo.html"))
}

func (s *configSuite) TestMergeRequest() {
	req := httptest.NewRequest("GET", "https://example.com/", nil)

	merged := Config{Bucket: "b"}.MergeRequest(req)
	s.Equal("https", merged.Protocol, "protocol derived from the ambient request")

	// explicit protocol wins over the request
	merged = Config{Bucket: "b", Protocol: "http"}.MergeRequest(req)
	s.Equal("http", merged.Protocol)

	// nil request leaves the config untouched
	merged = Config{Bucket: "b"}.MergeRequest(nil)
	s.Empty(merged.Protocol)
}

func TestConfig(t *testing.T) {
	suite.Run(t, new(configSuite))
}
