package utils

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type utilsSuite struct {
	suite.Suite
}

func (s *utilsSuite) TestStripScheme() {
	tests := map[string]string{
		"s3://path/to/file.txt": "path/to/file.txt",
		"private://file.txt":    "file.txt",
		"s3://a b.html":         "a b.html",
		"no-scheme/path.txt":    "no-scheme/path.txt",
		"s3://":                 "",
		"s3://nested://weird":   "nested://weird",
	}
	for in, expected := range tests {
		s.Equal(expected, StripScheme(in), "StripScheme(%q)", in)
	}
}

func (s *utilsSuite) TestScheme() {
	s.Equal("s3", Scheme("s3://foo.txt"))
	s.Equal("private", Scheme("private://a/b"))
	s.Equal("", Scheme("foo.txt"))
}

func (s *utilsSuite) TestApplyPrefix() {
	// no prefix configured is the identity
	s.Equal("path/to/file.txt", ApplyPrefix("path/to/file.txt", ""))

	s.Equal("uploads/photo.png", ApplyPrefix("photo.png", "uploads"))
	s.Equal("uploads/photo.png", ApplyPrefix(StripScheme("s3://photo.png"), "uploads"))

	// a trailing slash on the prefix is not doubled
	s.Equal("uploads/photo.png", ApplyPrefix("photo.png", "uploads/"))
}

func (s *utilsSuite) TestApplyPrefixLeadingSegment() {
	// the prefix must appear as a literal leading segment of the key
	key := ApplyPrefix(StripScheme("s3://dir/file.txt"), "pre")
	s.Equal("pre/dir/file.txt", key)
	s.Equal("pre/", key[:4])
}

func (s *utilsSuite) TestSlashHelpers() {
	s.Equal("a/b", RemoveTrailingSlash("a/b/"))
	s.Equal("a/b", RemoveLeadingSlash("/a/b"))
	s.Equal("a/b/", EnsureTrailingSlash("a/b"))
	s.Equal("a/b/", EnsureTrailingSlash("a/b/"))
	s.Equal("/a/b", EnsureLeadingSlash("a/b"))
	s.Equal("/a/b", EnsureLeadingSlash("/a/b"))
}

func (s *utilsSuite) TestBasename() {
	s.Equal("file.txt", Basename("s3://path/to/file.txt"))
	s.Equal("file.txt", Basename("path/to/file.txt"))
}

func (s *utilsSuite) TestEncodeURI() {
	s.Equal("http://cdn.example.com/a%20b.html", EncodeURI("http", "cdn.example.com", "/a b.html"))
	s.Equal("https://example.com/test%20prefix/foo%201.html", EncodeURI("https", "example.com", "/test prefix/foo 1.html"))
}

func TestUtils(t *testing.T) {
	suite.Run(t, new(utilsSuite))
}
