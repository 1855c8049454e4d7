package s3

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/cmstack/s3vfs"
)

type ensureSuite struct {
	suite.Suite
}

func (s *ensureSuite) filesystem(client *MockClient) *FileSystem {
	return NewFileSystem(Config{Bucket: "my-bucket", Region: "us-east-1"}).WithClient(client)
}

func (s *ensureSuite) TestEnsureOK() {
	findings := s.filesystem(NewMockClient()).Ensure(context.Background())
	s.Empty(findings, "existing, listable bucket yields no findings")
}

func (s *ensureSuite) TestEnsureBucketMissing() {
	client := NewMockClient()
	client.BucketMissing = true

	findings := s.filesystem(client).Ensure(context.Background())
	s.Require().Len(findings, 1, "exactly one finding for a missing bucket")
	s.Equal(vfs.SeverityError, findings[0].Severity)
}

func (s *ensureSuite) TestEnsureListDenied() {
	client := NewMockClient()
	client.ListObjectsError = assertedErr

	findings := s.filesystem(client).Ensure(context.Background())
	s.Require().Len(findings, 1)
	s.Equal(vfs.SeverityError, findings[0].Severity)
	s.Contains(findings[0].Message, "my-bucket")
}

func (s *ensureSuite) TestValidate() {
	s.Empty(Config{Bucket: "b", Region: "us-east-1"}.Validate())
	s.Empty(Config{Bucket: "b", Endpoint: "https://api.somewhere.tld"}.Validate(), "region is advisory with a custom endpoint")

	findings := Config{}.Validate()
	s.Len(findings, 2)
	s.Equal(vfs.SeverityError, findings[0].Severity)
	s.Equal(vfs.SeverityWarning, findings[1].Severity)
}

func TestEnsure(t *testing.T) {
	suite.Run(t, new(ensureSuite))
}
