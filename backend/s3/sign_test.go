package s3

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/cmstack/s3vfs"
)

// passthroughNaming returns destinations unchanged, or a fixed rename.
type passthroughNaming struct {
	rename map[string]string
	err    error
}

func (n *passthroughNaming) ResolveDestination(_ context.Context, destination string) (string, error) {
	if n.err != nil {
		return "", n.err
	}
	if renamed, ok := n.rename[destination]; ok {
		return renamed, nil
	}
	return destination, nil
}

type signSuite struct {
	suite.Suite

	presigner *MockPresigner
	naming    *passthroughNaming
	signer    *Signer
}

func (s *signSuite) SetupTest() {
	s.presigner = &MockPresigner{}
	s.naming = &passthroughNaming{}
	s.signer = NewSigner(s.presigner, Config{Bucket: "b", Prefix: "uploads"}, s.naming)
}

func (s *signSuite) sign(req vfs.SignRequest) *vfs.SignedPost {
	post, err := s.signer.Sign(context.Background(), req)
	s.Require().NoError(err)
	return post
}

func (s *signSuite) TestSignBindsResolvedKey() {
	post := s.sign(vfs.SignRequest{
		Destination: "s3://photos",
		Filename:    "cat.png",
		ContentType: "image/png",
		ACL:         "public-read",
	})

	s.Equal("s3://photos/cat.png", post.URL, "url is the resolved virtual destination")
	s.Equal("uploads/photos/cat.png", *s.presigner.LastInput.Key)

	// the policy must bind the key field exactly to the resolved key
	s.Contains(post.Options, []string{"starts-with", "$key", "uploads/photos/cat.png"})
	s.Contains(post.Options, map[string]string{"acl": "public-read"})
	s.Contains(post.Options, map[string]string{"bucket": "b"})
	s.Contains(post.Options, []string{"starts-with", "$Content-Type", "image/png"})
}

func (s *signSuite) TestSignFormOutput() {
	post := s.sign(vfs.SignRequest{Destination: "s3://d", Filename: "f.txt", ContentType: "text/plain"})

	s.Equal("POST", post.Attributes.Method)
	s.Equal("multipart/form-data", post.Attributes.Enctype)
	s.NotEmpty(post.Attributes.Action)

	s.Equal("uploads/d/f.txt", post.Inputs["key"])
	s.NotEmpty(post.Inputs["policy"])
	s.NotEmpty(post.Inputs["X-Amz-Signature"])
	s.Equal("private", post.Inputs["acl"], "acl defaults to private")
	s.Equal("text/plain", post.Inputs["Content-Type"])
}

func (s *signSuite) TestSignInfersContentType() {
	post := s.sign(vfs.SignRequest{Destination: "s3://d", Filename: "report.pdf"})

	var constraint []string
	for _, opt := range post.Options {
		if c, ok := opt.([]string); ok && len(c) == 3 && c[1] == "$Content-Type" {
			constraint = c
		}
	}
	s.Require().NotNil(constraint, "a content-type constraint is always present")
	s.NotEmpty(constraint[2])
}

func (s *signSuite) TestSignUsesCollisionAvoidedName() {
	s.naming.rename = map[string]string{"s3://d/f.txt": "s3://d/f_0.txt"}

	post := s.sign(vfs.SignRequest{Destination: "s3://d", Filename: "f.txt", ContentType: "text/plain"})
	s.Equal("s3://d/f_0.txt", post.URL)
	s.Equal("uploads/d/f_0.txt", *s.presigner.LastInput.Key)
	s.Contains(post.Options, []string{"starts-with", "$key", "uploads/d/f_0.txt"})
}

func (s *signSuite) TestSignStripsTransportFields() {
	post := s.sign(vfs.SignRequest{
		Destination: "s3://d",
		Filename:    "f.txt",
		ContentType: "text/plain",
		Fields: map[string]string{
			"destination":             "s3://d",
			"filename":                "f.txt",
			"success_action_redirect": "https://host/done",
		},
	})

	s.NotContains(post.Inputs, "destination")
	s.NotContains(post.Inputs, "filename")
	s.Equal("https://host/done", post.Inputs["success_action_redirect"])
	s.Contains(post.Options, map[string]string{"success_action_redirect": "https://host/done"})
}

func (s *signSuite) TestSignExpiry() {
	s.sign(vfs.SignRequest{Destination: "s3://d", Filename: "f.txt", ContentType: "text/plain"})
	s.Equal(5*time.Hour, s.presigner.LastExpires, "default expiry is a fixed 5 hour offset")

	s.sign(vfs.SignRequest{Destination: "s3://d", Filename: "f.txt", ContentType: "text/plain", Expires: time.Minute})
	s.Equal(time.Minute, s.presigner.LastExpires)
}

func (s *signSuite) TestSignEmptyFilename() {
	_, err := s.signer.Sign(context.Background(), vfs.SignRequest{Destination: "s3://d"})
	s.ErrorIs(err, vfs.ErrEmptyPath)
}

func (s *signSuite) TestSignNamingFailurePropagates() {
	s.naming.err = assertedErr
	_, err := s.signer.Sign(context.Background(), vfs.SignRequest{Destination: "s3://d", Filename: "f.txt"})
	s.ErrorIs(err, assertedErr)
}

func TestSigner(t *testing.T) {
	suite.Run(t, new(signSuite))
}
