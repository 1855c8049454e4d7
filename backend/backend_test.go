package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/cmstack/s3vfs"
)

type stubFileSystem struct {
	scheme string
}

func (f *stubFileSystem) Name() string                  { return "stub" }
func (f *stubFileSystem) Scheme() string                { return f.scheme }
func (f *stubFileSystem) Adapter() (vfs.Adapter, error) { return nil, nil }
func (f *stubFileSystem) Sign(context.Context, vfs.SignRequest) (*vfs.SignedPost, error) {
	return nil, nil
}

type backendSuite struct {
	suite.Suite
}

func (s *backendSuite) SetupTest() {
	UnregisterAll()
}

func (s *backendSuite) TestRegisterAndBackend() {
	s.Nil(Backend("s3"), "nothing registered yet")

	fs := &stubFileSystem{scheme: "s3"}
	Register("s3", fs)
	s.Same(fs, Backend("s3"))
	s.Nil(Backend("private"))
}

func (s *backendSuite) TestRegisteredBackends() {
	Register("s3", &stubFileSystem{scheme: "s3"})
	Register("private", &stubFileSystem{scheme: "private"})
	s.Equal([]string{"private", "s3"}, RegisteredBackends(), "schemes are sorted")
}

func (s *backendSuite) TestUnregister() {
	Register("s3", &stubFileSystem{scheme: "s3"})
	Unregister("s3")
	s.Nil(Backend("s3"))
}

func TestBackend(t *testing.T) {
	suite.Run(t, new(backendSuite))
}
