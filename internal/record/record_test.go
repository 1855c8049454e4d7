package record

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordSuite struct {
	suite.Suite

	store *Store
}

func (s *recordSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)

	s.store = NewStore(db)
	s.Require().NoError(s.store.Migrate())
}

func (s *recordSuite) TestCreateFileRecord() {
	id, err := s.store.CreateFileRecord(context.Background(), FileRecord{
		URI:      "s3://photos/cat.png",
		Filename: "cat.png",
		Filesize: 1234,
		MimeType: "image/png",
		OwnerID:  "42",
	})
	s.NoError(err)
	s.NotZero(id)

	rec, err := s.store.FindByURI(context.Background(), "s3://photos/cat.png")
	s.NoError(err)
	s.Equal(id, rec.ID)
	s.Equal("cat.png", rec.Filename)
	s.Equal(int64(1234), rec.Filesize)
	s.Equal("42", rec.OwnerID)
}

func (s *recordSuite) TestDuplicateURIRejected() {
	_, err := s.store.CreateFileRecord(context.Background(), FileRecord{URI: "s3://a"})
	s.NoError(err)

	_, err = s.store.CreateFileRecord(context.Background(), FileRecord{URI: "s3://a"})
	s.Error(err)
}

func TestStore(t *testing.T) {
	suite.Run(t, new(recordSuite))
}
