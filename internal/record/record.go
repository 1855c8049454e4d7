// Package record persists finalized file records: the durable entity created
// after a successful direct upload.
package record

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// FileRecord is one finalized upload. The URI is the virtual destination the
// signed upload landed at, stored verbatim as reported by the client.
type FileRecord struct {
	gorm.Model

	URI      string `gorm:"uniqueIndex;not null"`
	Filename string `gorm:"index"`
	Filesize int64
	MimeType string
	OwnerID  string `gorm:"index"`
}

// Store persists file records through gorm.
type Store struct {
	db *gorm.DB
}

// NewStore returns a Store over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the file record table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&FileRecord{})
}

// CreateFileRecord durably records a finalized upload and returns the
// assigned identifier.
func (s *Store) CreateFileRecord(ctx context.Context, rec FileRecord) (uint, error) {
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, fmt.Errorf("create file record: %w", err)
	}
	return rec.ID, nil
}

// FindByURI returns the record stored for uri.
func (s *Store) FindByURI(ctx context.Context, uri string) (*FileRecord, error) {
	var rec FileRecord
	if err := s.db.WithContext(ctx).Where("uri = ?", uri).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}
