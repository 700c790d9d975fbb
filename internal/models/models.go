package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// StorageEntry is one key/value pair inside a storage namespace. Each
// browser session owns one namespace.
type StorageEntry struct {
	BaseModel
	Namespace string    `json:"namespace" gorm:"type:varchar(64);not null;uniqueIndex:idx_storage_namespace_key"`
	Key       string    `json:"key" gorm:"column:entry_key;type:varchar(128);not null;uniqueIndex:idx_storage_namespace_key"`
	Value     string    `json:"value" gorm:"column:entry_value;type:text;not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime;index"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&StorageEntry{})
}
