package domain

import "time"

// Blob is a single named key-value entry. It backs the small pieces of
// client-local state the core owns: the persisted automation filter and the
// bearer credential captured at sign-in. Writes replace the value wholesale.
type Blob struct {
	Key       string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	Value     []byte    `gorm:"type:BLOB NOT NULL"`
	UpdatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoUpdateTime"`
}

// TableName implements the GORM tabler interface.
func (Blob) TableName() string { return "blobs" }
