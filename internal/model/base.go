package model

import (
	"time"
)

// BaseModel handles integer identity and standard audit timestamps
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SoftDelete marks a row inactive without removing it. A nil DeletedAt means active.
// The column is plain so that no query is filtered implicitly; every read that
// must hide deleted rows says so through the repository's activeOnly scope.
type SoftDelete struct {
	DeletedAt *time.Time `gorm:"index" json:"-"`
}

// IsActive reports whether the row has not been soft-deleted
func (s SoftDelete) IsActive() bool {
	return s.DeletedAt == nil
}
