package entity

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the fields shared by all persisted entities
type BaseEntity struct {
	ID        uuid.UUID `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
