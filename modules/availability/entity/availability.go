package entity

import (
	"time"

	"github.com/google/uuid"
)

// FreeWindow is one manually submitted free interval for a participant.
// Start is inclusive, End is exclusive.
type FreeWindow struct {
	ID        uuid.UUID `db:"id" json:"id"`
	MeetingID uuid.UUID `db:"meeting_id" json:"meeting_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
