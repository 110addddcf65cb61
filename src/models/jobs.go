package models

import (
	"etix/src/types"
	"time"

	"github.com/google/uuid"
)

// SweepRun is the audit record of one automatic refund sweep.
type SweepRun struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	StartedAt  time.Time   `json:"started_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
	Processed  int         `json:"processed"`
	Failed     int         `json:"failed"`
	Results    types.JSONB `gorm:"type:jsonb" json:"results,omitempty"`

	types.Timestamps
}
