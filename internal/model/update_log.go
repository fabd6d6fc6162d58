package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audited resident fields. Only mutations to these append UpdateLog rows.
const (
	FieldMobileNumber = "mobileNumber"
	FieldHealthID     = "healthId"
)

// UpdateLog is an append-only audit record of a single field change on a
// resident. Rows are never updated; deletion happens only through the
// purge-update-logs maintenance script.
type UpdateLog struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	ResidentID uuid.UUID `json:"resident_id" gorm:"type:char(36);not null;index"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	FieldName  string    `json:"field_name" gorm:"size:50;not null;index"`
	OldValue   string    `json:"old_value" gorm:"size:255"`
	NewValue   string    `json:"new_value" gorm:"size:255"`
	IPAddress  string    `json:"ip_address" gorm:"size:45"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`

	// Relations
	Resident Resident `json:"-" gorm:"foreignKey:ResidentID"`
	User     User     `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (l *UpdateLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
