package model

import (
	"time"

	"healthreg/internal/access"
)

// User represents a system operator account. Mandal binds panchayat
// secretaries to their jurisdiction; AssignedSecretariats holds the JSON
// blob of a field officer's (mandal, secretariat) pairs and is only ever
// read through Assignments so the raw string stays at the storage edge.
type User struct {
	ID                   uint        `json:"id" gorm:"primaryKey"`
	Username             string      `json:"username" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash         string      `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Name                 string      `json:"name" gorm:"size:255;not null"`
	Role                 access.Role `json:"role" gorm:"size:50;not null;index"`
	Mandal               string      `json:"mandal,omitempty" gorm:"size:100;index"`
	AssignedSecretariats string      `json:"-" gorm:"type:text"`
	Active               bool        `json:"active" gorm:"default:true;index"`
	LastLoginAt          *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// Assignments decodes the stored assignment blob, tolerating the legacy
// string format and malformed data.
func (u *User) Assignments() []access.Assignment {
	return access.ParseAssignments(u.AssignedSecretariats)
}

// Actor converts the account into the explicit caller identity consumed
// by access decisions.
func (u *User) Actor() access.Actor {
	return access.Actor{
		UserID:      u.ID,
		Role:        u.Role,
		Mandal:      u.Mandal,
		Assignments: u.Assignments(),
	}
}
