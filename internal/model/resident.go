package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Resident is one citizen record in the district health registry. A
// resident belongs to exactly one (mandal, secretariat) pair at a time;
// the numeric codes are denormalized from the PHC master and have
// historically drifted, which the unify-secretariat-codes script corrects.
type Resident struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string     `json:"name" gorm:"size:255;not null;index"`
	UID         string     `json:"uid" gorm:"column:uid;size:12;index"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      string     `json:"gender" gorm:"size:10"`

	MobileNumber    string `json:"mobile_number" gorm:"size:15;index"`
	MobileNumberOld string `json:"mobile_number_old,omitempty" gorm:"size:15"` // legacy duplicate field, kept for migration audits
	HealthID        string `json:"health_id" gorm:"size:17;index"`

	DistrictName string `json:"district_name" gorm:"size:100"`
	MandalName   string `json:"mandal_name" gorm:"size:100;index:idx_residents_mandal_sec,priority:1"`
	MandalCode   int    `json:"mandal_code" gorm:"index"`
	SecName      string `json:"sec_name" gorm:"size:150;index:idx_residents_mandal_sec,priority:2"`
	SecCode      int    `json:"sec_code" gorm:"index"`
	RuralUrban   string `json:"rural_urban" gorm:"size:10"`
	PHCName      string `json:"phc_name" gorm:"size:150;index"`
	ClusterName  string `json:"cluster_name" gorm:"size:150"`

	DoorNo           string `json:"door_no" gorm:"size:50"`
	Address          string `json:"address" gorm:"type:text"`
	AddressHousehold string `json:"address_household" gorm:"type:text"`
	HouseholdID      string `json:"household_id" gorm:"size:50;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Resident) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
