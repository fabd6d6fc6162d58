package model

// PHCMaster is one row of the PHC-to-secretariat master list. It is the
// canonical source for mandal/secretariat codes and PHC linkage; the
// residents table is reconciled against it by maintenance scripts.
type PHCMaster struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	MandalName string `json:"mandal_name" gorm:"size:100;not null;index"`
	MandalCode int    `json:"mandal_code" gorm:"not null;index"`
	SecName    string `json:"sec_name" gorm:"size:150;not null;index"`
	SecCode    int    `json:"sec_code" gorm:"not null;uniqueIndex"`
	PHCName    string `json:"phc_name" gorm:"size:150;index"`
	RuralUrban string `json:"rural_urban" gorm:"size:10"`
}

// TableName keeps the historical table name.
func (PHCMaster) TableName() string { return "phc_master" }
