package model

import "time"

// NfcTap is an append-only tap event. TagID is a denormalized string, not
// a foreign key: a tap survives deletion of its tag. Timestamp is assigned
// server-side at insert time and rows are never updated afterwards.
type NfcTap struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	TagID        string    `json:"tag_id" gorm:"type:varchar(255);index;not null"`
	Timestamp    time.Time `json:"timestamp" gorm:"autoCreateTime;index"`
	IPAddress    string    `json:"ip_address" gorm:"type:varchar(45)"`
	UserAgent    string    `json:"user_agent" gorm:"type:text"`
	LocationData string    `json:"location_data" gorm:"type:text"`
	EmpresaID    uint      `json:"empresa_id" gorm:"index;not null"`
}

func (NfcTap) TableName() string {
	return "nfc_taps"
}
