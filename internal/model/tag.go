package model

// NfcTag maps a physical NFC tag to a public redirect URL and its owning
// empresa. TagID is unique across all empresas: the public tap flow looks
// tags up by TagID alone, with no tenant hint.
type NfcTag struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	TagID     string `json:"tag_id" gorm:"type:varchar(255);uniqueIndex;not null"`
	Data      string `json:"data" gorm:"type:text"`
	PublicURL string `json:"public_url" gorm:"type:varchar(255)"`
	EmpresaID uint   `json:"empresa_id" gorm:"index;not null"`
}

func (NfcTag) TableName() string {
	return "nfc_tags"
}
