package model

// User represents a user account. A user belongs to exactly one empresa
// for its lifetime and its role is fixed at creation.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Nombre       string `json:"nombre" gorm:"type:varchar(255);not null"`
	Email        string `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"type:varchar(255);not null"`
	RolID        uint   `json:"rol_id" gorm:"index;not null"`
	EmpresaID    uint   `json:"empresa_id" gorm:"index;not null"`

	Rol     Role    `json:"rol,omitempty" gorm:"foreignKey:RolID"`
	Empresa Empresa `json:"empresa,omitempty" gorm:"foreignKey:EmpresaID"`
}

func (User) TableName() string {
	return "usuarios"
}
