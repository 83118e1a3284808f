package model

// Empresa is the tenant of the platform. Every user, tag and tap carries
// an EmpresaID; the empresa row itself is never deleted by this service.
type Empresa struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Nombre string `json:"nombre" gorm:"type:varchar(255);uniqueIndex;not null"`
}

// TableName keeps the table name the frontend and seed scripts expect.
func (Empresa) TableName() string {
	return "empresas"
}
