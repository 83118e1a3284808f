package model

// Role is a named role attached to a user at creation time.
type Role struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Nombre string `json:"nombre" gorm:"type:varchar(50);uniqueIndex;not null"`
}

func (Role) TableName() string {
	return "roles"
}
