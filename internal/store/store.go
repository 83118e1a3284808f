package store

import (
	"gorm.io/gorm"

	"taplink-service/internal/model"
)

// ErrNotFound is returned when a row is absent or belongs to another
// empresa; callers cannot tell the two apart.
var ErrNotFound = gorm.ErrRecordNotFound

// Store is the persistence surface of the service. Every method that
// touches empresa-owned data takes the resolved empresa id; the only
// unscoped lookups are by globally unique keys (login email, public tag
// id) where a tenant hint does not exist yet.
type Store interface {
	// Users
	FindUserByEmail(email string) (*model.User, error)
	CreateUser(user *model.User) error
	ListUsers(empresaID int64) ([]model.User, error)
	DeleteUser(id int64, empresaID int64) error

	// Tags
	ListTags(empresaID int64) ([]model.NfcTag, error)
	CreateTag(tag *model.NfcTag) error
	DeleteTag(id int64, empresaID int64) error
	FindTagByTagID(tagID string) (*model.NfcTag, error)

	// Taps
	CreateTap(tap *model.NfcTap) error
	ListTaps(empresaID int64) ([]model.NfcTap, error)

	// Empresas
	GetEmpresa(id int64) (*model.Empresa, error)
}

type gormStore struct {
	db *gorm.DB
}

// New wraps a connected gorm handle as a Store.
func New(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) FindUserByEmail(email string) (*model.User, error) {
	var user model.User
	if err := s.db.Preload("Rol").Preload("Empresa").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) CreateUser(user *model.User) error {
	return s.db.Create(user).Error
}

func (s *gormStore) ListUsers(empresaID int64) ([]model.User, error) {
	var users []model.User
	err := s.db.Preload("Rol").Preload("Empresa").
		Where("empresa_id = ?", empresaID).
		Find(&users).Error
	return users, err
}

func (s *gormStore) DeleteUser(id int64, empresaID int64) error {
	result := s.db.Where("id = ? AND empresa_id = ?", id, empresaID).Delete(&model.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) ListTags(empresaID int64) ([]model.NfcTag, error) {
	var tags []model.NfcTag
	err := s.db.Where("empresa_id = ?", empresaID).Find(&tags).Error
	return tags, err
}

func (s *gormStore) CreateTag(tag *model.NfcTag) error {
	return s.db.Create(tag).Error
}

func (s *gormStore) DeleteTag(id int64, empresaID int64) error {
	result := s.db.Where("id = ? AND empresa_id = ?", id, empresaID).Delete(&model.NfcTag{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) FindTagByTagID(tagID string) (*model.NfcTag, error) {
	var tag model.NfcTag
	if err := s.db.Where("tag_id = ?", tagID).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *gormStore) CreateTap(tap *model.NfcTap) error {
	return s.db.Create(tap).Error
}

func (s *gormStore) ListTaps(empresaID int64) ([]model.NfcTap, error) {
	var taps []model.NfcTap
	err := s.db.Where("empresa_id = ?", empresaID).Order("timestamp DESC").Find(&taps).Error
	return taps, err
}

func (s *gormStore) GetEmpresa(id int64) (*model.Empresa, error) {
	var empresa model.Empresa
	if err := s.db.First(&empresa, id).Error; err != nil {
		return nil, err
	}
	return &empresa, nil
}
