package repository

import (
	"go-pos-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LocationRepository interface {
	FindByID(id uuid.UUID) (*model.BusinessLocation, error)
	FindAll() ([]model.BusinessLocation, error)
	Exists(id uuid.UUID) (bool, error)
}

type locationRepo struct {
	db *gorm.DB
}

func NewLocationRepo(db *gorm.DB) LocationRepository {
	return &locationRepo{db}
}

func (r *locationRepo) FindByID(id uuid.UUID) (*model.BusinessLocation, error) {
	var location model.BusinessLocation
	if err := r.db.First(&location, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepo) FindAll() ([]model.BusinessLocation, error) {
	var locations []model.BusinessLocation
	err := r.db.Order("name ASC").Find(&locations).Error
	return locations, err
}

func (r *locationRepo) Exists(id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.BusinessLocation{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
