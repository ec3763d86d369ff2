package repository

import (
	"gorm.io/gorm"

	"github.com/freshpress/juicebar-app/apperror"
	"github.com/freshpress/juicebar-app/models"
)

// CatalogRepository serves the read-only menu reference data. Menu items,
// sizes and add-ons are administered out of band; the order core never
// writes them.
type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

func (r *CatalogRepository) GetAllMenuItems() ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.DB.Where("is_available = ?", true).Find(&items).Error; err != nil {
		return nil, apperror.Internal(err, "failed to list menu items")
	}
	return items, nil
}

func (r *CatalogRepository) GetAllSizes() ([]models.Size, error) {
	var sizes []models.Size
	if err := r.DB.Find(&sizes).Error; err != nil {
		return nil, apperror.Internal(err, "failed to list sizes")
	}
	return sizes, nil
}

func (r *CatalogRepository) GetAllAddOns() ([]models.AddOn, error) {
	var addOns []models.AddOn
	if err := r.DB.Where("is_available = ?", true).Find(&addOns).Error; err != nil {
		return nil, apperror.Internal(err, "failed to list add-ons")
	}
	return addOns, nil
}
