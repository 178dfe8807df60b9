package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/dvircohen/repair-track/models"
)

// TemplateStore keeps saved filter templates keyed by template group. It is
// handed to controllers explicitly; templates move through the API as plain
// data and feed the filter compiler unchanged.
type TemplateStore struct {
	DB *gorm.DB
}

func NewTemplateStore(db *gorm.DB) *TemplateStore {
	return &TemplateStore{DB: db}
}

func (ts *TemplateStore) Save(template *models.FilterTemplate) error {
	if err := ts.DB.Save(template).Error; err != nil {
		return fmt.Errorf("failed to save filter template: %w", err)
	}
	return nil
}

// ListGroup returns the templates of one group, oldest first. An unknown
// group is just an empty list, not an error.
func (ts *TemplateStore) ListGroup(group string) ([]models.FilterTemplate, error) {
	var templates []models.FilterTemplate
	if err := ts.DB.Where("template_group = ?", group).
		Order("id ASC").
		Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to list templates for group %q: %w", group, err)
	}
	return templates, nil
}

func (ts *TemplateStore) Delete(id uint) error {
	res := ts.DB.Delete(&models.FilterTemplate{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete template %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
