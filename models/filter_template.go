package models

import "time"

// FilterTemplate is a saved set of filter parameters, keyed by a template
// group so each screen keeps its own list. Params hold the raw filter
// key/value pairs exactly as the list endpoint accepts them.
type FilterTemplate struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	TemplateGroup string            `gorm:"type:varchar(100);not null;index" json:"group"`
	Name          string            `gorm:"type:varchar(255);not null" json:"name"`
	Params        map[string]string `gorm:"serializer:json" json:"params"`
	CreatedAt     time.Time         `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time         `gorm:"not null" json:"updatedAt"`
}
