package entities

import (
	"github.com/google/uuid"
)

// Tag and Ingredient are immutable reference data, loaded once and only
// ever read by the API.

type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name  string    `gorm:"not null" json:"name"`
	Color string    `gorm:"uniqueIndex;not null" json:"color"`
	Slug  string    `gorm:"uniqueIndex;not null" json:"slug"`
}

type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name            string    `gorm:"not null;uniqueIndex:idx_name_unit" json:"name"`
	MeasurementUnit string    `gorm:"not null;uniqueIndex:idx_name_unit" json:"measurement_unit"`
}
