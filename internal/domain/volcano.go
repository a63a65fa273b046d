package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSource is the attribution recorded when a submission carries no
// explicit source.
const DefaultSource = "PVMBG/MAGMA"

type Volcano struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Province  *string   `gorm:"column:province" json:"province"`
	Latitude  float64   `gorm:"not null;column:latitude" json:"latitude"`
	Longitude float64   `gorm:"not null;column:longitude" json:"longitude"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	CurrentStatus *VolcanoStatusCurrent  `gorm:"constraint:OnDelete:CASCADE;foreignKey:VolcanoID;references:ID" json:"-"`
	History       []VolcanoStatusHistory `gorm:"constraint:OnDelete:CASCADE;foreignKey:VolcanoID;references:ID" json:"-"`
}

func (Volcano) TableName() string {
	return "volcanoes"
}

type VolcanoStatusCurrent struct {
	VolcanoID  uuid.UUID `gorm:"type:uuid;primaryKey;column:volcano_id" json:"volcano_id"`
	Level      string    `gorm:"type:varchar(20);not null;column:level" json:"level"`
	StatusText *string   `gorm:"column:status_text" json:"status_text"`
	Source     string    `gorm:"not null;default:'PVMBG/MAGMA';column:source" json:"source"`
	ObservedAt time.Time `gorm:"not null;column:observed_at" json:"observed_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (VolcanoStatusCurrent) TableName() string {
	return "volcano_status_current"
}

type VolcanoStatusHistory struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VolcanoID  uuid.UUID `gorm:"type:uuid;index;not null;column:volcano_id" json:"volcano_id"`
	Level      string    `gorm:"type:varchar(20);not null;column:level" json:"level"`
	StatusText *string   `gorm:"column:status_text" json:"status_text"`
	Source     string    `gorm:"not null;default:'PVMBG/MAGMA';column:source" json:"source"`
	ObservedAt time.Time `gorm:"not null;column:observed_at" json:"observed_at"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (VolcanoStatusHistory) TableName() string {
	return "volcano_status_history"
}

// VolcanoView merges a volcano's identity and location with its current
// status. This is the only shape the HTTP surface returns.
type VolcanoView struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Province   *string   `json:"province"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Level      string    `json:"level"`
	Source     string    `json:"source"`
	StatusText *string   `json:"status_text"`
	ObservedAt time.Time `json:"observed_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
