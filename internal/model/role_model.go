package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoleModel struct {
	ID        string `gorm:"type:uuid;primary_key"`
	Name      string `gorm:"uniqueIndex;not null"`
	IsDelete  bool   `gorm:"default:false;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (RoleModel) TableName() string { return "roles" }

func (r *RoleModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
