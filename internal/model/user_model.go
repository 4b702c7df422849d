package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel keeps soft deletion as a plain queryable flag instead of
// gorm.DeletedAt: deleted users must stay reachable by id and the flag is
// part of the API payload.
type UserModel struct {
	ID        string     `gorm:"type:uuid;primary_key"`
	Username  string     `gorm:"uniqueIndex;not null"`
	Password  string     `gorm:"not null"`
	Email     string     `gorm:"uniqueIndex;not null"`
	FullName  string     `gorm:"default:''"`
	AvatarURL string     `gorm:"default:''"`
	RoleID    *string    `gorm:"type:uuid;index"`
	Role      *RoleModel `gorm:"foreignKey:RoleID"`
	Status    bool       `gorm:"default:false"`
	IsDelete  bool       `gorm:"default:false;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
