package persistent

import (
	"user-admin/internal/entity"
	"user-admin/internal/model"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		ID:        m.ID,
		Username:  m.Username,
		Password:  m.Password,
		Email:     m.Email,
		FullName:  m.FullName,
		AvatarURL: m.AvatarURL,
		Role:      ToRoleEntity(m.Role),
		Status:    m.Status,
		IsDelete:  m.IsDelete,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}

	m := &model.UserModel{
		ID:        e.ID,
		Username:  e.Username,
		Password:  e.Password,
		Email:     e.Email,
		FullName:  e.FullName,
		AvatarURL: e.AvatarURL,
		Status:    e.Status,
		IsDelete:  e.IsDelete,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	if e.Role != nil {
		id := e.Role.ID
		m.RoleID = &id
	}
	return m
}

func ToRoleEntity(m *model.RoleModel) *entity.Role {
	if m == nil {
		return nil
	}

	return &entity.Role{
		ID:        m.ID,
		Name:      m.Name,
		IsDelete:  m.IsDelete,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToRoleModel(e *entity.Role) *model.RoleModel {
	if e == nil {
		return nil
	}

	return &model.RoleModel{
		ID:        e.ID,
		Name:      e.Name,
		IsDelete:  e.IsDelete,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
