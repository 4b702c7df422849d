package usecase

import (
	"fmt"
	"strings"

	"user-admin/internal/entity"
	"user-admin/internal/repo/persistent"
	"user-admin/pkg/logger"

	"github.com/google/uuid"
)

type RoleListQuery struct {
	Name           string
	IncludeDeleted string // raw query flag; "", "false" and "0" are falsy
	Page           string
	Limit          string
}

type RolePage struct {
	Items []*entity.Role `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Pages int            `json:"pages"`
}

type RoleUseCase interface {
	Create(name string) (*entity.Role, error)
	List(q RoleListQuery) ([]*entity.Role, *RolePage, error)
	GetByID(id string) (*entity.Role, error)
	SoftDelete(id string) (*entity.Role, error)
}

type roleUseCase struct {
	roleRepo persistent.RoleRepository
	logger   *logger.Logger
}

func NewRoleUseCase(roleRepo persistent.RoleRepository, logger *logger.Logger) RoleUseCase {
	return &roleUseCase{roleRepo: roleRepo, logger: logger}
}

func (uc *roleUseCase) Create(name string) (*entity.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Msg: "name is required"}
	}

	if taken, err := uc.roleRepo.NameTaken(name, ""); err != nil {
		return nil, fmt.Errorf("check role name: %w", err)
	} else if taken {
		return nil, &ConflictError{Field: "name"}
	}

	role := &entity.Role{Name: name}
	if err := uc.roleRepo.Create(role); err != nil {
		if field, ok := duplicateField(err); ok {
			return nil, &ConflictError{Field: field}
		}
		uc.logger.Error("Failed to create role: %v", err)
		return nil, fmt.Errorf("create role: %w", err)
	}
	return role, nil
}

func (uc *roleUseCase) List(q RoleListQuery) ([]*entity.Role, *RolePage, error) {
	page, limit, paginated := parsePagination(q.Page, q.Limit)
	filter := persistent.RoleFilter{
		Name:           strings.TrimSpace(q.Name),
		IncludeDeleted: truthyFlag(q.IncludeDeleted),
	}

	if !paginated {
		roles, err := uc.roleRepo.List(filter)
		if err != nil {
			uc.logger.Error("Failed to list roles: %v", err)
			return nil, nil, fmt.Errorf("list roles: %w", err)
		}
		return roles, nil, nil
	}

	total, err := uc.roleRepo.Count(filter)
	if err != nil {
		uc.logger.Error("Failed to count roles: %v", err)
		return nil, nil, fmt.Errorf("count roles: %w", err)
	}

	filter.Offset = (page - 1) * limit
	filter.Limit = limit
	roles, err := uc.roleRepo.List(filter)
	if err != nil {
		uc.logger.Error("Failed to list roles: %v", err)
		return nil, nil, fmt.Errorf("list roles: %w", err)
	}

	return nil, &RolePage{
		Items: roles,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: totalPages(total, limit),
	}, nil
}

func (uc *roleUseCase) GetByID(id string) (*entity.Role, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	role, err := uc.roleRepo.GetByID(id)
	if err != nil {
		uc.logger.Error("Failed to get role %s: %v", id, err)
		return nil, fmt.Errorf("get role: %w", err)
	}
	return role, nil
}

func (uc *roleUseCase) SoftDelete(id string) (*entity.Role, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	role, err := uc.roleRepo.SoftDelete(id)
	if err != nil {
		uc.logger.Error("Failed to soft-delete role %s: %v", id, err)
		return nil, fmt.Errorf("soft-delete role: %w", err)
	}
	return role, nil
}

// truthyFlag normalizes a query-string boolean by explicit comparison; the
// literal strings "false" and "0" are falsy, everything else non-empty is
// truthy.
func truthyFlag(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v != "" && v != "false" && v != "0"
}
