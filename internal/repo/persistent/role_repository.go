package persistent

import (
	"errors"
	"strings"

	"user-admin/internal/entity"
	"user-admin/internal/model"

	"gorm.io/gorm"
)

type RoleFilter struct {
	Name           string // case-insensitive substring
	IncludeDeleted bool
	Offset         int
	Limit          int // <= 0 means no limit
}

type RoleRepository interface {
	Create(role *entity.Role) error
	List(f RoleFilter) ([]*entity.Role, error)
	Count(f RoleFilter) (int64, error)
	GetByID(id string) (*entity.Role, error)
	NameTaken(name, excludeID string) (bool, error)
	SoftDelete(id string) (*entity.Role, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(role *entity.Role) error {
	roleModel := ToRoleModel(role)
	if err := r.db.Create(roleModel).Error; err != nil {
		return err
	}
	*role = *ToRoleEntity(roleModel)
	return nil
}

func (r *roleRepository) listQuery(f RoleFilter) *gorm.DB {
	q := r.db.Model(&model.RoleModel{})
	if !f.IncludeDeleted {
		q = q.Where("is_delete = ?", false)
	}
	if f.Name != "" {
		q = q.Where("name ILIKE ?", "%"+EscapeLike(f.Name)+"%")
	}
	return q
}

func (r *roleRepository) List(f RoleFilter) ([]*entity.Role, error) {
	q := r.listQuery(f).Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}

	var roleModels []model.RoleModel
	if err := q.Find(&roleModels).Error; err != nil {
		return nil, err
	}

	roles := make([]*entity.Role, len(roleModels))
	for i := range roleModels {
		roles[i] = ToRoleEntity(&roleModels[i])
	}
	return roles, nil
}

func (r *roleRepository) Count(f RoleFilter) (int64, error) {
	var total int64
	if err := r.listQuery(f).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *roleRepository) GetByID(id string) (*entity.Role, error) {
	var roleModel model.RoleModel
	err := r.db.Where("id = ? AND is_delete = ?", id, false).First(&roleModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ToRoleEntity(&roleModel), nil
}

func (r *roleRepository) NameTaken(name, excludeID string) (bool, error) {
	q := r.db.Model(&model.RoleModel{}).Where("name = ?", name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *roleRepository) SoftDelete(id string) (*entity.Role, error) {
	res := r.db.Model(&model.RoleModel{}).Where("id = ?", id).Update("is_delete", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	var roleModel model.RoleModel
	if err := r.db.Where("id = ?", id).First(&roleModel).Error; err != nil {
		return nil, err
	}
	return ToRoleEntity(&roleModel), nil
}

// EscapeLike neutralizes LIKE/ILIKE metacharacters so filter input always
// matches literally.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
