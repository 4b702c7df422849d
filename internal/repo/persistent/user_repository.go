package persistent

import (
	"errors"

	"user-admin/internal/entity"
	"user-admin/internal/model"

	"gorm.io/gorm"
)

type UserFilter struct {
	Username string // case-insensitive substring
	FullName string // case-insensitive substring
	Offset   int
	Limit    int // <= 0 means no limit
}

type UserRepository interface {
	Create(user *entity.User) error
	List(f UserFilter) ([]*entity.User, error)
	Count(f UserFilter) (int64, error)
	GetByID(id string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	UsernameTaken(username, excludeID string) (bool, error)
	EmailTaken(email, excludeID string) (bool, error)
	Update(id string, fields map[string]interface{}) (*entity.User, error)
	MarkVerified(email, username string) (*entity.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *entity.User) error {
	userModel := ToUserModel(user)
	if err := r.db.Create(userModel).Error; err != nil {
		return err
	}
	return r.reload(userModel.ID, user)
}

func (r *userRepository) listQuery(f UserFilter) *gorm.DB {
	q := r.db.Model(&model.UserModel{}).Where("is_delete = ?", false)
	if f.Username != "" {
		q = q.Where("username ILIKE ?", "%"+EscapeLike(f.Username)+"%")
	}
	if f.FullName != "" {
		q = q.Where("full_name ILIKE ?", "%"+EscapeLike(f.FullName)+"%")
	}
	return q
}

func (r *userRepository) List(f UserFilter) ([]*entity.User, error) {
	q := r.listQuery(f).Preload("Role").Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}

	var userModels []model.UserModel
	if err := q.Find(&userModels).Error; err != nil {
		return nil, err
	}

	users := make([]*entity.User, len(userModels))
	for i := range userModels {
		users[i] = ToUserEntity(&userModels[i])
	}
	return users, nil
}

func (r *userRepository) Count(f UserFilter) (int64, error) {
	var total int64
	if err := r.listQuery(f).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// GetByID deliberately ignores the soft-delete flag: deleted users stay
// reachable by id.
func (r *userRepository) GetByID(id string) (*entity.User, error) {
	var userModel model.UserModel
	err := r.db.Preload("Role").Where("id = ?", id).First(&userModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByUsername(username string) (*entity.User, error) {
	var userModel model.UserModel
	err := r.db.Preload("Role").
		Where("username = ? AND is_delete = ?", username, false).
		First(&userModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) UsernameTaken(username, excludeID string) (bool, error) {
	return r.taken("username", username, excludeID)
}

func (r *userRepository) EmailTaken(email, excludeID string) (bool, error) {
	return r.taken("email", email, excludeID)
}

// taken checks the whole table, soft-deleted rows included, because the
// unique indexes do too.
func (r *userRepository) taken(column, value, excludeID string) (bool, error) {
	q := r.db.Model(&model.UserModel{}).Where(column+" = ?", value)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *userRepository) Update(id string, fields map[string]interface{}) (*entity.User, error) {
	if len(fields) > 0 {
		res := r.db.Model(&model.UserModel{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, nil
		}
	}
	return r.GetByID(id)
}

func (r *userRepository) MarkVerified(email, username string) (*entity.User, error) {
	res := r.db.Model(&model.UserModel{}).
		Where("email = ? AND username = ? AND is_delete = ?", email, username, false).
		Update("status", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	var userModel model.UserModel
	err := r.db.Preload("Role").
		Where("email = ? AND username = ?", email, username).
		First(&userModel).Error
	if err != nil {
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) reload(id string, into *entity.User) error {
	var userModel model.UserModel
	if err := r.db.Preload("Role").Where("id = ?", id).First(&userModel).Error; err != nil {
		return err
	}
	*into = *ToUserEntity(&userModel)
	return nil
}
