package usecase

import (
	"fmt"
	"io"
	"strings"

	"user-admin/internal/entity"
	"user-admin/internal/repo/persistent"
	"user-admin/pkg/logger"
	"user-admin/pkg/s3"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// updatableFields is the allow-list for Update. Anything else in the input
// map is silently ignored, so a payload cannot flip is_delete or rewrite
// timestamps.
var updatableFields = map[string]string{
	"fullName":  "full_name",
	"avatarUrl": "avatar_url",
	"status":    "status",
	"role":      "role_id",
	"email":     "email",
	"username":  "username",
	"password":  "password",
}

type CreateUserInput struct {
	Username  string
	Password  string
	Email     string
	FullName  string
	AvatarURL string
	Role      string // role id, optional
}

type UserListQuery struct {
	Page     string
	Limit    string
	Username string
	FullName string
}

type UserPage struct {
	Items []*entity.User `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Pages int            `json:"pages"`
}

type UserUseCase interface {
	Create(in CreateUserInput) (*entity.User, error)
	List(q UserListQuery) ([]*entity.User, *UserPage, error)
	GetByID(id string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	Update(id string, updates map[string]interface{}) (*entity.User, error)
	SoftDelete(id string) (*entity.User, error)
	Verify(email, username string) (*entity.User, error)
	UpdateAvatar(id string, fileReader io.Reader, fileKey, contentType string) (*entity.User, error)
}

type userUseCase struct {
	userRepo persistent.UserRepository
	roleRepo persistent.RoleRepository
	s3Client *s3.Client
	logger   *logger.Logger
}

func NewUserUseCase(
	userRepo persistent.UserRepository,
	roleRepo persistent.RoleRepository,
	s3Client *s3.Client,
	logger *logger.Logger,
) UserUseCase {
	return &userUseCase{
		userRepo: userRepo,
		roleRepo: roleRepo,
		s3Client: s3Client,
		logger:   logger,
	}
}

func (uc *userUseCase) Create(in CreateUserInput) (*entity.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if username == "" {
		return nil, &ValidationError{Msg: "username is required"}
	}
	if in.Password == "" {
		return nil, &ValidationError{Msg: "password is required"}
	}
	if email == "" {
		return nil, &ValidationError{Msg: "email is required"}
	}

	roleRef, err := uc.resolveRole(in.Role)
	if err != nil {
		return nil, err
	}

	if taken, err := uc.userRepo.UsernameTaken(username, ""); err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	} else if taken {
		return nil, &ConflictError{Field: "username"}
	}
	if taken, err := uc.userRepo.EmailTaken(email, ""); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if taken {
		return nil, &ConflictError{Field: "email"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username:  username,
		Password:  string(hashed),
		Email:     email,
		FullName:  strings.TrimSpace(in.FullName),
		AvatarURL: strings.TrimSpace(in.AvatarURL),
		Role:      roleRef,
	}

	if err := uc.userRepo.Create(user); err != nil {
		if field, ok := duplicateField(err); ok {
			return nil, &ConflictError{Field: field}
		}
		uc.logger.Error("Failed to create user: %v", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	user.Password = ""
	return user, nil
}

func (uc *userUseCase) List(q UserListQuery) ([]*entity.User, *UserPage, error) {
	page, limit, paginated := parsePagination(q.Page, q.Limit)
	filter := persistent.UserFilter{
		Username: strings.TrimSpace(q.Username),
		FullName: strings.TrimSpace(q.FullName),
	}

	if !paginated {
		users, err := uc.userRepo.List(filter)
		if err != nil {
			uc.logger.Error("Failed to list users: %v", err)
			return nil, nil, fmt.Errorf("list users: %w", err)
		}
		return sanitizeAll(users), nil, nil
	}

	total, err := uc.userRepo.Count(filter)
	if err != nil {
		uc.logger.Error("Failed to count users: %v", err)
		return nil, nil, fmt.Errorf("count users: %w", err)
	}

	filter.Offset = (page - 1) * limit
	filter.Limit = limit
	users, err := uc.userRepo.List(filter)
	if err != nil {
		uc.logger.Error("Failed to list users: %v", err)
		return nil, nil, fmt.Errorf("list users: %w", err)
	}

	return nil, &UserPage{
		Items: sanitizeAll(users),
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: totalPages(total, limit),
	}, nil
}

func (uc *userUseCase) GetByID(id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		uc.logger.Error("Failed to get user %s: %v", id, err)
		return nil, fmt.Errorf("get user: %w", err)
	}
	return sanitize(user), nil
}

func (uc *userUseCase) GetByUsername(username string) (*entity.User, error) {
	user, err := uc.userRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		uc.logger.Error("Failed to get user %q: %v", username, err)
		return nil, fmt.Errorf("get user: %w", err)
	}
	return sanitize(user), nil
}

func (uc *userUseCase) Update(id string, updates map[string]interface{}) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	fields := map[string]interface{}{}
	for key, column := range updatableFields {
		value, ok := updates[key]
		if !ok {
			continue
		}

		switch key {
		case "role":
			if value == nil {
				fields[column] = nil
				continue
			}
			roleID, ok := value.(string)
			if !ok {
				return nil, &ValidationError{Msg: "invalid role id"}
			}
			roleRef, err := uc.resolveRole(roleID)
			if err != nil {
				return nil, err
			}
			if roleRef == nil {
				fields[column] = nil
			} else {
				fields[column] = roleRef.ID
			}

		case "status":
			status, ok := value.(bool)
			if !ok {
				return nil, &ValidationError{Msg: "status must be a boolean"}
			}
			fields[column] = status

		case "password":
			password, ok := value.(string)
			if !ok || password == "" {
				return nil, &ValidationError{Msg: "password is required"}
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				uc.logger.Error("Failed to hash password: %v", err)
				return nil, fmt.Errorf("hash password: %w", err)
			}
			fields[column] = string(hashed)

		case "username", "email":
			s, ok := value.(string)
			s = strings.TrimSpace(s)
			if !ok || s == "" {
				return nil, &ValidationError{Msg: key + " is required"}
			}
			fields[column] = s

		default: // fullName, avatarUrl
			s, ok := value.(string)
			if !ok {
				return nil, &ValidationError{Msg: key + " must be a string"}
			}
			fields[column] = strings.TrimSpace(s)
		}
	}

	if username, ok := fields["username"].(string); ok {
		if taken, err := uc.userRepo.UsernameTaken(username, id); err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		} else if taken {
			return nil, &ConflictError{Field: "username"}
		}
	}
	if email, ok := fields["email"].(string); ok {
		if taken, err := uc.userRepo.EmailTaken(email, id); err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		} else if taken {
			return nil, &ConflictError{Field: "email"}
		}
	}

	user, err := uc.userRepo.Update(id, fields)
	if err != nil {
		if field, ok := duplicateField(err); ok {
			return nil, &ConflictError{Field: field}
		}
		uc.logger.Error("Failed to update user %s: %v", id, err)
		return nil, fmt.Errorf("update user: %w", err)
	}
	return sanitize(user), nil
}

func (uc *userUseCase) SoftDelete(id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	user, err := uc.userRepo.Update(id, map[string]interface{}{"is_delete": true})
	if err != nil {
		uc.logger.Error("Failed to soft-delete user %s: %v", id, err)
		return nil, fmt.Errorf("soft-delete user: %w", err)
	}
	return sanitize(user), nil
}

// Verify flips the activation flag when both email and username match the
// same non-deleted user. A partial match changes nothing. This is a plain
// pair check, not an authentication mechanism.
func (uc *userUseCase) Verify(email, username string) (*entity.User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" || username == "" {
		return nil, &ValidationError{Msg: "email and username are required"}
	}

	user, err := uc.userRepo.MarkVerified(email, username)
	if err != nil {
		uc.logger.Error("Failed to verify user %q: %v", username, err)
		return nil, fmt.Errorf("verify user: %w", err)
	}
	return sanitize(user), nil
}

func (uc *userUseCase) UpdateAvatar(id string, fileReader io.Reader, fileKey, contentType string) (*entity.User, error) {
	if uc.s3Client == nil {
		return nil, fmt.Errorf("avatar storage is not configured")
	}

	user, err := uc.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &NotFoundError{Msg: "user not found"}
	}

	avatarURL, err := uc.s3Client.UploadFile(fileKey, fileReader, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload avatar: %v", err)
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	return uc.Update(id, map[string]interface{}{"avatarUrl": avatarURL})
}

// resolveRole validates an optional role reference: the id must parse and the
// role must exist (soft-deleted roles do not count). An empty id means "no
// role".
func (uc *userUseCase) resolveRole(roleID string) (*entity.Role, error) {
	roleID = strings.TrimSpace(roleID)
	if roleID == "" {
		return nil, nil
	}
	if _, err := uuid.Parse(roleID); err != nil {
		return nil, &ValidationError{Msg: "invalid role id"}
	}
	role, err := uc.roleRepo.GetByID(roleID)
	if err != nil {
		uc.logger.Error("Failed to get role %s: %v", roleID, err)
		return nil, fmt.Errorf("get role: %w", err)
	}
	if role == nil {
		return nil, &NotFoundError{Msg: "role not found"}
	}
	return role, nil
}

func sanitize(user *entity.User) *entity.User {
	if user != nil {
		user.Password = ""
	}
	return user
}

func sanitizeAll(users []*entity.User) []*entity.User {
	for _, u := range users {
		sanitize(u)
	}
	return users
}

// duplicateField recognizes a store-level uniqueness violation and names the
// field it hit. The pre-checks above catch almost everything; this covers the
// window between check and write.
func duplicateField(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "duplicate") &&
		!strings.Contains(msg, "unique constraint") &&
		!strings.Contains(msg, "unique violation") {
		return "", false
	}
	for _, field := range []string{"username", "email", "name"} {
		if strings.Contains(msg, field) {
			return field, true
		}
	}
	return "field", true
}
