package http

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"user-admin/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	userUseCase usecase.UserUseCase
}

func NewUserHandler(userUseCase usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type CreateUserRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl"`
	Role      string `json:"role"`
}

type VerifyRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	UserName string `json:"userName"` // legacy alias for username
}

// statusFor maps the use-case error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	var (
		validationErr *usecase.ValidationError
		notFoundErr   *usecase.NotFoundError
		conflictErr   *usecase.ConflictError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &conflictErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}

// CreateUser godoc
// @Summary      Create a user
// @Description  Create a user with username, password, email and an optional role reference
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "User data"
// @Success      201  {object}  entity.User
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userUseCase.Create(usecase.CreateUserInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
		Role:      req.Role,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// ListUsers godoc
// @Summary      List users
// @Description  List non-deleted users; returns a plain array, or a pagination envelope when page or limit is supplied
// @Tags         users
// @Produce      json
// @Param        page      query string false "Page number (default 1)"
// @Param        limit     query string false "Page size (default 10)"
// @Param        username  query string false "Case-insensitive username substring"
// @Param        fullName  query string false "Case-insensitive full name substring"
// @Success      200  {object}  usecase.UserPage
// @Failure      500  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, page, err := h.userUseCase.List(usecase.UserListQuery{
		Page:     c.Query("page"),
		Limit:    c.Query("limit"),
		Username: c.Query("username"),
		FullName: c.Query("fullName"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	if page != nil {
		c.JSON(http.StatusOK, page)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary      Get user by id
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200  {object}  entity.User
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userUseCase.GetByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserByUsername godoc
// @Summary      Get user by username
// @Tags         users
// @Produce      json
// @Param        username path string true "Username"
// @Success      200  {object}  entity.User
// @Failure      404  {object}  map[string]string
// @Router       /users/username/{username} [get]
func (h *UserHandler) GetUserByUsername(c *gin.Context) {
	user, err := h.userUseCase.GetByUsername(c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser godoc
// @Summary      Update a user
// @Description  Partial update; only fullName, avatarUrl, status, role, email, username and password are applied, other fields are ignored
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id      path string                 true "User ID"
// @Param        request body map[string]interface{} true "Fields to update"
// @Success      200  {object}  entity.User
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userUseCase.Update(c.Param("id"), updates)
	if err != nil {
		writeError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary      Soft-delete a user
// @Description  Marks the user deleted; the record stays retrievable by id
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	user, err := h.userUseCase.SoftDelete(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted", "user": user})
}

// VerifyUser godoc
// @Summary      Verify a user
// @Description  Activates the user whose email and username both match; the username is accepted under "username" or "userName"
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body VerifyRequest true "Email and username"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/verify [post]
func (h *UserHandler) VerifyUser(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	username := req.Username
	if username == "" {
		username = req.UserName
	}

	user, err := h.userUseCase.Verify(req.Email, username)
	if err != nil {
		writeError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user verified", "user": user})
}

// UploadAvatar godoc
// @Summary      Upload a user avatar
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path     string true "User ID"
// @Param        avatar formData file   true "Avatar image file"
// @Success      200  {object}  entity.User
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id}/avatar [post]
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	id := c.Param("id")

	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}

	ext := filepath.Ext(file.Filename)
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".gif" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image format, only jpg, jpeg, png, gif are allowed"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process file"})
		return
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	fileKey := fmt.Sprintf("avatars/%s/%s%s", id, uuid.New().String(), ext)

	user, err := h.userUseCase.UpdateAvatar(id, src, fileKey, contentType)
	if err != nil {
		writeError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}
