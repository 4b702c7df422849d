package http

import (
	"net/http"

	"user-admin/internal/usecase"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the server-rendered UI. It calls the same use cases as
// the JSON API; failures go through a generic error page instead of JSON
// bodies, and successful form submissions redirect back to the listing.
type AdminHandler struct {
	userUseCase usecase.UserUseCase
	roleUseCase usecase.RoleUseCase
}

func NewAdminHandler(userUseCase usecase.UserUseCase, roleUseCase usecase.RoleUseCase) *AdminHandler {
	return &AdminHandler{
		userUseCase: userUseCase,
		roleUseCase: roleUseCase,
	}
}

func renderError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "something went wrong"
	}
	c.HTML(status, "error.html", gin.H{"Status": status, "Message": msg})
}

func renderNotFound(c *gin.Context, msg string) {
	c.HTML(http.StatusNotFound, "error.html", gin.H{"Status": http.StatusNotFound, "Message": msg})
}

// ListUsers renders the user listing with filters; the UI always paginates.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	_, page, err := h.userUseCase.List(usecase.UserListQuery{
		Page:     c.DefaultQuery("page", "1"),
		Limit:    c.Query("limit"),
		Username: c.Query("username"),
		FullName: c.Query("fullName"),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "users_list.html", gin.H{
		"Page":     page,
		"Username": c.Query("username"),
		"FullName": c.Query("fullName"),
	})
}

func (h *AdminHandler) NewUserForm(c *gin.Context) {
	roles, _, err := h.roleUseCase.List(usecase.RoleListQuery{})
	if err != nil {
		renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "user_form.html", gin.H{"Roles": roles})
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	_, err := h.userUseCase.Create(usecase.CreateUserInput{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
		Email:    c.PostForm("email"),
		FullName: c.PostForm("fullName"),
		Role:     c.PostForm("role"),
	})
	if err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/users")
}

func (h *AdminHandler) EditUserForm(c *gin.Context) {
	user, err := h.userUseCase.GetByID(c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	if user == nil {
		renderNotFound(c, "user not found")
		return
	}

	roles, _, err := h.roleUseCase.List(usecase.RoleListQuery{})
	if err != nil {
		renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "user_form.html", gin.H{"User": user, "Roles": roles})
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	updates := map[string]interface{}{
		"username": c.PostForm("username"),
		"email":    c.PostForm("email"),
		"fullName": c.PostForm("fullName"),
		"status":   c.PostForm("status") == "on",
	}
	// empty select option clears the role reference
	if role := c.PostForm("role"); role != "" {
		updates["role"] = role
	} else {
		updates["role"] = nil
	}
	// a blank password field means "keep the current one"
	if password := c.PostForm("password"); password != "" {
		updates["password"] = password
	}

	user, err := h.userUseCase.Update(c.Param("id"), updates)
	if err != nil {
		renderError(c, err)
		return
	}
	if user == nil {
		renderNotFound(c, "user not found")
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/users")
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	user, err := h.userUseCase.SoftDelete(c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	if user == nil {
		renderNotFound(c, "user not found")
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/users")
}

func (h *AdminHandler) VerifyUser(c *gin.Context) {
	user, err := h.userUseCase.Verify(c.PostForm("email"), c.PostForm("username"))
	if err != nil {
		renderError(c, err)
		return
	}
	if user == nil {
		renderNotFound(c, "user not found")
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/users")
}

func (h *AdminHandler) ListRoles(c *gin.Context) {
	roles, _, err := h.roleUseCase.List(usecase.RoleListQuery{
		Name:           c.Query("name"),
		IncludeDeleted: c.Query("includeDeleted"),
	})
	if err != nil {
		renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "roles.html", gin.H{"Roles": roles, "Name": c.Query("name")})
}

func (h *AdminHandler) CreateRole(c *gin.Context) {
	if _, err := h.roleUseCase.Create(c.PostForm("name")); err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/roles")
}

func (h *AdminHandler) DeleteRole(c *gin.Context) {
	role, err := h.roleUseCase.SoftDelete(c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	if role == nil {
		renderNotFound(c, "role not found")
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/roles")
}
