package http

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"user-admin/internal/entity"
	"user-admin/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupAdminRouter(userUC usecase.UserUseCase, roleUC usecase.RoleUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetFuncMap(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
		"dec": func(i int) int { return i - 1 },
	})
	r.LoadHTMLGlob("../../../web/templates/*.html")

	h := NewAdminHandler(userUC, roleUC)
	admin := r.Group("/admin")
	{
		admin.GET("/users", h.ListUsers)
		admin.POST("/users", h.CreateUser)
		admin.POST("/users/verify", h.VerifyUser)
		admin.POST("/users/:id", h.UpdateUser)
		admin.POST("/users/:id/delete", h.DeleteUser)
		admin.GET("/roles", h.ListRoles)
		admin.POST("/roles", h.CreateRole)
		admin.POST("/roles/:id/delete", h.DeleteRole)
	}
	return r
}

func performForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminListUsers_AlwaysPaginated(t *testing.T) {
	userUC := new(MockUserUseCase)
	r := setupAdminRouter(userUC, new(MockRoleUseCase))

	userUC.On("List", usecase.UserListQuery{Page: "1"}).
		Return(nil, &usecase.UserPage{
			Items: []*entity.User{{ID: testUserID, Username: "alice"}},
			Total: 1, Page: 1, Limit: 10, Pages: 1,
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
	userUC.AssertExpectations(t)
}

func TestAdminCreateUser_RedirectsToListing(t *testing.T) {
	userUC := new(MockUserUseCase)
	r := setupAdminRouter(userUC, new(MockRoleUseCase))

	userUC.On("Create", usecase.CreateUserInput{
		Username: "alice", Password: "pw", Email: "a@x.com",
	}).Return(&entity.User{ID: testUserID, Username: "alice"}, nil)

	w := performForm(r, "/admin/users", url.Values{
		"username": {"alice"},
		"password": {"pw"},
		"email":    {"a@x.com"},
	})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/users", w.Header().Get("Location"))
}

func TestAdminCreateUser_RendersErrorPage(t *testing.T) {
	userUC := new(MockUserUseCase)
	r := setupAdminRouter(userUC, new(MockRoleUseCase))

	userUC.On("Create", mock.Anything).Return(nil, &usecase.ConflictError{Field: "username"})

	w := performForm(r, "/admin/users", url.Values{
		"username": {"alice"},
		"password": {"pw"},
		"email":    {"a@x.com"},
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "username must be unique")
}

func TestAdminUpdateUser_FormSemantics(t *testing.T) {
	userUC := new(MockUserUseCase)
	r := setupAdminRouter(userUC, new(MockRoleUseCase))

	// unchecked status box, empty role select, blank password
	userUC.On("Update", testUserID, map[string]interface{}{
		"username": "alice",
		"email":    "a@x.com",
		"fullName": "Alice",
		"status":   false,
		"role":     nil,
	}).Return(&entity.User{ID: testUserID}, nil)

	w := performForm(r, "/admin/users/"+testUserID, url.Values{
		"username": {"alice"},
		"email":    {"a@x.com"},
		"fullName": {"Alice"},
		"password": {""},
		"role":     {""},
	})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	userUC.AssertExpectations(t)
}

func TestAdminVerifyUser_NoMatchRendersNotFound(t *testing.T) {
	userUC := new(MockUserUseCase)
	r := setupAdminRouter(userUC, new(MockRoleUseCase))

	userUC.On("Verify", "a@x.com", "wrong").Return(nil, nil)

	w := performForm(r, "/admin/users/verify", url.Values{
		"email":    {"a@x.com"},
		"username": {"wrong"},
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "user not found")
}

func TestAdminDeleteUser_Redirects(t *testing.T) {
	userUC := new(MockUserUseCase)
	r := setupAdminRouter(userUC, new(MockRoleUseCase))

	userUC.On("SoftDelete", testUserID).
		Return(&entity.User{ID: testUserID, IsDelete: true}, nil)

	w := performForm(r, "/admin/users/"+testUserID+"/delete", nil)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/users", w.Header().Get("Location"))
}

func TestAdminListRoles(t *testing.T) {
	roleUC := new(MockRoleUseCase)
	r := setupAdminRouter(new(MockUserUseCase), roleUC)

	roleUC.On("List", usecase.RoleListQuery{}).
		Return([]*entity.Role{{ID: testRoleID, Name: "editor"}}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/roles", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "editor")
}

func TestAdminDeleteRole_Redirects(t *testing.T) {
	roleUC := new(MockRoleUseCase)
	r := setupAdminRouter(new(MockUserUseCase), roleUC)

	roleUC.On("SoftDelete", testRoleID).
		Return(&entity.Role{ID: testRoleID, IsDelete: true}, nil)

	w := performForm(r, "/admin/roles/"+testRoleID+"/delete", nil)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/roles", w.Header().Get("Location"))
}
