package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"user-admin/internal/entity"
	"user-admin/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserUseCase is a mock implementation of usecase.UserUseCase
type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) Create(in usecase.CreateUserInput) (*entity.User, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserUseCase) List(q usecase.UserListQuery) ([]*entity.User, *usecase.UserPage, error) {
	args := m.Called(q)
	var users []*entity.User
	if args.Get(0) != nil {
		users = args.Get(0).([]*entity.User)
	}
	var page *usecase.UserPage
	if args.Get(1) != nil {
		page = args.Get(1).(*usecase.UserPage)
	}
	return users, page, args.Error(2)
}

func (m *MockUserUseCase) GetByID(id string) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserUseCase) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserUseCase) Update(id string, updates map[string]interface{}) (*entity.User, error) {
	args := m.Called(id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserUseCase) SoftDelete(id string) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserUseCase) Verify(email, username string) (*entity.User, error) {
	args := m.Called(email, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserUseCase) UpdateAvatar(id string, fileReader io.Reader, fileKey, contentType string) (*entity.User, error) {
	args := m.Called(id, fileReader, fileKey, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

var _ usecase.UserUseCase = (*MockUserUseCase)(nil)

const testUserID = "6f1e0e53-41d8-4b54-bf6b-3fca2d0f3a55"

func setupUserRouter(uc usecase.UserUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewUserHandler(uc)

	api := r.Group("/api/v1")
	{
		api.POST("/users", h.CreateUser)
		api.GET("/users", h.ListUsers)
		api.POST("/users/verify", h.VerifyUser)
		api.GET("/users/username/:username", h.GetUserByUsername)
		api.GET("/users/:id", h.GetUser)
		api.PUT("/users/:id", h.UpdateUser)
		api.DELETE("/users/:id", h.DeleteUser)
	}
	return r
}

func performJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateUserEndpoint(t *testing.T) {
	uc := new(MockUserUseCase)
	r := setupUserRouter(uc)

	uc.On("Create", usecase.CreateUserInput{
		Username: "alice", Password: "pw1", Email: "a@x.com",
	}).Return(&entity.User{ID: testUserID, Username: "alice", Email: "a@x.com"}, nil)

	w := performJSON(r, http.MethodPost, "/api/v1/users", gin.H{
		"username": "alice",
		"password": "pw1",
		"email":    "a@x.com",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "alice", body["username"])
	assert.NotContains(t, body, "password")
	uc.AssertExpectations(t)
}

func TestCreateUserEndpoint_Validation(t *testing.T) {
	uc := new(MockUserUseCase)
	r := setupUserRouter(uc)

	uc.On("Create", mock.Anything).Return(nil, &usecase.ValidationError{Msg: "username is required"})

	w := performJSON(r, http.MethodPost, "/api/v1/users", gin.H{"email": "a@x.com", "password": "pw"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username is required")
}

func TestCreateUserEndpoint_Conflict(t *testing.T) {
	uc := new(MockUserUseCase)
	r := setupUserRouter(uc)

	uc.On("Create", mock.Anything).Return(nil, &usecase.ConflictError{Field: "email"})

	w := performJSON(r, http.MethodPost, "/api/v1/users", gin.H{
		"username": "alice", "password": "pw", "email": "a@x.com",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email must be unique")
}

func TestCreateUserEndpoint_InternalErrorIsOpaque(t *testing.T) {
	uc := new(MockUserUseCase)
	r := setupUserRouter(uc)

	uc.On("Create", mock.Anything).Return(nil, assert.AnError)

	w := performJSON(r, http.MethodPost, "/api/v1/users", gin.H{
		"username": "alice", "password": "pw", "email": "a@x.com",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestListUsersEndpoint_BareArray(t *testing.T) {
	uc := new(MockUserUseCase)
	r := setupUserRouter(uc)

	uc.On("List", usecase.UserListQuery{}).
		Return([]*entity.User{{ID: testUserID, Username: "alice"}}, nil, nil)

	w := performJSON(r, http.MethodGet, "/api/v1/users", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var body []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body, 1)
}

func TestListUsersEndpoint_Envelope(t *testing.T) {
	uc := new(MockUserUseCase)
	r := setupUserRouter(uc)

	uc.On("List", usecase.UserListQuery{Page: "2", Limit: "5", Username: "al"}).
		Return(nil, &usecase.UserPage{
			Items: []*entity.User{{Username: "alice"}},
			Total: 11, Page: 2, Limit: 5, Pages: 3,
		}, nil)

	w := performJSON(r, http.MethodGet, "/api/v1/users?page=2&limit=5&username=al", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(11), body["total"])
	assert.Equal(t, float64(2), body["page"])
	assert.Equal(t, float64(5), body["limit"])
	assert.Equal(t, float64(3), body["pages"])
	assert.Len(t, body["items"], 1)
}

func TestGetUserEndpoint_NotFound(t *testing.T) {
	uc := new(MockUserUseCase)
	r := setupUserRouter(uc)

	uc.On("GetByID", "missing").Return(nil, nil)

	w := performJSON(r, http.MethodGet, "/api/v1/users/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "user not found")
}

func TestGetUserByUsernameEndpoint(t *testing.T) {
	uc := new(MockUserUseCase)
	r := setupUserRouter(uc)

	uc.On("GetByUsername", "alice").
		Return(&entity.User{ID: testUserID, Username: "alice"}, nil)

	w := performJSON(r, http.MethodGet, "/api/v1/users/username/alice", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestUpdateUserEndpoint(t *testing.T) {
	uc := new(MockUserUseCase)
	r := setupUserRouter(uc)

	uc.On("Update", testUserID, map[string]interface{}{"fullName": "Alice A."}).
		Return(&entity.User{ID: testUserID, FullName: "Alice A."}, nil)

	w := performJSON(r, http.MethodPut, "/api/v1/users/"+testUserID, gin.H{"fullName": "Alice A."})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Alice A.")
	uc.AssertExpectations(t)
}

func TestDeleteUserEndpoint(t *testing.T) {
	uc := new(MockUserUseCase)
	r := setupUserRouter(uc)

	uc.On("SoftDelete", testUserID).
		Return(&entity.User{ID: testUserID, Username: "alice", IsDelete: true}, nil)

	w := performJSON(r, http.MethodDelete, "/api/v1/users/"+testUserID, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user deleted", body["message"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, true, user["isDelete"])
}

func TestVerifyUserEndpoint(t *testing.T) {
	uc := new(MockUserUseCase)
	r := setupUserRouter(uc)

	uc.On("Verify", "a@x.com", "alice").
		Return(&entity.User{ID: testUserID, Username: "alice", Status: true}, nil)

	w := performJSON(r, http.MethodPost, "/api/v1/users/verify", gin.H{
		"email":    "a@x.com",
		"username": "alice",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user verified")
}

func TestVerifyUserEndpoint_LegacyUserNameKey(t *testing.T) {
	uc := new(MockUserUseCase)
	r := setupUserRouter(uc)

	uc.On("Verify", "a@x.com", "alice").
		Return(&entity.User{ID: testUserID, Username: "alice", Status: true}, nil)

	w := performJSON(r, http.MethodPost, "/api/v1/users/verify", gin.H{
		"email":    "a@x.com",
		"userName": "alice",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)
}

func TestVerifyUserEndpoint_NoMatch(t *testing.T) {
	uc := new(MockUserUseCase)
	r := setupUserRouter(uc)

	uc.On("Verify", "a@x.com", "wrong").Return(nil, nil)

	w := performJSON(r, http.MethodPost, "/api/v1/users/verify", gin.H{
		"email":    "a@x.com",
		"username": "wrong",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}
