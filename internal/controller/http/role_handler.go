package http

import (
	"net/http"

	"user-admin/internal/usecase"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	roleUseCase usecase.RoleUseCase
}

func NewRoleHandler(roleUseCase usecase.RoleUseCase) *RoleHandler {
	return &RoleHandler{
		roleUseCase: roleUseCase,
	}
}

type CreateRoleRequest struct {
	Name string `json:"name"`
}

// ListRoles godoc
// @Summary      List roles
// @Description  List roles; soft-deleted roles are excluded unless includeDeleted is truthy. Returns a plain array, or a pagination envelope when page or limit is supplied
// @Tags         roles
// @Produce      json
// @Param        page           query string false "Page number (default 1)"
// @Param        limit          query string false "Page size (default 10)"
// @Param        name           query string false "Case-insensitive name substring"
// @Param        includeDeleted query string false "Include soft-deleted roles ('false' and '0' are falsy)"
// @Success      200  {object}  usecase.RolePage
// @Failure      500  {object}  map[string]string
// @Router       /roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, page, err := h.roleUseCase.List(usecase.RoleListQuery{
		Name:           c.Query("name"),
		IncludeDeleted: c.Query("includeDeleted"),
		Page:           c.Query("page"),
		Limit:          c.Query("limit"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	if page != nil {
		c.JSON(http.StatusOK, page)
		return
	}
	c.JSON(http.StatusOK, roles)
}

// CreateRole godoc
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        request body CreateRoleRequest true "Role data"
// @Success      201  {object}  entity.Role
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /roles [post]
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := h.roleUseCase.Create(req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, role)
}

// DeleteRole godoc
// @Summary      Soft-delete a role
// @Tags         roles
// @Produce      json
// @Param        id path string true "Role ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /roles/{id} [delete]
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	role, err := h.roleUseCase.SoftDelete(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if role == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "role not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role deleted", "role": role})
}
