package handler

import (
	"context"

	"github.com/bizledger/backend/internal/application/identity"
	"github.com/bizledger/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserService manages the users of a company
type UserService interface {
	List(ctx context.Context, companyID uuid.UUID, filter identity.UserListFilter) ([]identity.UserResponse, int64, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*identity.UserResponse, error)
	Create(ctx context.Context, companyID uuid.UUID, actor identity.Actor, req identity.CreateUserRequest) (*identity.UserResponse, error)
	Update(ctx context.Context, companyID uuid.UUID, actor identity.Actor, id uuid.UUID, req identity.UpdateUserRequest) (*identity.UserResponse, error)
	ChangeRole(ctx context.Context, companyID uuid.UUID, actor identity.Actor, id uuid.UUID, req identity.ChangeRoleRequest) (*identity.UserResponse, error)
	Delete(ctx context.Context, companyID uuid.UUID, actor identity.Actor, id uuid.UUID) error
}

// UserHandler handles user management endpoints
type UserHandler struct {
	BaseHandler
	userService UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) actor(c *gin.Context, userID uuid.UUID) identity.Actor {
	return identity.Actor{UserID: userID, Role: middleware.CurrentRole(c)}
}

// List godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        search    query string false "Name or email"
// @Param        role      query string false "Role"
// @Param        page      query int    false "Page"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]identity.UserResponse,meta=dto.ListMeta}
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter identity.UserListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	users, total, err := h.userService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, users, total, p, size)
}

// GetByID returns one user
func (h *UserHandler) GetByID(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Create adds a user to the company
func (h *UserHandler) Create(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req identity.CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), companyID, h.actor(c, userID), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Update edits name, email or active flag
func (h *UserHandler) Update(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req identity.UpdateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), companyID, h.actor(c, userID), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangeRole assigns a new role
func (h *UserHandler) ChangeRole(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req identity.ChangeRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), companyID, h.actor(c, userID), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Delete removes a user
func (h *UserHandler) Delete(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), companyID, h.actor(c, userID), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
