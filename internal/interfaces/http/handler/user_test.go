package handler

import (
	"net/http"
	"testing"

	appidentity "github.com/bizledger/backend/internal/application/identity"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserRouter(caller testCaller, svc *mockUserService) *gin.Engine {
	h := NewUserHandler(svc)
	r := newTestRouter(caller)
	r.GET("/users", h.List)
	r.POST("/users", h.Create)
	r.GET("/users/:id", h.GetByID)
	r.PUT("/users/:id", h.Update)
	r.PATCH("/users/:id/role", h.ChangeRole)
	r.DELETE("/users/:id", h.Delete)
	return r
}

func TestUserHandler_Create(t *testing.T) {
	caller := newCaller(identity.RoleAdmin)
	actor := appidentity.Actor{UserID: caller.userID, Role: identity.RoleAdmin}

	t.Run("actor carries the caller role", func(t *testing.T) {
		req := appidentity.CreateUserRequest{Email: "clerk@acme.test", Name: "Clerk", Password: "password1", Role: "staff"}
		svc := new(mockUserService)
		svc.On("Create", mock.Anything, caller.companyID, actor, req).
			Return(&appidentity.UserResponse{ID: uuid.New(), Email: req.Email}, nil)

		w := doRequest(t, newUserRouter(caller, svc), http.MethodPost, "/users", req)

		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("unknown role", func(t *testing.T) {
		w := doRequest(t, newUserRouter(caller, new(mockUserService)), http.MethodPost, "/users",
			map[string]string{"email": "x@acme.test", "name": "X", "password": "password1", "role": "owner"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "role", decodeResponse(t, w).Error.Details[0].Field)
	})
}

func TestUserHandler_ChangeRole(t *testing.T) {
	caller := newCaller(identity.RoleAdmin)
	target := uuid.New()

	svc := new(mockUserService)
	svc.On("ChangeRole", mock.Anything, caller.companyID, mock.Anything, target, appidentity.ChangeRoleRequest{Role: "company_admin"}).
		Return(nil, identity.ErrRoleNotAssignable)

	w := doRequest(t, newUserRouter(caller, svc), http.MethodPatch, "/users/"+target.String()+"/role",
		map[string]string{"role": "company_admin"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrCodeForbidden, decodeResponse(t, w).Error.Code)
}

func TestUserHandler_List(t *testing.T) {
	caller := newCaller(identity.RoleCompanyAdmin)
	svc := new(mockUserService)
	svc.On("List", mock.Anything, caller.companyID, mock.MatchedBy(func(f appidentity.UserListFilter) bool {
		return f.Role == "staff"
	})).Return([]appidentity.UserResponse{{Email: "a@acme.test"}, {Email: "b@acme.test"}}, int64(2), nil)

	w := doRequest(t, newUserRouter(caller, svc), http.MethodGet, "/users?role=staff", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var users []appidentity.UserResponse
	decodeData(t, w, &users)
	assert.Len(t, users, 2)
}

func TestUserHandler_Delete(t *testing.T) {
	caller := newCaller(identity.RoleAdmin)
	target := uuid.New()
	svc := new(mockUserService)
	svc.On("Delete", mock.Anything, caller.companyID, mock.Anything, target).Return(nil)

	w := doRequest(t, newUserRouter(caller, svc), http.MethodDelete, "/users/"+target.String(), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}
