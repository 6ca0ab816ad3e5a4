package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/database/users"
	"github.com/mrlokans/librarian/internal/services"
)

type RegisterUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
}

// UpdateUserRequest carries the fields to change; omitted fields are kept.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}

func (r UpdateUserRequest) toUpdate() users.UserUpdate {
	var update users.UserUpdate
	if r.Username != nil {
		update = update.SetUsername(*r.Username)
	}
	if r.Email != nil {
		update = update.SetEmail(*r.Email)
	}
	if r.Phone != nil {
		update = update.SetPhone(*r.Phone)
	}
	return update
}

type UsersController struct {
	users services.UserCatalog
}

func NewUsersController(users services.UserCatalog) *UsersController {
	return &UsersController{users: users}
}

func (uc *UsersController) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username and email are required")
		return
	}

	id, err := uc.users.RegisterUser(c.Request.Context(), req.Username, req.Email, req.Phone)
	if err != nil {
		respondStorageError(c, err, "register user")
		return
	}
	respondCreated(c, id)
}

func (uc *UsersController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := uc.users.GetUser(c.Request.Context(), id)
	if err != nil {
		respondStorageError(c, err, "get user")
		return
	}
	if user == nil {
		respondNotFound(c, "user")
		return
	}
	c.IndentedJSON(http.StatusOK, user)
}

func (uc *UsersController) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	update := req.toUpdate()
	if update.IsEmpty() {
		respondBadRequest(c, "no fields to update")
		return
	}

	updated, err := uc.users.UpdateUser(c.Request.Context(), id, update)
	if err != nil {
		respondStorageError(c, err, "update user")
		return
	}
	if updated == 0 {
		respondNotFound(c, "user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
