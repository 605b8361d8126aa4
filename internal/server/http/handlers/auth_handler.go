package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/mkarpova/storefront/internal/domain/errors"
	"github.com/mkarpova/storefront/internal/domain/model"
	"github.com/mkarpova/storefront/internal/server/http/dto"
	"github.com/mkarpova/storefront/internal/server/http/middleware"
	"github.com/mkarpova/storefront/internal/usecase"
)

// AuthHandler processes registration and login.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req usecase.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid request body"))
		return
	}

	user, token, err := h.facade.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrValidation):
			c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.JSON(http.StatusConflict, dto.Fail("email already registered"))
		default:
			c.JSON(http.StatusInternalServerError, dto.Fail("registration failed"))
		}
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusCreated, dto.OK("registered", dto.AuthData{
		Token: token,
		User:  toUserData(user),
	}))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid request body"))
		return
	}

	user, token, err := h.facade.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, dto.Fail("invalid email or password"))
		default:
			c.JSON(http.StatusInternalServerError, dto.Fail("login failed"))
		}
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.OK("authenticated", dto.AuthData{
		Token: token,
		User:  toUserData(user),
	}))
}

func toUserData(user *model.User) dto.UserData {
	return dto.UserData{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}
