package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/cctvstore/internal/config"
	"github.com/mamadbah2/cctvstore/internal/domain/models"
	"github.com/mamadbah2/cctvstore/internal/server/middleware"
	"github.com/mamadbah2/cctvstore/internal/server/response"
	"github.com/mamadbah2/cctvstore/internal/service/auth"
)

// AuthHandler exposes sign-up, login and user administration.
type AuthHandler struct {
	svc    *auth.Service
	cookie config.AuthConfig
	logger *zap.Logger
}

func NewAuthHandler(svc *auth.Service, cookie config.AuthConfig, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, cookie: cookie, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

type loginResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	h.create(c, "user registered successfully")
}

// AddUser is the administrative twin of Register.
func (h *AuthHandler) AddUser(c *gin.Context) {
	h.create(c, "user added successfully")
}

func (h *AuthHandler) create(c *gin.Context, message string) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	user, err := h.svc.Register(c.Request.Context(), auth.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, message, user)
}

// Login verifies credentials and sets the session cookie. The token is also
// returned in the body for non-browser clients.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	user, signed, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setCookie(c, signed, int(h.svc.TokenTTL().Seconds()))
	response.OK(c, "login successful", loginResponse{User: user, Token: signed})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setCookie(c, "", -1)
	response.OK(c, "logged out", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), claims.UserID())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", user)
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", users)
}

func (h *AuthHandler) GetUser(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", user)
}

func (h *AuthHandler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	user, err := h.svc.UpdateUser(c.Request.Context(), c.Param("id"), auth.UpdateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "user updated successfully", user)
}

func (h *AuthHandler) DeleteUser(c *gin.Context) {
	if err := h.svc.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "user deleted successfully", nil)
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, value, maxAge, "/", "", h.cookie.SecureCookie, true)
}
