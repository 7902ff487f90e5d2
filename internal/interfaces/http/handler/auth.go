package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/canteen/backend/internal/application/identity"
)

// AuthHandler exposes login, token refresh and logout.
type AuthHandler struct {
	authService *identity.AuthService
	userService *identity.UserService
}

func NewAuthHandler(authService *identity.AuthService, userService *identity.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

type loginRequest struct {
	TheaterCode string `json:"theater_code" binding:"required,max=20"`
	Username    string `json:"username" binding:"required,max=50"`
	Password    string `json:"password" binding:"required,max=72"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type logoutRequest struct {
	AllSessions bool `json:"all_sessions"`
}

// Login godoc
// @ID           login
//
//	@Summary		Authenticate a staff user
//	@Description	Exchange a theater code, username, and password for an access/refresh token pair
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Login credentials"
//	@Success		200		{object}	dto.Response
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Router			/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		TheaterCode: req.TheaterCode,
		Username:    req.Username,
		Password:    req.Password,
		IP:          c.ClientIP(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

// Refresh exchanges a refresh token for a fresh pair.
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

// Logout revokes the current token, or every session of the user when
// all_sessions is set.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindingError(c, err)
			return
		}
	}

	cl, ok := claims(c)
	if !ok {
		return
	}
	if err := h.authService.Logout(c.Request.Context(), cl, req.AllSessions); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"logged_out": true})
}

// ChangePassword lets the authenticated user change their own password.
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req identity.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	cl, ok := claims(c)
	if !ok {
		return
	}
	theaterUUID, err := cl.TheaterUUID()
	if err != nil {
		respondError(c, err)
		return
	}
	userUUID, err := cl.UserUUID()
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), theaterUUID, userUUID, req); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"changed": true})
}
