package v1

import (
	"net/http"
	"time"

	"rezo-backend/internal/delivery/http/response"
	"rezo-backend/internal/domain"
	"rezo-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const authCookieName = "auth_token"

type AuthHandler struct {
	authUC        domain.AuthUsecase
	secureCookies bool
}

func NewAuthHandler(public, protected *gin.RouterGroup, authUC domain.AuthUsecase, authLimiter gin.HandlerFunc, secureCookies bool) {
	handler := &AuthHandler{
		authUC:        authUC,
		secureCookies: secureCookies,
	}

	// Public Routes
	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/register", authLimiter, handler.Register)
		publicAuth.POST("/login", authLimiter, handler.Login)
		publicAuth.POST("/logout", handler.Logout)
	}

	// Protected Routes
	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.GET("/me", handler.Me)
		protectedAuth.PUT("/device-token", handler.UpdateDeviceToken)
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type DeviceTokenRequest struct {
	DeviceToken string `json:"device_token" binding:"max=512"`
}

// Register godoc
// @Summary      User Registration
// @Description  Register a new user. The empty profile matching the role is created with it.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      domain.RegisterInput  true  "Registration Details"
// @Success      201       {object}  response.Response
// @Failure      400       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Failure      429       {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	user, err := h.authUC.Register(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Registration successful", user)
}

// Login godoc
// @Summary      User Login
// @Description  Exchange email and password for a bearer token. The token is also set as an HttpOnly cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      LoginRequest  true  "Login Credentials"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Failure      429    {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Email and password are required"))
		return
	}

	session, err := h.authUC.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, session.Token, maxAge, "/", "", h.secureCookies, true)

	response.Success(c, http.StatusOK, "Login successful", session)
}

// Logout godoc
// @Summary      Logout
// @Description  Clear the auth cookie. Bearer tokens simply expire.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, "", -1, "/", "", h.secureCookies, true)
	response.Success(c, http.StatusOK, "Logged out", nil)
}

// Me godoc
// @Summary      Current user
// @Description  Get the authenticated user's account
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}

	user, err := h.authUC.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User profile retrieved", user)
}

// UpdateDeviceToken godoc
// @Summary      Update device token
// @Description  Store the push notification token of the caller's device. An empty token clears it.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      DeviceTokenRequest  true  "Device token"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Router       /auth/device-token [put]
// @Security     BearerAuth
func (h *AuthHandler) UpdateDeviceToken(c *gin.Context) {
	userID, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req DeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid device token"))
		return
	}

	if err := h.authUC.UpdateDeviceToken(c.Request.Context(), userID, req.DeviceToken); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Device token updated", nil)
}
