package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stackit/interaction/internal/adapters/http/dto"
	"github.com/stackit/interaction/internal/adapters/http/middleware"
	"github.com/stackit/interaction/internal/app"
)

// SessionHandler exposes login, register, logout, and the current-user
// endpoint.
type SessionHandler struct {
	sessions *app.SessionService
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(sessions *app.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Login handles POST /api/v1/auth/login.
// Exchanges credentials for a bearer token; the token keys the session
// on subsequent requests.
func (h *SessionHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleValidationErrors(c, dto.ValidationErrors(err))
		return
	}

	_, creds, err := h.sessions.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		User:         *dto.NewUserResponse(creds.User),
	})
}

// Register handles POST /api/v1/auth/register.
func (h *SessionHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleValidationErrors(c, dto.ValidationErrors(err))
		return
	}

	_, creds, err := h.sessions.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		User:         *dto.NewUserResponse(creds.User),
	})
}

// Logout handles POST /api/v1/auth/logout.
func (h *SessionHandler) Logout(c *gin.Context) {
	h.sessions.Logout(middleware.GetSession(c))
	c.Status(http.StatusNoContent)
}

// Me handles GET /api/v1/auth/me.
func (h *SessionHandler) Me(c *gin.Context) {
	session := middleware.GetSession(c)

	c.JSON(http.StatusOK, dto.NewUserResponse(session.User()))
}

// RegisterRoutes wires the auth endpoints. Login and register are open;
// logout and me require an authenticated session.
func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/register", h.Register)

	protected := auth.Group("")
	protected.Use(middleware.RequireSession())
	protected.POST("/logout", h.Logout)
	protected.GET("/me", h.Me)
}
