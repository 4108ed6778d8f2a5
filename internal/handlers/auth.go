package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/recipe-share/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// AuthService is the account behaviour the auth routes depend on.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	FirebaseLogin(ctx context.Context, req models.FirebaseLoginRequest) (*models.AuthResponse, error)
	Me(ctx context.Context, identity models.Identity) (*models.PublicUser, error)
	FirebaseEnabled() bool
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterAuthRoutes registers authentication-related routes. requireAuth
// guards the routes that need a caller identity.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	if h.service.FirebaseEnabled() {
		g.POST("/firebase-login", h.FirebaseLogin)
	}
	g.GET("/me", h.Me, requireAuth)
}

// Register creates a local account and returns a token for it.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(err)
	}

	resp, err := h.service.Register(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Login authenticates with email and password.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(err)
	}

	resp, err := h.service.Login(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// FirebaseLogin exchanges a Firebase ID token for a local token.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(err)
	}

	resp, err := h.service.FirebaseLogin(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.service.Me(c.Request().Context(), identity)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, user)
}
