package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aerolift/dispatch/internal/config"
	"github.com/aerolift/dispatch/internal/repository"
	"github.com/aerolift/dispatch/internal/utils"
)

// AuthHandler bundles dependencies for the login/registration endpoints.
type AuthHandler struct {
	Cfg     config.Config
	Drivers *repository.DriverRepo
}

func NewAuthHandler(cfg config.Config, d *repository.DriverRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Drivers: d}
}

// ----- DTOs -----

type registerReq struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    *string `json:"phone"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPart struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

type authResp struct {
	Token string   `json:"token"`
	User  userPart `json:"user"`
}

// Register creates a driver account and returns a token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Name, email, and password are required"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create driver failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Drivers.Create(ctx, req.Name, req.Email, hash, req.Phone)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create driver failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, id, req.Email, req.Name, h.Cfg.AccessTokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusCreated, authResp{
		Token: access.Token,
		User:  userPart{ID: id, Name: req.Name, Email: req.Email, Phone: req.Phone},
	})
}

// Login verifies credentials and returns a fresh token. All credential
// failures surface as the same 401 so the endpoint leaks nothing about
// which part was wrong.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Drivers.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if d.PasswordHash == "" || !utils.VerifyPassword(d.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, d.ID, d.Email, d.Name, h.Cfg.AccessTokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		Token: access.Token,
		User:  userPart{ID: d.ID, Name: d.Name, Email: d.Email, Phone: d.Phone},
	})
}
