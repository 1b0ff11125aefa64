package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aerolift/dispatch/internal/config"
	"github.com/aerolift/dispatch/internal/repository"
	"github.com/aerolift/dispatch/internal/utils"
)

// DriverHandler exposes the management CRUD surface for drivers.
type DriverHandler struct {
	Cfg     config.Config
	Drivers *repository.DriverRepo
	Jobs    *repository.JobRepo
}

func NewDriverHandler(cfg config.Config, d *repository.DriverRepo, j *repository.JobRepo) *DriverHandler {
	return &DriverHandler{Cfg: cfg, Drivers: d, Jobs: j}
}

type driverReq struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password *string `json:"password"`
	Phone    *string `json:"phone"`
}

// List returns all drivers without password hashes.
func (h *DriverHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	drivers, err := h.Drivers.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, drivers)
}

// Create adds a driver from the management side.
func (h *DriverHandler) Create(c echo.Context) error {
	var req driverReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == nil || *req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Name, email, and password are required"})
	}

	hash, err := utils.HashPassword(*req.Password, h.Cfg.BcryptCost)
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

	d, err := h.Drivers.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load driver failed"})
	}
	return c.JSON(http.StatusCreated, d)
}

// Update edits a driver; the password is rehashed only when supplied.
func (h *DriverHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Driver not found"})
	}
	var req driverReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Name and email are required"})
	}

	var hash *string
	if req.Password != nil && *req.Password != "" {
		hashed, err := utils.HashPassword(*req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update driver failed"})
		}
		hash = &hashed
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Drivers.Update(ctx, id, req.Name, req.Email, req.Phone, hash); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Driver not found"})
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update driver failed"})
		}
	}

	d, err := h.Drivers.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load driver failed"})
	}
	return c.JSON(http.StatusOK, d)
}

// Delete removes a driver unless jobs still reference it.
func (h *DriverHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Driver not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Drivers.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "Cannot delete driver with assigned jobs. Please reassign jobs first.",
			})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Driver not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete driver failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Driver deleted successfully"})
}

// ListJobs returns the jobs assigned to one driver.
func (h *DriverHandler) ListJobs(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Driver not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	jobs, err := h.Jobs.ListByDriver(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, jobs)
}
