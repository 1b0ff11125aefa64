package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aerolift/dispatch/internal/model"
	"github.com/aerolift/dispatch/internal/repository"
)

type LocationHandler struct {
	Locations *repository.LocationRepo
}

func NewLocationHandler(l *repository.LocationRepo) *LocationHandler {
	return &LocationHandler{Locations: l}
}

type locationReq struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Type    string `json:"type"`
}

// List returns all saved locations ordered by name.
func (h *LocationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	locations, err := h.Locations.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, locations)
}

// Create adds a pickup/dropoff location. Type defaults to "other".
func (h *LocationHandler) Create(c echo.Context) error {
	var req locationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.Address == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Name and address are required"})
	}
	switch req.Type {
	case "":
		req.Type = model.LocationOther
	case model.LocationAirport, model.LocationHotel, model.LocationOther:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid location type"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	loc, err := h.Locations.Create(ctx, req.Name, req.Address, req.Type)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create location failed"})
	}
	return c.JSON(http.StatusCreated, loc)
}
