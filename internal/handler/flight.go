package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aerolift/dispatch/internal/flight"
	"github.com/aerolift/dispatch/internal/model"
	"github.com/aerolift/dispatch/internal/repository"
)

// FlightHandler serves flight status: cached snapshots written by the
// background refresher when available, a live provider call otherwise.
type FlightHandler struct {
	Jobs   *repository.JobRepo
	Client *flight.Client
}

func NewFlightHandler(j *repository.JobRepo, c *flight.Client) *FlightHandler {
	return &FlightHandler{Jobs: j, Client: c}
}

type flightStatusResp struct {
	model.FlightStatus
	CachedAt *time.Time `json:"cachedAt,omitempty"`
}

// Status returns the status of one flight by IATA number.
func (h *FlightHandler) Status(c echo.Context) error {
	flightNumber := strings.ToUpper(strings.TrimSpace(c.Param("flightNumber")))
	if !flight.ValidFlightNumber(flightNumber) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid flight number format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	data, cachedAt, err := h.Jobs.LatestFlightCache(ctx, flightNumber)
	if err == nil {
		var cached model.FlightStatus
		if json.Unmarshal([]byte(data), &cached) == nil && cached.FlightNumber != "" {
			return c.JSON(http.StatusOK, flightStatusResp{FlightStatus: cached, CachedAt: &cachedAt})
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	snapshot, err := h.Client.Fetch(ctx, flightNumber)
	if err != nil {
		if errors.Is(err, flight.ErrNoAPIKey) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "AviationStack API key not configured"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch flight status"})
	}
	if snapshot == nil {
		return c.JSON(http.StatusOK, echo.Map{
			"flightNumber": flightNumber,
			"status":       "Not found",
			"message":      "Flight information not available",
		})
	}
	return c.JSON(http.StatusOK, flightStatusResp{FlightStatus: *snapshot})
}
