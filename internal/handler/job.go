package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aerolift/dispatch/internal/middleware"
	"github.com/aerolift/dispatch/internal/model"
	"github.com/aerolift/dispatch/internal/queue"
	"github.com/aerolift/dispatch/internal/recurrence"
	"github.com/aerolift/dispatch/internal/repository"
	queue_publisher "github.com/aerolift/dispatch/internal/service"
)

// JobHandler exposes the job CRUD surface plus the driver-scoped
// pickup/dropoff actions.
type JobHandler struct {
	Jobs *repository.JobRepo
}

func NewJobHandler(j *repository.JobRepo) *JobHandler { return &JobHandler{Jobs: j} }

// defaultRecurrenceCount matches the UI default for "how many future
// instances" when the caller omits it.
const defaultRecurrenceCount = 12

type createJobReq struct {
	PickupDate          string  `json:"pickupDate"`
	PickupTime          string  `json:"pickupTime"`
	FlightNumber        string  `json:"flightNumber"`
	PickupLocation      string  `json:"pickupLocation"`
	DropoffLocation     string  `json:"dropoffLocation"`
	DriverID            *int64  `json:"driverId"`
	NumberOfPassengers  int     `json:"numberOfPassengers"`
	IsRecurring         bool    `json:"isRecurring"`
	RecurrenceFrequency *string `json:"recurrenceFrequency"`
	RecurrenceCount     int     `json:"recurrenceCount"`
}

type createJobResp struct {
	model.Job
	CreatedInstances int `json:"createdInstances"`
}

// List returns jobs, optionally filtered by status, driver and pickup date.
func (h *JobHandler) List(c echo.Context) error {
	f := repository.Filter{
		Status: c.QueryParam("status"),
		Date:   c.QueryParam("date"),
	}
	if v := c.QueryParam("driverId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid driverId"})
		}
		f.DriverID = &id
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	jobs, err := h.Jobs.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, jobs)
}

// Get returns a single job by id.
func (h *JobHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Job not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	job, err := h.Jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, job)
}

// Create inserts a job; with isRecurring set it also materializes the
// future occurrences in the same transaction. Status is derived from the
// driver assignment.
func (h *JobHandler) Create(c echo.Context) error {
	var req createJobReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.PickupDate == "" || req.PickupTime == "" || req.FlightNumber == "" ||
		req.PickupLocation == "" || req.DropoffLocation == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required fields"})
	}

	status := model.StatusUnassigned
	if req.DriverID != nil {
		status = model.StatusAssigned
	}
	if req.NumberOfPassengers <= 0 {
		req.NumberOfPassengers = 1
	}
	count := req.RecurrenceCount
	if count <= 0 {
		count = defaultRecurrenceCount
	}

	job := model.Job{
		PickupDate:          req.PickupDate,
		PickupTime:          req.PickupTime,
		FlightNumber:        req.FlightNumber,
		PickupLocation:      req.PickupLocation,
		DropoffLocation:     req.DropoffLocation,
		DriverID:            req.DriverID,
		NumberOfPassengers:  req.NumberOfPassengers,
		Status:              status,
		IsRecurring:         req.IsRecurring,
		RecurrenceFrequency: req.RecurrenceFrequency,
		RecurrenceCount:     count,
	}

	var futureDates []string
	if req.IsRecurring && req.RecurrenceFrequency != nil {
		var err error
		futureDates, err = recurrence.ExpandDates(req.PickupDate,
			recurrence.Frequency(*req.RecurrenceFrequency), count)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid pickupDate"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	created, err := h.Jobs.CreateWithRecurrence(ctx, &job, futureDates)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create job failed"})
	}

	full, err := h.Jobs.GetByID(ctx, job.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load job failed"})
	}
	if full.DriverID != nil {
		publishJobEvent(queue.EventJobAssigned, full)
	}
	return c.JSON(http.StatusCreated, createJobResp{Job: full, CreatedInstances: created})
}

type updateJobReq struct {
	PickupDate         *string `json:"pickupDate"`
	PickupTime         *string `json:"pickupTime"`
	FlightNumber       *string `json:"flightNumber"`
	PickupLocation     *string `json:"pickupLocation"`
	DropoffLocation    *string `json:"dropoffLocation"`
	DriverID           *int64  `json:"driverId"`
	NumberOfPassengers *int    `json:"numberOfPassengers"`
	Status             *string `json:"status"`
}

// Update applies a partial edit. Omitted fields keep their values; an
// omitted driverId keeps the current assignment while an explicit null
// clears it, so the body is inspected for key presence. Status is
// re-derived from the final assignment unless supplied explicitly.
func (h *JobHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Job not found"})
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var req updateJobReq
	if err := json.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	driverID := existing.DriverID
	if _, present := keys["driverId"]; present {
		driverID = req.DriverID
	}
	status := model.StatusUnassigned
	if driverID != nil {
		status = model.StatusAssigned
	}
	if req.Status != nil && *req.Status != "" {
		status = *req.Status
	}

	wasAssigned := existing.DriverID != nil

	u := repository.Update{
		PickupDate:         req.PickupDate,
		PickupTime:         req.PickupTime,
		FlightNumber:       req.FlightNumber,
		PickupLocation:     req.PickupLocation,
		DropoffLocation:    req.DropoffLocation,
		DriverID:           driverID,
		NumberOfPassengers: req.NumberOfPassengers,
		Status:             status,
	}
	if err := h.Jobs.Update(ctx, id, u); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update job failed"})
	}

	job, err := h.Jobs.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load job failed"})
	}
	if job.DriverID != nil && !wasAssigned {
		publishJobEvent(queue.EventJobAssigned, job)
	}
	return c.JSON(http.StatusOK, job)
}

// Delete removes a job.
func (h *JobHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Job not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Jobs.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete job failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Job deleted successfully"})
}

// MarkPickup stamps the pickup time for the authenticated driver's own
// job. A job assigned to someone else reads as not found.
func (h *JobHandler) MarkPickup(c echo.Context) error {
	return h.stamp(c, queue.EventJobPickedUp, h.Jobs.SetPickedUp)
}

// MarkDropoff stamps the dropoff time under the same ownership rule.
func (h *JobHandler) MarkDropoff(c echo.Context) error {
	return h.stamp(c, queue.EventJobDroppedOff, h.Jobs.SetDroppedOff)
}

func (h *JobHandler) stamp(c echo.Context, eventType string,
	set func(ctx context.Context, jobID, driverID int64, at time.Time) error) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Job not found or not assigned to you"})
	}
	driverID, ok := c.Get(middleware.CtxDriverID).(int64)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := set(ctx, id, driverID, time.Now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Job not found or not assigned to you"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update job failed"})
	}

	job, err := h.Jobs.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load job failed"})
	}
	publishJobEvent(eventType, job)
	return c.JSON(http.StatusOK, job)
}

// publishJobEvent fires a lifecycle event at the broker without blocking
// the request; failures are logged by the publisher and dropped.
func publishJobEvent(eventType string, job model.Job) {
	ev := queue.JobEvent{
		Type:            eventType,
		JobID:           job.ID,
		FlightNumber:    job.FlightNumber,
		PickupDate:      job.PickupDate,
		PickupLocation:  job.PickupLocation,
		DropoffLocation: job.DropoffLocation,
		OccurredAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if job.DriverID != nil {
		ev.DriverID = *job.DriverID
	}
	if job.DriverName != nil {
		ev.DriverName = *job.DriverName
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishJobEvent(ctx, ev)
	}()
}
