package model

import "time"

// Job statuses. A job is Assigned exactly when a driver reference is
// present; every write path derives the status from the driver column.
const (
	StatusAssigned   = "Assigned"
	StatusUnassigned = "Unassigned"
)

// Job mirrors the 'jobs' table. Pickup date and time are kept as the
// calendar strings the clients send ("2006-01-02" / "15:04"); all
// timestamps are UTC. The flight cache columns are written by the
// background refresher and keyed by flight number, not by job.
type Job struct {
	ID                    int64      `json:"id"`
	PickupDate            string     `json:"pickupDate"`
	PickupTime            string     `json:"pickupTime"`
	FlightNumber          string     `json:"flightNumber"`
	PickupLocation        string     `json:"pickupLocation"`
	DropoffLocation       string     `json:"dropoffLocation"`
	DriverID              *int64     `json:"driverId"`
	DriverName            *string    `json:"driverName,omitempty"`
	NumberOfPassengers    int        `json:"numberOfPassengers"`
	DriverPickedUpAt      *time.Time `json:"driverPickedUpAt"`
	DriverDroppedOffAt    *time.Time `json:"driverDroppedOffAt"`
	Status                string     `json:"status"`
	IsRecurring           bool       `json:"isRecurring"`
	RecurrenceFrequency   *string    `json:"recurrenceFrequency,omitempty"`
	RecurrenceCount       int        `json:"recurrenceCount"`
	FlightStatus          *string    `json:"flightStatus"`
	FlightStatusUpdatedAt *time.Time `json:"flightStatusUpdatedAt"`
	FlightStatusData      *string    `json:"flightStatusData"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}
