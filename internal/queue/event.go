// Package queue defines message payloads exchanged over the message broker.
package queue

// Job event types published to the job.events queue.
const (
	EventJobAssigned   = "job.assigned"
	EventJobPickedUp   = "job.picked_up"
	EventJobDroppedOff = "job.dropped_off"
)

// JobEvent is published when a job is created with a driver assignment or
// when a driver marks pickup/dropoff. It carries enough for downstream
// consumers (notifications, audit trail) without querying the database.
type JobEvent struct {
	Type            string `json:"type"`
	JobID           int64  `json:"job_id"`
	DriverID        int64  `json:"driver_id"`
	DriverName      string `json:"driver_name,omitempty"`
	FlightNumber    string `json:"flight_number"`
	PickupDate      string `json:"pickup_date"`
	PickupLocation  string `json:"pickup_location"`
	DropoffLocation string `json:"dropoff_location"`
	OccurredAt      string `json:"occurred_at"`
}
