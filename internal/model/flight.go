package model

// FlightEndpoint is one side (departure or arrival) of a flight snapshot.
// Airport defaults to "Unknown" when the provider omits it; the remaining
// fields stay null rather than guessing.
type FlightEndpoint struct {
	Airport   string  `json:"airport"`
	Scheduled *string `json:"scheduled"`
	Actual    *string `json:"actual"`
	Delay     *int    `json:"delay"`
}

// FlightStatus is the normalized snapshot of one flight as returned by the
// aviation data provider. Its JSON form is what gets persisted into the
// flight_status_data column and served to clients.
type FlightStatus struct {
	FlightNumber string         `json:"flightNumber"`
	Status       string         `json:"status"`
	Departure    FlightEndpoint `json:"departure"`
	Arrival      FlightEndpoint `json:"arrival"`
	Airline      string         `json:"airline"`
}
