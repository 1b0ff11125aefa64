package model

import "time"

// Driver mirrors the 'drivers' table. The password hash never leaves the
// API surface.
type Driver struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        *string   `json:"phone"`
	CreatedAt    time.Time `json:"createdAt"`
}
