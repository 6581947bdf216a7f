package model

import "time"

// Booking is the read-only projection the protected sample endpoints
// expose. The booking workflows themselves live behind the
// ports.BookingReader boundary and are out of scope here.
type Booking struct {
	ID        int       `db:"id"         json:"id"`
	Namespace string    `db:"namespace"  json:"namespace"`
	UserID    int       `db:"user_id"    json:"user_id"`
	ServiceID int       `db:"service_id" json:"service_id"`
	Kind      string    `db:"kind"       json:"kind"` // drive, clinic, meal, room, stay, document
	Status    string    `db:"status"     json:"status"`
	StartsAt  time.Time `db:"starts_at"  json:"starts_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Service is a bookable facility/feature in a namespace's catalog.
type Service struct {
	ID        int    `db:"id"        json:"id"`
	Namespace string `db:"namespace" json:"namespace"`
	Name      string `db:"name"      json:"name"`
	Enabled   bool   `db:"enabled"   json:"enabled"`
}
