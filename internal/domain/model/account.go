package model

import (
	"errors"
	"strings"
	"time"
)

// Account is a portal login account, scoped to a namespace. Password
// hashing is delegated to bcrypt; this struct only carries the hash.
type Account struct {
	ID           int       `db:"id"            json:"id"`
	Namespace    string    `db:"namespace"     json:"namespace"`
	Username     string    `db:"username"      json:"username"`
	DisplayName  string    `db:"display_name"  json:"display_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role"          json:"role"`
	RoleID       int       `db:"role_id"       json:"role_id"`
	ServiceIDs   []int     `db:"service_ids"   json:"service_ids"`
	Active       bool      `db:"active"        json:"active"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}

// Validate checks the fields a lookup or insert depends on.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return errors.New("username is required")
	}
	if strings.TrimSpace(a.Namespace) == "" {
		return errors.New("namespace is required")
	}
	return nil
}
