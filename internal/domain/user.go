package domain

import "time"

// RoleAdmin is the only role the system ships with. Authorization is
// authenticated-or-not; the role field is carried for clients.
const RoleAdmin = "admin"

// User represents an authenticated user of the system.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
