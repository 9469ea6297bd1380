package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the customer identity a reservation points at. Owned by the
// account system; this service only reads it.
type User struct {
	ID        uuid.UUID
	Username  string
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
}

// DisplayName is the name used in notifications: "First Last" when both
// parts are set, otherwise the username.
func (u User) DisplayName() string {
	if strings.TrimSpace(u.FirstName) == "" || strings.TrimSpace(u.LastName) == "" {
		return u.Username
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
